package ebitenhost

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/phanxgames/slidefx"
)

// RunConfig configures Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// TopicID selects the topic to show. Empty shows the first one.
	TopicID string
	// ShowFPS draws the ebiten FPS/TPS counters in the corner.
	ShowFPS bool
	// Debug enables slidefx per-frame statistics logging.
	Debug bool
	// Seed seeds every mounted scene. Zero is random.
	Seed uint64
	// Events receives the scene events of every mounted session.
	Events slidefx.EventSink
	// OnTick runs once per tick after the scene frame.
	OnTick func()
	// Script is played against the mounted session, one step per tick. Its snapshot
	// actions take screenshots.
	Script *slidefx.ScriptRunner
	// ScreenshotDir receives screenshots (F12 or script snapshots).
	// Defaults to "screenshots".
	ScreenshotDir string
}

const (
	headerHeight   = 48
	footerHeight   = 32
	textColumn     = 0.4
	pagePadding    = 16
	progressHeight = 4
	lineHeight     = 16

	orbitSensitivity = 0.005
	wheelZoomStep    = 0.9

	sliderStep = 0.1

	readoutWidth = 220
)

var (
	pageBackground = color.NRGBA{0x1a, 0x1a, 0x2e, 0xff}
	textColor      = color.NRGBA{0xee, 0xee, 0xee, 0xff}
	mutedColor     = color.NRGBA{0xaa, 0xaa, 0xaa, 0xff}
	progressColor  = color.NRGBA{0x66, 0xcc, 0x00, 0xff}
	readoutColor   = color.NRGBA{0x00, 0x00, 0x00, 0xa0}
)

// Game is an ebiten.Game that shows one topic of a deck: slide text on the
// left, the slide's scene on the right.
type Game struct {
	cfg     RunConfig
	viewer  *slidefx.Viewer
	panel   *Panel
	backend *Backend
	// alloc creates renderers for mounts. It is backend outside tests.
	alloc   slidefx.Backend
	driver  *slidefx.TickDriver
	session *slidefx.Session
	start   time.Time

	dragging     bool
	lastX, lastY int

	width, height int
	wrapped       []string
	wrapWidth     int
	wrappedSlide  int

	shots []string

	// failed latches a mount error until the slide or panel size changes.
	failed    bool
	failedKey mountKey
}

type mountKey struct {
	slide, w, h int
}

// NewGame creates a game for a topic of deck.
func NewGame(deck *slidefx.Deck, cfg RunConfig) (*Game, error) {
	if deck == nil || len(deck.Topics) == 0 {
		return nil, errors.New("ebitenhost: deck has no topics")
	}
	topic := &deck.Topics[0]
	if cfg.TopicID != "" {
		t, ok := deck.Topic(cfg.TopicID)
		if !ok {
			return nil, fmt.Errorf("ebitenhost: unknown topic %q", cfg.TopicID)
		}
		topic = t
	}
	v, err := slidefx.NewViewer(topic)
	if err != nil {
		return nil, err
	}
	if cfg.Width <= 0 {
		cfg.Width = 1280
	}
	if cfg.Height <= 0 {
		cfg.Height = 720
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}
	slidefx.SetDebugMode(cfg.Debug)
	backend := &Backend{}
	g := &Game{
		cfg:          cfg,
		viewer:       v,
		panel:        NewPanel(0, 0),
		backend:      backend,
		alloc:        backend,
		driver:       slidefx.NewTickDriver(),
		start:        time.Now(),
		wrappedSlide: -1,
	}
	if cfg.Script != nil && cfg.Script.OnSnapshot == nil {
		cfg.Script.OnSnapshot = func(label string, _ *slidefx.Session) { g.Screenshot(label) }
	}
	return g, nil
}

// Run opens a window and shows the deck until the window closes or Escape is
// pressed.
func Run(deck *slidefx.Deck, cfg RunConfig) error {
	g, err := NewGame(deck, cfg)
	if err != nil {
		return err
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	err = ebiten.RunGame(g)
	g.Close()
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// Session returns the mounted session, or nil before the first layout.
func (g *Game) Session() *slidefx.Session { return g.session }

// Close disposes the mounted session.
func (g *Game) Close() {
	if g.session != nil {
		g.session.Dispose()
		g.session = nil
	}
}

func (g *Game) mountKey() mountKey {
	w, h := g.panel.Size()
	return mountKey{slide: g.viewer.Index(), w: w, h: h}
}

// remount swaps the session for the current slide.
func (g *Game) remount() {
	g.Close()
	g.failed = false
	cfg := g.viewer.SceneConfig()
	cfg.Seed = g.cfg.Seed
	s, err := slidefx.Mount(g.panel, g.alloc, g.driver, cfg)
	if errors.Is(err, slidefx.ErrSurfaceNotReady) {
		return
	}
	if err != nil {
		slidefx.Logger().Error("mount failed", "slide", g.viewer.Current().ID, "err", err)
		g.failed, g.failedKey = true, g.mountKey()
		return
	}
	if g.cfg.Events != nil {
		s.SetEventSink(g.cfg.Events)
	}
	g.session = s
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		g.Screenshot(g.viewer.Current().ID)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		if g.viewer.Next() {
			g.remount()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		if g.viewer.Prev() {
			g.remount()
		}
	}
	g.ensureSession()
	if g.session != nil {
		g.handlePointer()
		g.handleOverlayKeys()
		if g.cfg.Script != nil {
			g.cfg.Script.Step(g.session)
		}
	}
	g.driver.Tick(float64(time.Since(g.start).Microseconds()) / 1000)
	if g.cfg.OnTick != nil {
		g.cfg.OnTick()
	}
	return nil
}

// ensureSession mounts the current slide if nothing is mounted. A failed
// mount is not retried until the slide or the panel size changes.
func (g *Game) ensureSession() {
	if g.session != nil {
		return
	}
	if g.failed && g.failedKey == g.mountKey() {
		return
	}
	g.remount()
}

// handlePointer turns drags inside the panel into orbit rotation and the
// wheel into zoom.
func (g *Game) handlePointer() {
	orbit := g.session.Orbit()
	if orbit == nil {
		return
	}
	x, y := ebiten.CursorPosition()
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && g.panel.Contains(x, y) {
		g.dragging = true
		g.lastX, g.lastY = x, y
	}
	if g.dragging {
		if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			g.dragging = false
		} else {
			orbit.Rotate(-float64(x-g.lastX)*orbitSensitivity, -float64(y-g.lastY)*orbitSensitivity)
			g.lastX, g.lastY = x, y
		}
	}
	if _, wy := ebiten.Wheel(); wy != 0 && g.panel.Contains(x, y) {
		orbit.Zoom(math.Pow(wheelZoomStep, wy))
	}
}

// handleOverlayKeys drives the regression overlay: W/S slope, A/D intercept,
// 1-4 toggle line, errors, points and overfit curve, B snaps to best fit.
func (g *Game) handleOverlayKeys() {
	sc, ok := g.session.Scene().(*slidefx.RegressionScene)
	if !ok || sc.Overlay == nil {
		return
	}
	o := sc.Overlay
	step := func(k ebiten.Key) bool { return inpututil.IsKeyJustPressed(k) }
	switch {
	case step(ebiten.KeyW):
		o.SetSlope(slidefx.SlopeRange.Clamp(o.Slope() + sliderStep))
	case step(ebiten.KeyS):
		o.SetSlope(slidefx.SlopeRange.Clamp(o.Slope() - sliderStep))
	case step(ebiten.KeyD):
		o.SetIntercept(slidefx.InterceptRange.Clamp(o.Intercept() + sliderStep))
	case step(ebiten.KeyA):
		o.SetIntercept(slidefx.InterceptRange.Clamp(o.Intercept() - sliderStep))
	case step(ebiten.Key1):
		o.SetShowLine(!o.ShowLine())
	case step(ebiten.Key2):
		o.SetShowErrors(!o.ShowErrors())
	case step(ebiten.Key3):
		o.SetShowPoints(!o.ShowPoints())
	case step(ebiten.Key4):
		o.SetShowOverfit(!o.ShowOverfit())
	case step(ebiten.KeyB):
		m, b := o.BestFit()
		o.SetSlope(m)
		o.SetIntercept(b)
	}
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(pageBackground)
	g.drawHeader(screen)
	g.drawSlideText(screen)

	if g.session != nil {
		if r := g.backend.Last(); r != nil {
			if img := r.Image(); img != nil {
				var op ebiten.DrawImageOptions
				op.GeoM.Translate(float64(g.panel.X), float64(g.panel.Y))
				screen.DrawImage(img, &op)
			}
		}
	}
	g.drawReadout(screen)
	g.drawFooter(screen)
	if g.cfg.ShowFPS {
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()), 4, g.height-footerHeight-36)
	}
	g.flushScreenshots(screen)
}

func (g *Game) drawHeader(screen *ebiten.Image) {
	t := g.viewer.Topic()
	drawText(screen, t.Title, pagePadding, 14, textColor)
	counter := fmt.Sprintf("%d / %d", g.viewer.Index()+1, g.viewer.Len())
	drawText(screen, counter, float64(g.width)-pagePadding-text.Advance(counter, labelFace), 14, mutedColor)

	w := float32(g.width) * float32(g.viewer.Progress()/100)
	vector.DrawFilledRect(screen, 0, headerHeight-progressHeight, w, progressHeight, progressColor, false)
}

func (g *Game) drawSlideText(screen *ebiten.Image) {
	slide := g.viewer.Current()
	x := float64(pagePadding)
	y := float64(headerHeight + pagePadding)
	drawText(screen, slide.Title, x, y, textColor)
	y += 2 * lineHeight

	colW := int(float64(g.width)*textColumn) - 2*pagePadding
	if g.wrappedSlide != g.viewer.Index() || g.wrapWidth != colW {
		g.wrapped = wrapText(slide.PlainText(), colW, func(s string) float64 { return text.Advance(s, labelFace) })
		g.wrappedSlide, g.wrapWidth = g.viewer.Index(), colW
	}
	for _, line := range g.wrapped {
		if y > float64(g.height-footerHeight-lineHeight) {
			break
		}
		drawText(screen, line, x, y, mutedColor)
		y += lineHeight
	}
}

// drawReadout shows the regression overlay values in the corner of the
// scene panel.
func (g *Game) drawReadout(screen *ebiten.Image) {
	if g.session == nil {
		return
	}
	sc, ok := g.session.Scene().(*slidefx.RegressionScene)
	if !ok || sc.Overlay == nil {
		return
	}
	lines := overlayReadout(sc.Overlay)
	x := float64(g.panel.X + pagePadding)
	y := float64(g.panel.Y + pagePadding)
	h := float32(len(lines)*lineHeight + pagePadding)
	vector.DrawFilledRect(screen, float32(x-pagePadding/2), float32(y-pagePadding/2), readoutWidth, h, readoutColor, false)
	for _, line := range lines {
		drawText(screen, line, x, y, textColor)
		y += lineHeight
	}
}

// overlayReadout formats the error metric, line parameters and layer
// toggles of o.
func overlayReadout(o *slidefx.Overlay) []string {
	return []string{
		fmt.Sprintf("MSE (Error): %.2f", o.MSE()),
		fmt.Sprintf("Slope: %.2f", o.Slope()),
		fmt.Sprintf("Intercept: %.2f", o.Intercept()),
		fmt.Sprintf("[1] Line: %s  [2] Errors: %s", onOff(o.ShowLine()), onOff(o.ShowErrors())),
		fmt.Sprintf("[3] Points: %s  [4] Overfit: %s", onOff(o.ShowPoints()), onOff(o.ShowOverfit())),
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (g *Game) drawFooter(screen *ebiten.Image) {
	hint := "<- prev   next ->   drag: orbit   wheel: zoom   F12: screenshot   esc: quit"
	if g.session != nil {
		if _, ok := g.session.Scene().(*slidefx.RegressionScene); ok {
			hint = "W/S slope   A/D intercept   1-4 toggles   B best fit   " + hint
		}
	}
	drawText(screen, hint, pagePadding, float64(g.height-footerHeight+8), mutedColor)
}

// Layout implements ebiten.Game. The scene panel takes the right side of
// the window between header and footer.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	px := int(float64(outsideWidth) * textColumn)
	g.panel.SetBounds(px, headerHeight, outsideWidth-px, outsideHeight-headerHeight-footerHeight)
	return outsideWidth, outsideHeight
}

func drawText(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, labelFace, op)
}

// wrapText breaks s into lines no wider than width according to measure.
// Words wider than a line get a line of their own.
func wrapText(s string, width int, measure func(string) float64) []string {
	var lines []string
	var cur strings.Builder
	for _, word := range strings.Fields(s) {
		if cur.Len() == 0 {
			cur.WriteString(word)
			continue
		}
		if measure(cur.String()+" "+word) > float64(width) {
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(word)
			continue
		}
		cur.WriteByte(' ')
		cur.WriteString(word)
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
