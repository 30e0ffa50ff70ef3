package ebitenhost

import (
	"errors"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/phanxgames/slidefx"
)

// errNoSize is returned when a renderer is requested for an empty surface.
var errNoSize = errors.New("ebitenhost: surface has no size")

// labelFace is the bitmap face all labels are rasterized with. Labels are
// scaled from its native height.
var labelFace = text.NewGoXFace(basicfont.Face7x13)

const labelFaceHeight = 13

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Backend allocates ebiten renderers and remembers the latest one so the
// game can composite its output.
type Backend struct {
	last *Renderer
}

// NewRenderer implements slidefx.Backend.
func (b *Backend) NewRenderer(s slidefx.Surface) (slidefx.Renderer, error) {
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return nil, errNoSize
	}
	b.last = NewRenderer(w, h)
	return b.last, nil
}

// Last returns the most recently created renderer, or nil.
func (b *Backend) Last() *Renderer { return b.last }

// Renderer rasterizes slidefx draw lists onto an offscreen image that the
// game composites into its panel.
type Renderer struct {
	target   *ebiten.Image
	labels   map[uint32]*ebiten.Image
	attached bool
	disposed bool

	vertices []ebiten.Vertex
	indices  []uint16

	// Released counts resources handed back by the session.
	Released int
}

// NewRenderer creates a renderer with a w×h target.
func NewRenderer(w, h int) *Renderer {
	return &Renderer{
		target:   ebiten.NewImage(w, h),
		labels:   make(map[uint32]*ebiten.Image),
		attached: true,
	}
}

// Image returns the rendered frame, or nil once detached.
func (r *Renderer) Image() *ebiten.Image {
	if !r.attached || r.disposed {
		return nil
	}
	return r.target
}

// SetSize reallocates the target when the size changed.
func (r *Renderer) SetSize(w, h int) {
	if r.disposed || w <= 0 || h <= 0 {
		return
	}
	b := r.target.Bounds()
	if b.Dx() == w && b.Dy() == h {
		return
	}
	r.target.Deallocate()
	r.target = ebiten.NewImage(w, h)
}

// Draw clears the target to the list background and draws every command.
func (r *Renderer) Draw(list *slidefx.DrawList) {
	if r.disposed {
		return
	}
	r.target.Fill(toNRGBA(list.Background))
	for i := range list.Commands {
		cmd := &list.Commands[i]
		switch cmd.Type {
		case slidefx.CommandCircle:
			p := cmd.Points[0]
			vector.DrawFilledCircle(r.target, float32(p.X), float32(p.Y), float32(cmd.Radius), toNRGBA(cmd.Color), true)
		case slidefx.CommandLine:
			r.drawLine(cmd)
		case slidefx.CommandPolygon:
			r.drawPolygon(cmd)
		case slidefx.CommandText:
			r.drawLabel(cmd)
		}
	}
}

func (r *Renderer) drawLine(cmd *slidefx.DrawCommand) {
	a, b := cmd.Points[0], cmd.Points[1]
	clr := toNRGBA(cmd.Color)
	w := float32(cmd.Width)
	vector.StrokeLine(r.target, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), w, clr, true)
	if cmd.Round {
		vector.DrawFilledCircle(r.target, float32(a.X), float32(a.Y), w/2, clr, true)
		vector.DrawFilledCircle(r.target, float32(b.X), float32(b.Y), w/2, clr, true)
	}
}

// drawPolygon fills a convex polygon as a triangle fan.
func (r *Renderer) drawPolygon(cmd *slidefx.DrawCommand) {
	if cmd.NumPoints < 3 {
		return
	}
	c := cmd.Color
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
	for i := 0; i < cmd.NumPoints; i++ {
		p := cmd.Points[i]
		r.vertices = append(r.vertices, ebiten.Vertex{
			DstX: float32(p.X), DstY: float32(p.Y),
			SrcX: 1, SrcY: 1,
			ColorR: float32(c.R), ColorG: float32(c.G), ColorB: float32(c.B), ColorA: float32(c.A),
		})
	}
	for i := 1; i < cmd.NumPoints-1; i++ {
		r.indices = append(r.indices, 0, uint16(i), uint16(i+1))
	}
	var op ebiten.DrawTrianglesOptions
	op.AntiAlias = true
	r.target.DrawTriangles(r.vertices, r.indices, whiteSubImage, &op)
}

// drawLabel draws cached white label text, tinted and scaled to the command.
func (r *Renderer) drawLabel(cmd *slidefx.DrawCommand) {
	if cmd.Text == "" || cmd.TextSize <= 0 {
		return
	}
	img := r.labelImage(cmd)
	b := img.Bounds()
	s := cmd.TextSize / labelFaceHeight
	p := cmd.Points[0]

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(p.X, p.Y)
	c := cmd.Color
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	op.Filter = ebiten.FilterLinear
	r.target.DrawImage(img, &op)
}

// labelImage returns the rasterized text of a label, rendering it on first
// use. Labels without a geometry are rendered every time.
func (r *Renderer) labelImage(cmd *slidefx.DrawCommand) *ebiten.Image {
	var id uint32
	if cmd.Geometry != nil {
		id = cmd.Geometry.ResourceID()
		if img, ok := r.labels[id]; ok {
			return img
		}
	}
	w := int(text.Advance(cmd.Text, labelFace)) + 2
	img := ebiten.NewImage(max(w, 1), labelFaceHeight+4)
	op := &text.DrawOptions{}
	op.GeoM.Translate(1, 2)
	text.Draw(img, cmd.Text, labelFace, op)
	if id != 0 {
		r.labels[id] = img
	}
	return img
}

// Labels returns the number of cached label images.
func (r *Renderer) Labels() int { return len(r.labels) }

// Release frees the cached label image of a geometry. Other resources hold
// no GPU data in this renderer.
func (r *Renderer) Release(res slidefx.Resource) {
	r.Released++
	if img, ok := r.labels[res.ResourceID()]; ok {
		img.Deallocate()
		delete(r.labels, res.ResourceID())
	}
}

// Detach stops exposing the target to the game.
func (r *Renderer) Detach() { r.attached = false }

// Dispose frees the target and any labels left in the cache.
func (r *Renderer) Dispose() {
	if r.disposed {
		return
	}
	r.disposed = true
	for id, img := range r.labels {
		img.Deallocate()
		delete(r.labels, id)
	}
	r.target.Deallocate()
}

func toNRGBA(c slidefx.Color) color.NRGBA {
	return color.NRGBA{
		R: channel(c.R),
		G: channel(c.G),
		B: channel(c.B),
		A: channel(c.A),
	}
}

func channel(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	default:
		return uint8(v*255 + 0.5)
	}
}
