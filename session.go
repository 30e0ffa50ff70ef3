package slidefx

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrSurfaceNotReady is returned by Mount when the surface is missing or has
// zero size. Hosts treat it as a no-op and mount again once the surface has
// been laid out.
var ErrSurfaceNotReady = errors.New("slidefx: surface not ready")

// DefaultSpeed is the speed multiplier used when a slide sets none.
const DefaultSpeed = 1.0

// Camera defaults applied when a Stage leaves them zero.
const (
	defaultFOV  = 75
	defaultNear = 0.1
	defaultFar  = 1000
)

// Intro dolly: the camera starts introDistance times further out and eases in.
const (
	introDistance = 1.25
	introDuration = 0.8
)

// maxFrameDt caps a single frame step in seconds, so a stalled tab or a
// debugger pause does not fling the simulations forward.
const maxFrameDt = 0.25

// Surface is the host area a session draws into.
type Surface interface {
	// Size returns the current size in pixels.
	Size() (w, h int)
	// OnResize registers fn for size changes and returns a function that
	// removes the registration.
	OnResize(fn func(w, h int)) (remove func())
}

// Backend allocates renderers.
type Backend interface {
	NewRenderer(s Surface) (Renderer, error)
}

// Renderer draws command lists onto a surface.
type Renderer interface {
	SetSize(w, h int)
	Draw(list *DrawList)
	// Release frees renderer-side data held for a geometry or material.
	Release(r Resource)
	// Detach removes the renderer output from its surface.
	Detach()
	// Dispose frees the renderer itself.
	Dispose()
}

// Stage is the fixed camera and lighting setup of a scene.
type Stage struct {
	FOV, Near, Far   float64
	Position, Target r3.Vec
	Background       Color
	// Lights replaces DefaultLights when non-nil.
	Lights []Light
	// Orbit enables orbit controls when non-nil.
	Orbit *OrbitConfig
}

// Frame is passed to Scene.Update once per display refresh.
type Frame struct {
	// TimeMs is the host clock in milliseconds.
	TimeMs float64
	// Dt is the wall time since the previous frame in seconds, clamped.
	Dt float64
	// Elapsed is the wall time since mount in seconds.
	Elapsed float64
	// Speed is the session speed multiplier.
	Speed float64
}

// Scene builds a node tree into a session and animates it.
type Scene interface {
	Stage() Stage
	Build(s *Session)
	Update(s *Session, fr Frame)
}

// SceneConfig configures Mount.
type SceneConfig struct {
	// AnimationType selects a registered scene. Ignored when Scene is set.
	AnimationType string
	// Color is the accent color. Invalid values fall back to DefaultColor.
	Color string
	// Speed multiplies every simulation rate. Zero means DefaultSpeed.
	Speed float64
	// Frozen mounts the scene with speed 0. Speed is ignored.
	Frozen bool
	// Seed seeds the session random source. Zero picks a random seed.
	Seed uint64
	// Scene overrides AnimationType with a caller-built scene.
	Scene Scene
}

// DefaultSceneConfig returns the configuration of a slide with no settings.
func DefaultSceneConfig() SceneConfig {
	return SceneConfig{AnimationType: "cube", Color: DefaultColor, Speed: DefaultSpeed}
}

func (c SceneConfig) initialSpeed() float64 {
	switch {
	case c.Frozen:
		return 0
	case c.Speed == 0:
		return DefaultSpeed
	}
	return sanitizeSpeed(c.Speed)
}

// Session owns everything a mounted scene allocated. It is created by Mount
// and torn down exactly once by Dispose.
type Session struct {
	// ID identifies the session in logs and events.
	ID string
	// Root is the scene graph root.
	Root *Node

	name     string
	scene    Scene
	stage    Stage
	color    Color
	speed    float64
	rng      *rand.Rand
	camera   *Camera
	orbit    *OrbitControls
	lights   []Light
	surface  Surface
	renderer Renderer
	driver   FrameDriver
	sink     EventSink

	frame        FrameHandle
	removeResize func()
	resources    resourceSet
	list         DrawList

	width, height int
	lastMs        float64
	started       bool
	elapsed       float64

	dolly float64
	intro *TweenGroup

	disposed bool
}

// Mount creates a session for cfg on surface: it allocates the renderer,
// camera and lights, builds the scene, subscribes to resizes and starts the
// frame chain. It returns ErrSurfaceNotReady without allocating anything if
// the surface is nil or has zero size.
//
// A zero cfg.Speed mounts at DefaultSpeed; set cfg.Frozen to start frozen.
func Mount(surface Surface, backend Backend, driver FrameDriver, cfg SceneConfig) (*Session, error) {
	if surface == nil {
		return nil, ErrSurfaceNotReady
	}
	w, h := surface.Size()
	if w <= 0 || h <= 0 {
		return nil, ErrSurfaceNotReady
	}

	scene, name := cfg.Scene, cfg.AnimationType
	if scene == nil {
		scene, name = NewScene(cfg.AnimationType)
	}

	renderer, err := backend.NewRenderer(surface)
	if err != nil {
		return nil, fmt.Errorf("slidefx: create renderer: %w", err)
	}
	renderer.SetSize(w, h)

	s := &Session{
		ID:       uuid.NewString(),
		Root:     NewGroup("root"),
		name:     name,
		scene:    scene,
		color:    ColorOrDefault(cfg.Color),
		speed:    cfg.initialSpeed(),
		rng:      newRand(cfg.Seed),
		surface:  surface,
		renderer: renderer,
		driver:   driver,
		width:    w,
		height:   h,
		dolly:    introDistance,
	}

	st := scene.Stage()
	if st.FOV == 0 {
		st.FOV = defaultFOV
	}
	if st.Near == 0 {
		st.Near = defaultNear
	}
	if st.Far == 0 {
		st.Far = defaultFar
	}
	if st.Lights == nil {
		st.Lights = DefaultLights()
	}
	s.stage = st
	s.lights = st.Lights

	s.camera = NewCamera(st.FOV, float64(w)/float64(h), st.Near, st.Far)
	s.camera.SetViewport(w, h)
	s.camera.Position = st.Position
	s.camera.LookAt(st.Target)
	if st.Orbit != nil {
		oc := *st.Orbit
		if oc.Damping == 0 {
			oc.Damping = defaultOrbitDamping
		}
		s.orbit = NewOrbitControls(s.camera, oc)
	}
	s.intro = TweenValue(&s.dolly, introDistance, 1, introDuration, ease.OutCubic)

	scene.Build(s)

	s.removeResize = surface.OnResize(s.Resize)
	s.frame = driver.Start(s.onFrame)

	logger.Info("scene mounted", "session", s.ID, "scene", name, "width", w, "height", h, "speed", s.speed)
	return s, nil
}

// Name returns the selector the scene was mounted with.
func (s *Session) Name() string { return s.name }

// Color returns the session accent color.
func (s *Session) Color() Color { return s.color }

// Speed returns the session speed multiplier.
func (s *Session) Speed() float64 { return s.speed }

// SetSpeed changes the speed multiplier. It takes effect on the next frame.
func (s *Session) SetSpeed(v float64) { s.speed = sanitizeSpeed(v) }

// Rand returns the session random source.
func (s *Session) Rand() *rand.Rand { return s.rng }

// Camera returns the session camera.
func (s *Session) Camera() *Camera { return s.camera }

// Orbit returns the orbit controls, or nil when the scene has none.
func (s *Session) Orbit() *OrbitControls { return s.orbit }

// Size returns the viewport size in pixels.
func (s *Session) Size() (w, h int) { return s.width, s.height }

// Elapsed returns the wall time since mount in seconds.
func (s *Session) Elapsed() float64 { return s.elapsed }

// Scene returns the mounted scene.
func (s *Session) Scene() Scene { return s.scene }

// IsDisposed reports whether Dispose has run.
func (s *Session) IsDisposed() bool { return s.disposed }

// SetLights replaces the scene lights. Nil restores DefaultLights.
func (s *Session) SetLights(lights []Light) {
	if lights == nil {
		lights = DefaultLights()
	}
	s.lights = lights
}

// Lights returns the scene lights.
func (s *Session) Lights() []Light { return s.lights }

// SetEventSink sets the receiver for scene events. Nil disables events.
func (s *Session) SetEventSink(sink EventSink) { s.sink = sink }

// Emit stamps e with the session identity and forwards it to the event sink.
func (s *Session) Emit(e SceneEvent) {
	if s.sink == nil {
		return
	}
	e.SessionID = s.ID
	e.Scene = s.name
	s.sink.EmitEvent(e)
}

// Resize updates the viewport, camera aspect and renderer size. Simulation
// state is untouched. Zero sizes and calls after Dispose are ignored.
func (s *Session) Resize(w, h int) {
	if s.disposed || w <= 0 || h <= 0 {
		return
	}
	s.width, s.height = w, h
	s.camera.SetViewport(w, h)
	s.renderer.SetSize(w, h)
	logger.Debug("scene resized", "session", s.ID, "width", w, "height", h)
}

func (s *Session) onFrame(timeMs float64) {
	if s.disposed {
		return
	}
	dt := 0.0
	if s.started {
		dt = clamp((timeMs-s.lastMs)/1000, 0, maxFrameDt)
	}
	s.started = true
	s.lastMs = timeMs
	s.elapsed += dt

	s.scene.Update(s, Frame{TimeMs: timeMs, Dt: dt, Elapsed: s.elapsed, Speed: s.speed})
	if s.disposed {
		// Disposed from inside the scene.
		return
	}

	if s.orbit != nil {
		s.orbit.Update(dt)
	} else {
		s.camera.Position = s.stage.Position
		s.camera.LookAt(s.stage.Target)
	}
	if !s.intro.Done {
		s.intro.Update(float32(dt))
	}
	if s.dolly != 1 {
		off := r3.Sub(s.camera.Position, s.camera.Target)
		s.camera.Position = r3.Add(s.camera.Target, r3.Scale(s.dolly, off))
		s.camera.MarkDirty()
	}

	s.render()
}

// render emits, sorts and submits the frame's draw list.
func (s *Session) render() {
	stats := s.beginStats()

	s.list.Reset()
	s.list.Width, s.list.Height = s.width, s.height
	s.list.Background = s.stage.Background
	e := emitter{cam: s.camera, lights: s.lights, list: &s.list, resources: &s.resources}
	e.traverse(s.Root, identityAffine, 1)
	stats.markTraverse()

	s.list.sortCommands()
	stats.markSort()

	s.renderer.Draw(&s.list)
	stats.markSubmit()

	s.debugLog(stats)
}

// trackTree records the resources of every node under n, including hidden
// ones the renderer has not drawn yet.
func trackTree(set *resourceSet, n *Node) {
	if n.Geometry != nil {
		set.track(n.Geometry)
	}
	if n.Material != nil {
		set.track(n.Material)
	}
	for _, c := range n.children {
		trackTree(set, c)
	}
}

// Dispose tears the session down: it stops the frame chain, removes the
// resize listener, detaches the renderer from the surface, releases every
// geometry and material the session holds, then disposes the renderer.
// Calling it again is a no-op.
func (s *Session) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true

	s.driver.Stop(s.frame)
	s.frame = 0
	if s.removeResize != nil {
		s.removeResize()
		s.removeResize = nil
	}
	s.renderer.Detach()
	trackTree(&s.resources, s.Root)
	released := s.resources.len()
	s.resources.releaseAll(s.renderer.Release)
	s.renderer.Dispose()

	s.Root.Dispose()
	s.list = DrawList{}
	logger.Info("scene disposed", "session", s.ID, "scene", s.name, "released", released)
}
