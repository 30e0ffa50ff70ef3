package slidefx

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Camera is a perspective camera looking from Position toward Target.
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV  float64
	Near float64
	Far  float64
	// Aspect is width / height of the viewport.
	Aspect float64

	Position r3.Vec
	Target   r3.Vec
	Up       r3.Vec

	// Viewport is the output size in pixels.
	Width, Height float64

	right, up, forward r3.Vec
	focal              float64
	dirty              bool
}

// NewCamera creates a camera at the origin looking down -Z.
func NewCamera(fov, aspect, near, far float64) *Camera {
	return &Camera{
		FOV:     fov,
		Aspect:  aspect,
		Near:    near,
		Far:     far,
		Target:  r3.Vec{Z: -1},
		Up:      r3.Vec{Y: 1},
		forward: r3.Vec{Z: -1},
		right:   r3.Vec{X: 1},
		up:      r3.Vec{Y: 1},
		dirty:   true,
	}
}

// LookAt points the camera at t.
func (c *Camera) LookAt(t r3.Vec) {
	c.Target = t
	c.dirty = true
}

// SetViewport resizes the output and recomputes the aspect ratio.
// Non-positive sizes are ignored.
func (c *Camera) SetViewport(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.Width, c.Height = float64(w), float64(h)
	c.Aspect = c.Width / c.Height
	c.dirty = true
}

// MarkDirty forces the view basis and projection to be recomputed. Call it
// after writing Position, Target or FOV directly.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// UpdateProjection recomputes the cached basis and focal length if dirty.
func (c *Camera) UpdateProjection() {
	if !c.dirty {
		return
	}
	c.dirty = false

	// Keep the previous basis when Position and Target coincide.
	if f, ok := unitOrZero(r3.Sub(c.Target, c.Position)); ok {
		c.forward = f
	}
	up := c.Up
	if _, ok := unitOrZero(up); !ok {
		up = r3.Vec{Y: 1}
	}
	right, ok := unitOrZero(r3.Cross(c.forward, up))
	if !ok {
		// Looking straight along Up: pick any perpendicular.
		right, _ = unitOrZero(r3.Cross(c.forward, r3.Vec{Z: 1}))
		if r3.Norm(right) < epsilon {
			right = r3.Vec{X: 1}
		}
	}
	c.right = right
	c.up = r3.Cross(c.right, c.forward)

	fov := clamp(c.FOV, 1, 179) * math.Pi / 180
	c.focal = (c.Height / 2) / math.Tan(fov/2)
}

// Project maps a world point to screen pixels. depth is the distance along
// the view axis and scale converts world units at that depth to pixels.
// ok is false when the point lies outside the near/far range.
func (c *Camera) Project(p r3.Vec) (screen Vec2, depth, scale float64, ok bool) {
	c.UpdateProjection()
	d := r3.Sub(p, c.Position)
	z := r3.Dot(d, c.forward)
	if z < c.Near || z > c.Far {
		return Vec2{}, z, 0, false
	}
	scale = c.focal / z
	screen = Vec2{
		X: c.Width/2 + r3.Dot(d, c.right)*scale,
		Y: c.Height/2 - r3.Dot(d, c.up)*scale,
	}
	return screen, z, scale, true
}

// Forward returns the unit view direction.
func (c *Camera) Forward() r3.Vec {
	c.UpdateProjection()
	return c.forward
}

// --- Orbit controls ---

// OrbitConfig enables orbit-style camera controls for a scene.
type OrbitConfig struct {
	EnableRotate bool
	EnableZoom   bool
	// Damping is the fraction of pending motion applied per 60 Hz frame.
	// Zero applies motion immediately.
	Damping float64
}

// spherical is a position relative to the orbit target.
type spherical struct {
	Radius float64
	Theta  float64 // around Y, from +Z
	Phi    float64 // from +Y
}

const (
	defaultOrbitDamping = 0.05
	minPolar            = 1e-3
	minOrbitRadius      = 0.5
)

// OrbitControls rotates and zooms a camera around its target.
type OrbitControls struct {
	Config OrbitConfig

	camera *Camera
	target r3.Vec
	sph    spherical
	dTheta float64
	dPhi   float64
	zoom   float64
}

// NewOrbitControls attaches controls to cam, orbiting cam.Target.
func NewOrbitControls(cam *Camera, cfg OrbitConfig) *OrbitControls {
	o := &OrbitControls{Config: cfg, camera: cam, target: cam.Target, zoom: 1}
	o.sph = toSpherical(r3.Sub(cam.Position, cam.Target))
	return o
}

func toSpherical(v r3.Vec) spherical {
	r := r3.Norm(v)
	if r < epsilon {
		return spherical{Radius: minOrbitRadius, Phi: math.Pi / 2}
	}
	return spherical{
		Radius: r,
		Theta:  math.Atan2(v.X, v.Z),
		Phi:    math.Acos(clamp(v.Y/r, -1, 1)),
	}
}

func (s spherical) vec() r3.Vec {
	sinPhi := math.Sin(s.Phi)
	return r3.Vec{
		X: s.Radius * sinPhi * math.Sin(s.Theta),
		Y: s.Radius * math.Cos(s.Phi),
		Z: s.Radius * sinPhi * math.Cos(s.Theta),
	}
}

// Rotate queues an orbit by the given azimuth and polar deltas in radians.
// Ignored when rotation is disabled.
func (o *OrbitControls) Rotate(dTheta, dPhi float64) {
	if !o.Config.EnableRotate {
		return
	}
	o.dTheta += dTheta
	o.dPhi += dPhi
}

// Zoom queues a distance multiplier (<1 moves closer). Ignored when zoom is
// disabled or factor is not positive.
func (o *OrbitControls) Zoom(factor float64) {
	if !o.Config.EnableZoom || factor <= 0 || math.IsInf(factor, 0) {
		return
	}
	o.zoom *= factor
}

// Distance returns the current orbit radius.
func (o *OrbitControls) Distance() float64 {
	return o.sph.Radius
}

// Update applies pending motion and writes the camera pose.
func (o *OrbitControls) Update(dt float64) {
	k := 1.0
	if o.Config.Damping > 0 {
		k = clamp01(o.Config.Damping * dt * refFPS)
	}
	o.sph.Theta += o.dTheta * k
	o.sph.Phi = clamp(o.sph.Phi+o.dPhi*k, minPolar, math.Pi-minPolar)
	o.dTheta -= o.dTheta * k
	o.dPhi -= o.dPhi * k

	if o.zoom != 1 {
		step := math.Pow(o.zoom, k)
		o.sph.Radius = math.Max(minOrbitRadius, o.sph.Radius*step)
		o.zoom /= step
		if math.Abs(o.zoom-1) < 1e-6 {
			o.zoom = 1
		}
	}

	o.camera.Position = r3.Add(o.target, o.sph.vec())
	o.camera.LookAt(o.target)
}
