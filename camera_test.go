package slidefx

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func newTestCamera() *Camera {
	cam := NewCamera(50, 1, 0.1, 100)
	cam.SetViewport(800, 600)
	cam.Position = r3.Vec{Z: 10}
	cam.LookAt(r3.Vec{})
	return cam
}

func TestCameraProjectTargetIsCenter(t *testing.T) {
	cam := newTestCamera()
	p, depth, scale, ok := cam.Project(r3.Vec{})
	if !ok {
		t.Fatal("target not visible")
	}
	if p.X != 400 || p.Y != 300 {
		t.Errorf("screen = %v, want (400, 300)", p)
	}
	if math.Abs(depth-10) > 1e-12 {
		t.Errorf("depth = %v, want 10", depth)
	}
	focal := 300 / math.Tan(25*math.Pi/180)
	if math.Abs(scale-focal/10) > 1e-9 {
		t.Errorf("scale = %v, want %v", scale, focal/10)
	}
}

func TestCameraProjectAxes(t *testing.T) {
	cam := newTestCamera()
	right, _, _, _ := cam.Project(r3.Vec{X: 1})
	if right.X <= 400 {
		t.Errorf("+X projected to x=%v, want right of center", right.X)
	}
	up, _, _, _ := cam.Project(r3.Vec{Y: 1})
	if up.Y >= 300 {
		t.Errorf("+Y projected to y=%v, want above center", up.Y)
	}
}

func TestCameraProjectClipsNearFar(t *testing.T) {
	cam := newTestCamera()
	if _, _, _, ok := cam.Project(r3.Vec{Z: 20}); ok {
		t.Error("point behind camera should not project")
	}
	if _, _, _, ok := cam.Project(r3.Vec{Z: 9.95}); ok {
		t.Error("point nearer than Near should not project")
	}
	if _, _, _, ok := cam.Project(r3.Vec{Z: -200}); ok {
		t.Error("point beyond Far should not project")
	}
}

func TestCameraSetViewportIgnoresEmpty(t *testing.T) {
	cam := newTestCamera()
	cam.SetViewport(0, 600)
	cam.SetViewport(800, -1)
	if cam.Width != 800 || cam.Height != 600 {
		t.Errorf("viewport = %vx%v, want 800x600", cam.Width, cam.Height)
	}
	cam.SetViewport(1000, 500)
	if cam.Aspect != 2 {
		t.Errorf("Aspect = %v, want 2", cam.Aspect)
	}
}

func TestCameraCoincidentTargetKeepsBasis(t *testing.T) {
	cam := newTestCamera()
	before := cam.Forward()
	cam.LookAt(cam.Position)
	if got := cam.Forward(); got != before {
		t.Errorf("Forward = %v, want %v", got, before)
	}
}

func TestOrbitZoom(t *testing.T) {
	cam := newTestCamera()
	o := NewOrbitControls(cam, OrbitConfig{EnableRotate: true, EnableZoom: true})
	if d := o.Distance(); math.Abs(d-10) > 1e-12 {
		t.Fatalf("Distance = %v, want 10", d)
	}
	o.Zoom(0.5)
	o.Update(1.0 / 60)
	if d := o.Distance(); math.Abs(d-5) > 1e-9 {
		t.Errorf("Distance = %v, want 5", d)
	}
	if n := r3.Norm(cam.Position); math.Abs(n-5) > 1e-9 {
		t.Errorf("camera distance = %v, want 5", n)
	}
}

func TestOrbitZoomClampsToMinimum(t *testing.T) {
	cam := newTestCamera()
	o := NewOrbitControls(cam, OrbitConfig{EnableZoom: true})
	o.Zoom(1e-6)
	o.Update(1.0 / 60)
	if d := o.Distance(); d != minOrbitRadius {
		t.Errorf("Distance = %v, want %v", d, minOrbitRadius)
	}
}

func TestOrbitDisabled(t *testing.T) {
	cam := newTestCamera()
	o := NewOrbitControls(cam, OrbitConfig{})
	o.Zoom(0.5)
	o.Rotate(1, 1)
	o.Update(1.0 / 60)
	if !vecNear(cam.Position, r3.Vec{Z: 10}, 1e-9) {
		t.Errorf("Position = %v, want unchanged", cam.Position)
	}
}

func TestOrbitZoomRejectsInvalidFactor(t *testing.T) {
	cam := newTestCamera()
	o := NewOrbitControls(cam, OrbitConfig{EnableZoom: true})
	o.Zoom(0)
	o.Zoom(-2)
	o.Zoom(math.Inf(1))
	o.Update(1.0 / 60)
	if d := o.Distance(); math.Abs(d-10) > 1e-12 {
		t.Errorf("Distance = %v, want 10", d)
	}
}

func TestOrbitRotate(t *testing.T) {
	cam := newTestCamera()
	o := NewOrbitControls(cam, OrbitConfig{EnableRotate: true})
	o.Rotate(math.Pi/2, 0)
	o.Update(1.0 / 60)
	if !vecNear(cam.Position, r3.Vec{X: 10}, 1e-9) {
		t.Errorf("Position = %v, want (10, 0, 0)", cam.Position)
	}
	if cam.Target != (r3.Vec{}) {
		t.Errorf("Target = %v, want origin", cam.Target)
	}
}

func TestOrbitPolarClamped(t *testing.T) {
	cam := newTestCamera()
	o := NewOrbitControls(cam, OrbitConfig{EnableRotate: true})
	o.Rotate(0, -10)
	o.Update(1.0 / 60)
	if cam.Position.Y >= 10 || cam.Position.Y <= 9.99 {
		t.Errorf("Position.Y = %v, want just below the pole", cam.Position.Y)
	}
}

func TestOrbitDamping(t *testing.T) {
	cam := newTestCamera()
	o := NewOrbitControls(cam, OrbitConfig{EnableRotate: true, Damping: 0.05})
	o.Rotate(1, 0)
	o.Update(1.0 / 60)
	first := math.Atan2(cam.Position.X, cam.Position.Z)
	if math.Abs(first-0.05) > 1e-9 {
		t.Errorf("first step = %v, want 0.05", first)
	}
	for range 600 {
		o.Update(1.0 / 60)
	}
	final := math.Atan2(cam.Position.X, cam.Position.Z)
	if math.Abs(final-1) > 1e-6 {
		t.Errorf("settled angle = %v, want 1", final)
	}
}

// --- Lighting ---

func TestShadeUnlit(t *testing.T) {
	mat := NewUnlitMaterial(Color{0.2, 0.4, 0.6, 1})
	got := shade(DefaultLights(), mat, r3.Vec{}, r3.Vec{Y: 1})
	if got != mat.Color {
		t.Errorf("shade = %v, want %v", got, mat.Color)
	}
}

func TestShadeAmbientOnly(t *testing.T) {
	mat := NewMaterial(Color{1, 0.5, 0, 1})
	got := shade([]Light{AmbientLight(ColorWhite, 0.5)}, mat, r3.Vec{}, r3.Vec{Y: 1})
	want := Color{0.5, 0.25, 0, 1}
	if got != want {
		t.Errorf("shade = %v, want %v", got, want)
	}
}

func TestShadeDirectional(t *testing.T) {
	mat := NewMaterial(ColorWhite)
	lights := []Light{DirectionalLight(ColorWhite, 1, r3.Vec{Y: 5})}

	facing := shade(lights, mat, r3.Vec{}, r3.Vec{Y: 1})
	if facing.R != 1 {
		t.Errorf("facing = %v, want full", facing.R)
	}
	away := shade(lights, mat, r3.Vec{}, r3.Vec{Y: -1})
	if away.R != 0 {
		t.Errorf("away = %v, want 0", away.R)
	}
	disc := shade(lights, mat, r3.Vec{}, r3.Vec{})
	if disc.R != 0.5 {
		t.Errorf("zero normal = %v, want 0.5", disc.R)
	}
}

func TestShadePointLight(t *testing.T) {
	mat := NewMaterial(ColorWhite)
	lights := []Light{PointLight(ColorWhite, 1, r3.Vec{X: 10})}
	lit := shade(lights, mat, r3.Vec{X: 5}, r3.Vec{X: 1})
	if lit.R != 1 {
		t.Errorf("toward light = %v, want 1", lit.R)
	}
	// Same normal, but the surface is past the light.
	past := shade(lights, mat, r3.Vec{X: 20}, r3.Vec{X: 1})
	if past.R != 0 {
		t.Errorf("past light = %v, want 0", past.R)
	}
}

func TestShadeEmissiveAndClamp(t *testing.T) {
	mat := NewMaterial(Color{0.5, 0.5, 0.5, 0.7})
	mat.Emissive = 0.4
	got := shade(nil, mat, r3.Vec{}, r3.Vec{Y: 1})
	if math.Abs(got.R-0.2) > 1e-12 {
		t.Errorf("emissive only = %v, want 0.2", got.R)
	}
	if got.A != 0.7 {
		t.Errorf("alpha = %v, want 0.7", got.A)
	}

	bright := shade([]Light{AmbientLight(ColorWhite, 10)}, mat, r3.Vec{}, r3.Vec{})
	if bright.R != 1 {
		t.Errorf("overexposed = %v, want clamped to 1", bright.R)
	}
}

// --- Colors ---

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#ffffff", Color{1, 1, 1, 1}, true},
		{"#000", Color{0, 0, 0, 1}, true},
		{" #ff0000 ", Color{1, 0, 0, 1}, true},
		{"#00ff0000", Color{0, 1, 0, 0}, true},
		{"red", Color{}, false},
		{"#12345", Color{}, false},
		{"", Color{}, false},
		{"#zzzzzz", Color{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseColor(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestColorOrDefault(t *testing.T) {
	got := ColorOrDefault("not a color")
	want := MustColor(DefaultColor)
	if got != want {
		t.Errorf("ColorOrDefault = %v, want %v", got, want)
	}
}

func TestMustColorPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	MustColor("bogus")
}

func TestColorBlendEndpoints(t *testing.T) {
	a := Color{1, 0, 0, 1}
	b := Color{0, 0, 1, 0}
	if got := a.Blend(b, 0); !colorNear(got, a) {
		t.Errorf("Blend(0) = %v, want %v", got, a)
	}
	if got := a.Blend(b, 1); !colorNear(got, b) {
		t.Errorf("Blend(1) = %v, want %v", got, b)
	}
	if got := a.Blend(b, 0.5); math.Abs(got.A-0.5) > 1e-12 {
		t.Errorf("Blend(0.5).A = %v, want 0.5", got.A)
	}
}

func colorNear(a, b Color) bool {
	const tol = 1e-6
	return math.Abs(a.R-b.R) <= tol && math.Abs(a.G-b.G) <= tol &&
		math.Abs(a.B-b.B) <= tol && math.Abs(a.A-b.A) <= tol
}
