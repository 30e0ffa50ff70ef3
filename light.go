package slidefx

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// LightKind selects how a Light contributes to shading.
type LightKind uint8

const (
	LightAmbient     LightKind = iota // uniform, direction-independent
	LightDirectional                  // parallel rays from Position toward the origin
	LightPoint                        // rays from Position, no falloff
)

// Light is a scene light. Lighting is Lambertian only.
type Light struct {
	Kind      LightKind
	Color     Color
	Intensity float64
	Position  r3.Vec
}

// AmbientLight returns an ambient light.
func AmbientLight(c Color, intensity float64) Light {
	return Light{Kind: LightAmbient, Color: c, Intensity: intensity}
}

// DirectionalLight returns a light shining from pos toward the origin.
func DirectionalLight(c Color, intensity float64, pos r3.Vec) Light {
	return Light{Kind: LightDirectional, Color: c, Intensity: intensity, Position: pos}
}

// PointLight returns a light radiating from pos.
func PointLight(c Color, intensity float64, pos r3.Vec) Light {
	return Light{Kind: LightPoint, Color: c, Intensity: intensity, Position: pos}
}

// DefaultLights is the rig every scene gets unless its Stage overrides it.
func DefaultLights() []Light {
	return []Light{
		AmbientLight(ColorWhite, 0.5),
		DirectionalLight(ColorWhite, 1, r3.Vec{X: 10, Y: 10, Z: 5}),
	}
}

// shade returns the lit color of a surface point p with normal n.
// A zero normal receives only ambient and half of each direct light, which is
// how spheres drawn as discs are lit.
func shade(lights []Light, mat *Material, p, n r3.Vec) Color {
	base := mat.Color
	if mat.Unlit {
		return base
	}
	var r, g, b float64
	unit, hasNormal := unitOrZero(n)
	for i := range lights {
		l := &lights[i]
		var k float64
		switch l.Kind {
		case LightAmbient:
			k = l.Intensity
		case LightDirectional, LightPoint:
			dir := l.Position
			if l.Kind == LightPoint {
				dir = r3.Sub(l.Position, p)
			}
			d, ok := unitOrZero(dir)
			if !ok {
				continue
			}
			if hasNormal {
				k = l.Intensity * math.Max(0, r3.Dot(unit, d))
			} else {
				k = l.Intensity * 0.5
			}
		default:
			panic("slidefx: unknown light kind")
		}
		r += l.Color.R * k
		g += l.Color.G * k
		b += l.Color.B * k
	}
	e := mat.Emissive
	return Color{
		R: clamp01(base.R * (r + e)),
		G: clamp01(base.G * (g + e)),
		B: clamp01(base.B * (b + e)),
		A: base.A,
	}
}
