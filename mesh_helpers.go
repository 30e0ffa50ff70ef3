package slidefx

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// --- Grid ---

// GridPositions returns the segment pairs of a size×size grid on the XZ
// plane, centered on the origin, with the given number of divisions.
func GridPositions(size float64, divisions int) []r3.Vec {
	if divisions < 1 {
		divisions = 1
	}
	half := size / 2
	step := size / float64(divisions)
	pts := make([]r3.Vec, 0, 4*(divisions+1))
	for i := 0; i <= divisions; i++ {
		k := -half + float64(i)*step
		pts = append(pts,
			r3.Vec{X: -half, Z: k}, r3.Vec{X: half, Z: k},
			r3.Vec{X: k, Z: -half}, r3.Vec{X: k, Z: half},
		)
	}
	return pts
}

// NewGrid creates a line node drawing a grid on the XZ plane.
func NewGrid(name string, size float64, divisions int, mat *Material) *Node {
	return NewMeshNode(name, ShapeLines, NewLineGeometry(GridPositions(size, divisions), 1), mat)
}

// --- Axes ---

// NewAxes creates a group holding three unlit axis lines of length size:
// X red, Y green, Z blue.
func NewAxes(name string, size float64) *Node {
	g := NewGroup(name)
	axes := [3]struct {
		dir   r3.Vec
		color string
	}{
		{r3.Vec{X: size}, "#ff0000"},
		{r3.Vec{Y: size}, "#00ff00"},
		{r3.Vec{Z: size}, "#0000ff"},
	}
	for _, a := range axes {
		geom := NewLineGeometry([]r3.Vec{{}, a.dir}, 2)
		g.AddChild(NewMeshNode(name+"-axis", ShapeLines, geom, NewUnlitMaterial(MustColor(a.color))))
	}
	return g
}

// --- Wireframes ---

// WireSpherePositions returns latitude and longitude rings of a sphere as
// segment pairs. segments is the number of segments per ring.
func WireSpherePositions(radius float64, rings, segments int) []r3.Vec {
	var pts []r3.Vec
	ring := func(f func(a float64) r3.Vec) {
		for s := 0; s < segments; s++ {
			a0 := 2 * math.Pi * float64(s) / float64(segments)
			a1 := 2 * math.Pi * float64(s+1) / float64(segments)
			pts = append(pts, f(a0), f(a1))
		}
	}
	for r := 1; r < rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		y, rr := radius*math.Cos(phi), radius*math.Sin(phi)
		ring(func(a float64) r3.Vec { return r3.Vec{X: rr * math.Cos(a), Y: y, Z: rr * math.Sin(a)} })
	}
	for m := 0; m < rings; m++ {
		theta := math.Pi * float64(m) / float64(rings)
		st, ct := math.Sincos(theta)
		ring(func(a float64) r3.Vec {
			sa, ca := math.Sincos(a)
			return r3.Vec{X: radius * sa * ct, Y: radius * ca, Z: radius * sa * st}
		})
	}
	return pts
}

// TorusPositions returns the tube and ring circles of a torus lying in the
// XY plane as segment pairs.
func TorusPositions(radius, tube float64, radial, tubular int) []r3.Vec {
	var pts []r3.Vec
	at := func(u, v float64) r3.Vec {
		su, cu := math.Sincos(u)
		sv, cv := math.Sincos(v)
		return r3.Vec{X: (radius + tube*cv) * cu, Y: (radius + tube*cv) * su, Z: tube * sv}
	}
	for i := 0; i < tubular; i++ {
		u := 2 * math.Pi * float64(i) / float64(tubular)
		for j := 0; j < radial; j++ {
			v0 := 2 * math.Pi * float64(j) / float64(radial)
			v1 := 2 * math.Pi * float64(j+1) / float64(radial)
			pts = append(pts, at(u, v0), at(u, v1))
		}
	}
	for j := 0; j < radial; j++ {
		v := 2 * math.Pi * float64(j) / float64(radial)
		for i := 0; i < tubular; i++ {
			u0 := 2 * math.Pi * float64(i) / float64(tubular)
			u1 := 2 * math.Pi * float64(i+1) / float64(tubular)
			pts = append(pts, at(u0, v), at(u1, v))
		}
	}
	return pts
}

// SurfacePositions samples y = f(x, z) over [-half, half]² on a
// divisions×divisions lattice and returns the lattice edges as segment pairs.
func SurfacePositions(half float64, divisions int, f func(x, z float64) float64) []r3.Vec {
	if divisions < 1 {
		divisions = 1
	}
	step := 2 * half / float64(divisions)
	at := func(i, j int) r3.Vec {
		x := -half + float64(i)*step
		z := -half + float64(j)*step
		return r3.Vec{X: x, Y: f(x, z), Z: z}
	}
	pts := make([]r3.Vec, 0, 4*divisions*(divisions+1))
	for i := 0; i <= divisions; i++ {
		for j := 0; j < divisions; j++ {
			pts = append(pts, at(i, j), at(i, j+1), at(j, i), at(j+1, i))
		}
	}
	return pts
}

// sinWave returns sin(t * freq).
func sinWave(t, freq float64) float64 {
	return math.Sin(t * freq)
}
