package slidefx

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// cubicPoly is a cubic c0 + c1 t + c2 t² + c3 t³ in one coordinate.
type cubicPoly struct {
	c0, c1, c2, c3 float64
}

// hermite sets the cubic that runs from x0 to x1 with tangents t0 and t1.
func (p *cubicPoly) hermite(x0, x1, t0, t1 float64) {
	p.c0 = x0
	p.c1 = t0
	p.c2 = -3*x0 + 3*x1 - 2*t0 - t1
	p.c3 = 2*x0 - 2*x1 + t0 + t1
}

// catmullRom sets the segment between x1 and x2 of a uniform Catmull-Rom
// spline with the given tension.
func (p *cubicPoly) catmullRom(x0, x1, x2, x3, tension float64) {
	p.hermite(x1, x2, tension*(x2-x0), tension*(x3-x1))
}

func (p *cubicPoly) at(t float64) float64 {
	return p.c0 + t*(p.c1+t*(p.c2+t*p.c3))
}

// CatmullRomPoint evaluates an open uniform Catmull-Rom spline through pts at
// t in [0, 1]. The end segments extrapolate a phantom control point by
// mirroring the neighbor. It needs at least two points.
func CatmullRomPoint(pts []r3.Vec, tension, t float64) r3.Vec {
	l := len(pts)
	switch l {
	case 0:
		return r3.Vec{}
	case 1:
		return pts[0]
	}
	p := float64(l-1) * clamp01(t)
	i := int(math.Floor(p))
	w := p - float64(i)
	if i >= l-1 {
		i, w = l-2, 1
	}

	p1, p2 := pts[i], pts[i+1]
	var p0, p3 r3.Vec
	if i > 0 {
		p0 = pts[i-1]
	} else {
		p0 = r3.Sub(r3.Scale(2, pts[0]), pts[1])
	}
	if i+2 < l {
		p3 = pts[i+2]
	} else {
		p3 = r3.Sub(r3.Scale(2, pts[l-1]), pts[l-2])
	}

	var px, py, pz cubicPoly
	px.catmullRom(p0.X, p1.X, p2.X, p3.X, tension)
	py.catmullRom(p0.Y, p1.Y, p2.Y, p3.Y, tension)
	pz.catmullRom(p0.Z, p1.Z, p2.Z, p3.Z, tension)
	return r3.Vec{X: px.at(w), Y: py.at(w), Z: pz.at(w)}
}

// CatmullRomSegments samples the spline at segments+1 evenly spaced
// parameters and returns consecutive samples as segment pairs.
func CatmullRomSegments(pts []r3.Vec, tension float64, segments int) []r3.Vec {
	if segments < 1 || len(pts) < 2 {
		return nil
	}
	out := make([]r3.Vec, 0, 2*segments)
	prev := CatmullRomPoint(pts, tension, 0)
	for s := 1; s <= segments; s++ {
		cur := CatmullRomPoint(pts, tension, float64(s)/float64(segments))
		out = append(out, prev, cur)
		prev = cur
	}
	return out
}
