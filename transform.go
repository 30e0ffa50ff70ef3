package slidefx

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// affine3 is a 3D affine matrix stored row-major without the constant row:
//
//	| m0 m1 m2  m3 |
//	| m4 m5 m6  m7 |
//	| m8 m9 m10 m11|
type affine3 [12]float64

// identityAffine is the identity transform.
var identityAffine = affine3{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0}

// computeLocalTransform builds Translate(Position) * R * Scale, where
// R = Rx * Ry * Rz (Euler XYZ).
func computeLocalTransform(n *Node) affine3 {
	sx, cx := math.Sincos(n.Rotation.X)
	sy, cy := math.Sincos(n.Rotation.Y)
	sz, cz := math.Sincos(n.Rotation.Z)

	// Rx * Ry * Rz
	r00 := cy * cz
	r01 := -cy * sz
	r02 := sy
	r10 := cx*sz + sx*sy*cz
	r11 := cx*cz - sx*sy*sz
	r12 := -sx * cy
	r20 := sx*sz - cx*sy*cz
	r21 := sx*cz + cx*sy*sz
	r22 := cx * cy

	s := n.Scale
	p := n.Position
	return affine3{
		r00 * s.X, r01 * s.Y, r02 * s.Z, p.X,
		r10 * s.X, r11 * s.Y, r12 * s.Z, p.Y,
		r20 * s.X, r21 * s.Y, r22 * s.Z, p.Z,
	}
}

// multiplyAffine3 returns p * c.
func multiplyAffine3(p, c affine3) affine3 {
	var m affine3
	for row := 0; row < 3; row++ {
		a0, a1, a2, a3 := p[row*4], p[row*4+1], p[row*4+2], p[row*4+3]
		m[row*4] = a0*c[0] + a1*c[4] + a2*c[8]
		m[row*4+1] = a0*c[1] + a1*c[5] + a2*c[9]
		m[row*4+2] = a0*c[2] + a1*c[6] + a2*c[10]
		m[row*4+3] = a0*c[3] + a1*c[7] + a2*c[11] + a3
	}
	return m
}

// apply transforms a point.
func (m *affine3) apply(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3],
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7],
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11],
	}
}

// applyDir transforms a direction (no translation).
func (m *affine3) applyDir(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z,
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z,
	}
}

func (m *affine3) origin() r3.Vec {
	return r3.Vec{X: m[3], Y: m[7], Z: m[11]}
}

// maxScale returns the largest column length, used to size spheres and
// capsule radii under non-uniform scale.
func (m *affine3) maxScale() float64 {
	c0 := m[0]*m[0] + m[4]*m[4] + m[8]*m[8]
	c1 := m[1]*m[1] + m[5]*m[5] + m[9]*m[9]
	c2 := m[2]*m[2] + m[6]*m[6] + m[10]*m[10]
	return math.Sqrt(math.Max(c0, math.Max(c1, c2)))
}

// axisScale returns the length of local axis i (0 = X, 1 = Y, 2 = Z) after
// transformation.
func (m *affine3) axisScale(i int) float64 {
	return math.Sqrt(m[i]*m[i] + m[4+i]*m[4+i] + m[8+i]*m[8+i])
}

// rotateZ rotates v about the Z axis by angle radians.
func rotateZ(v r3.Vec, angle float64) r3.Vec {
	s, c := math.Sincos(angle)
	return r3.Vec{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c, Z: v.Z}
}
