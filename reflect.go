package slidefx

import "gonum.org/v1/gonum/spatial/r3"

// Reflect mirrors v about the plane with normal n and scales the result by
// restitution. It only reflects when v moves into the surface (v·n < 0);
// otherwise, or when n has zero length, it returns v unchanged and false.
// n need not be normalized.
func Reflect(v, n r3.Vec, restitution float64) (r3.Vec, bool) {
	u, ok := unitOrZero(n)
	if !ok {
		return v, false
	}
	d := r3.Dot(v, u)
	if d >= 0 {
		return v, false
	}
	return r3.Scale(restitution, r3.Sub(v, r3.Scale(2*d, u))), true
}
