package slidefx

import "gonum.org/v1/gonum/spatial/r3"

// Segment is a line segment between two world points.
type Segment struct {
	A, B r3.Vec
}

// LinkWithin writes a segment into dst for every pair of points closer than
// threshold and returns how many it wrote. Pairs are visited in (i, j), i < j
// order and emission stops once dst is full, so the result is deterministic
// for a given point order but is not the closest pairs.
func LinkWithin(points []r3.Vec, threshold float64, dst []Segment) int {
	limit := threshold * threshold
	n := 0
	for i := 0; i < len(points); i++ {
		for j := i + 1; j < len(points); j++ {
			if n == len(dst) {
				return n
			}
			d := r3.Sub(points[i], points[j])
			if r3.Dot(d, d) < limit {
				dst[n] = Segment{A: points[i], B: points[j]}
				n++
			}
		}
	}
	return n
}

// segmentsToPositions flattens segs into endpoint pairs in dst and returns
// the number of positions written.
func segmentsToPositions(segs []Segment, dst []r3.Vec) int {
	n := 0
	for _, s := range segs {
		if n+2 > len(dst) {
			break
		}
		dst[n] = s.A
		dst[n+1] = s.B
		n += 2
	}
	return n
}
