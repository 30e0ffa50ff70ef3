package slidefx

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Gradient descent bowl and spiral.
const (
	bowlCurvature  = 0.15
	bowlHalf       = 5.0
	bowlDivisions  = 16
	spiralPeriod   = 6.0 // seconds per descent at speed 1
	spiralRadius   = 4.5
	spiralTurns    = 5
	descentBall    = 0.3
	optimumRadius  = 0.6
	bestFitRadius  = 0.5
	descentAxisLen = 5.0
)

// BowlHeight is the cost surface y = 0.15 (x² + z²).
func BowlHeight(x, z float64) float64 {
	return bowlCurvature * (x*x + z*z)
}

// SpiralPoint returns the descent path position at cycle fraction t in
// [0, 1): the radius shrinks linearly from 4.5 to 0 over five turns while
// following the bowl surface.
func SpiralPoint(t float64) r3.Vec {
	t = t - math.Floor(t)
	r := spiralRadius * (1 - t)
	theta := t * 2 * spiralTurns * math.Pi
	x, z := r*math.Cos(theta), r*math.Sin(theta)
	return r3.Vec{X: x, Y: BowlHeight(x, z), Z: z}
}

// NearOptimum reports whether a path point is close enough to the minimum
// to count as converged.
func NearOptimum(p r3.Vec) bool {
	return math.Hypot(p.X, p.Z) < optimumRadius
}

// DescentScene rolls a ball down a spiral into the minimum of a cost bowl.
type DescentScene struct {
	// Cycle is the position in the current descent, in [0, 1).
	Cycle float64

	ball     *Node
	hotMat   *Material
	coolMat  *Material
	converge bool
}

// NewDescentScene creates the scene.
func NewDescentScene() *DescentScene {
	return &DescentScene{}
}

// Stage implements Scene.
func (sc *DescentScene) Stage() Stage {
	return Stage{
		FOV:        50,
		Far:        100,
		Position:   r3.Vec{X: 9, Y: 9, Z: 2},
		Background: ColorWhite,
		Orbit:      &OrbitConfig{EnableRotate: true, EnableZoom: true},
	}
}

// Build implements Scene.
func (sc *DescentScene) Build(s *Session) {
	s.Root.AddChild(NewGrid("grid", 10, 10, NewUnlitMaterial(MustColor("#eeeeee"))))
	s.Root.AddChild(NewAxes("axes", descentAxisLen))

	labels := [3]struct {
		text  string
		pos   r3.Vec
		color string
	}{
		{"Error", r3.Vec{Y: 5.5}, "#ff0000"},
		{"w", r3.Vec{X: 5.5}, "#4B286D"},
		{"b", r3.Vec{Z: 5.5}, "#66CC00"},
	}
	for _, l := range labels {
		n := NewLabel(l.text, l.text, 1, NewUnlitMaterial(MustColor(l.color)))
		n.Position = l.pos
		s.Root.AddChild(n)
	}

	bowlMat := NewUnlitMaterial(s.Color())
	bowlMat.Opacity = 0.3
	bowl := NewMeshNode("bowl", ShapeLines, NewLineGeometry(SurfacePositions(bowlHalf, bowlDivisions, BowlHeight), 1), bowlMat)
	s.Root.AddChild(bowl)

	bestMat := NewUnlitMaterial(MustColor("#00ff00"))
	bestMat.Opacity = 0.5
	best := NewMeshNode("best-fit", ShapeLines, NewLineGeometry(circlePositions(bestFitRadius, 32), 2), bestMat)
	best.Position.Y = 0.01
	s.Root.AddChild(best)

	sc.hotMat = NewUnlitMaterial(MustColor("#ff0000"))
	sc.coolMat = NewUnlitMaterial(MustColor("#00ff00"))
	sc.ball = NewSphere("ball", NewSphereGeometry(descentBall), sc.hotMat)
	s.Root.AddChild(sc.ball)
	sc.place()
}

// Update implements Scene.
func (sc *DescentScene) Update(s *Session, fr Frame) {
	sc.Cycle += fr.Dt * fr.Speed / spiralPeriod
	sc.Cycle -= math.Floor(sc.Cycle)
	sc.place()
}

// Converged reports whether the ball is currently at the optimum.
func (sc *DescentScene) Converged() bool { return sc.converge }

func (sc *DescentScene) place() {
	p := SpiralPoint(sc.Cycle)
	sc.ball.Position = r3.Vec{X: p.X, Y: p.Y + descentBall, Z: p.Z}
	sc.converge = NearOptimum(p)
	if sc.converge {
		sc.ball.Material = sc.coolMat
	} else {
		sc.ball.Material = sc.hotMat
	}
}

// circlePositions returns a circle of radius r on the XZ plane as segment
// pairs.
func circlePositions(r float64, segments int) []r3.Vec {
	pts := make([]r3.Vec, 0, 2*segments)
	for i := 0; i < segments; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(segments)
		a1 := 2 * math.Pi * float64(i+1) / float64(segments)
		pts = append(pts,
			r3.Vec{X: r * math.Cos(a0), Z: r * math.Sin(a0)},
			r3.Vec{X: r * math.Cos(a1), Z: r * math.Sin(a1)})
	}
	return pts
}
