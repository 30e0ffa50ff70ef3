package slidefx

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Spin rates of the showcase scenes in rad/s at speed 1.
const (
	spinRateX = 0.005 * refFPS
	spinRateY = 0.01 * refFPS
)

// RotatingScene spins a single showcase object built by Create.
type RotatingScene struct {
	// Rate multiplies the session speed.
	Rate float64
	// Create builds the object in the accent color.
	Create func(s *Session, accent Color) *Node

	mesh *Node
}

// Stage implements Scene.
func (sc *RotatingScene) Stage() Stage {
	return Stage{
		FOV:      75,
		Position: r3.Vec{Z: 5},
	}
}

// Build implements Scene.
func (sc *RotatingScene) Build(s *Session) {
	s.SetLights([]Light{
		AmbientLight(MustColor("#404040"), 2),
		PointLight(ColorWhite, 2, r3.Vec{X: 10, Y: 10, Z: 10}),
		PointLight(s.Color(), 2, r3.Vec{X: -5, Y: -5, Z: 5}),
	})
	sc.mesh = sc.Create(s, s.Color())
	s.Root.AddChild(sc.mesh)
}

// Update implements Scene.
func (sc *RotatingScene) Update(s *Session, fr Frame) {
	k := fr.Dt * fr.Speed * sc.Rate
	sc.mesh.Rotation.X += spinRateX * k
	sc.mesh.Rotation.Y += spinRateY * k
}

// Mesh returns the spinning object.
func (sc *RotatingScene) Mesh() *Node { return sc.mesh }

// NewCubeScene spins a translucent cube.
func NewCubeScene() *RotatingScene {
	return &RotatingScene{Rate: 1, Create: func(_ *Session, c Color) *Node {
		m := NewMaterial(c)
		m.Opacity = 0.9
		return NewBox("cube", NewBoxGeometry(2.5, 2.5, 2.5), m)
	}}
}

// NewSphereScene spins a wireframe sphere.
func NewSphereScene() *RotatingScene {
	return &RotatingScene{Rate: 1, Create: func(_ *Session, c Color) *Node {
		m := NewUnlitMaterial(c)
		m.Opacity = 0.6
		return NewMeshNode("sphere", ShapeLines, NewLineGeometry(WireSpherePositions(2, 16, 32), 1), m)
	}}
}

// NewTorusScene spins a wireframe torus.
func NewTorusScene() *RotatingScene {
	return &RotatingScene{Rate: 1, Create: func(_ *Session, c Color) *Node {
		m := NewUnlitMaterial(c)
		m.Opacity = 0.8
		return NewMeshNode("torus", ShapeLines, NewLineGeometry(TorusPositions(1.5, 0.5, 12, 32), 1), m)
	}}
}

// NewGridScene spins a tilted grid.
func NewGridScene() *RotatingScene {
	return &RotatingScene{Rate: 1, Create: func(_ *Session, c Color) *Node {
		g := NewGrid("grid", 10, 20, NewUnlitMaterial(c))
		g.Rotation.X = math.Pi / 4
		return g
	}}
}

// NewParticlesScene spins a cloud of 1000 points in a 10-unit cube.
func NewParticlesScene() *RotatingScene {
	return &RotatingScene{Rate: 1, Create: func(s *Session, c Color) *Node {
		rng := s.Rand()
		pts := make([]r3.Vec, 1000)
		for i := range pts {
			pts[i] = r3.Vec{X: (rng.Float64() - 0.5) * 10, Y: (rng.Float64() - 0.5) * 10, Z: (rng.Float64() - 0.5) * 10}
		}
		return NewMeshNode("particles", ShapePoints, NewPointsGeometry(pts, 0.05), NewUnlitMaterial(c))
	}}
}

// Neural network layout.
const (
	networkNodes     = 40
	networkExtent    = 10.0
	networkThreshold = 3.5
	networkRate      = 0.1
)

// NewNeuralNetworkScene slowly spins a random network of 40 nodes linked to
// every neighbor within 3.5 units.
func NewNeuralNetworkScene() *RotatingScene {
	return &RotatingScene{Rate: networkRate, Create: func(s *Session, c Color) *Node {
		rng := s.Rand()
		g := NewGroup("network")
		geom := NewSphereGeometry(0.1)
		mat := NewUnlitMaterial(c)
		pts := make([]r3.Vec, networkNodes)
		for i := range pts {
			pts[i] = r3.Vec{
				X: (rng.Float64() - 0.5) * networkExtent,
				Y: (rng.Float64() - 0.5) * networkExtent,
				Z: (rng.Float64() - 0.5) * networkExtent,
			}
			n := NewSphere("neuron", geom, mat)
			n.Position = pts[i]
			g.AddChild(n)
		}
		segs := make([]Segment, networkNodes*(networkNodes-1)/2)
		count := LinkWithin(pts, networkThreshold, segs)
		positions := make([]r3.Vec, 2*count)
		segmentsToPositions(segs[:count], positions)

		lineMat := NewUnlitMaterial(c)
		lineMat.Opacity = 0.2
		g.AddChild(NewMeshNode("links", ShapeLines, NewLineGeometry(positions, 1), lineMat))
		return g
	}}
}
