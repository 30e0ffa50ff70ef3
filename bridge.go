package slidefx

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// Kind is the closed set of particle kinds on the bridge.
type Kind uint8

const (
	KindByte   Kind = iota // a binary digit crossing the first half
	KindNeuron             // a node rising from the second half
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindByte:
		return "byte"
	case KindNeuron:
		return "neuron"
	default:
		return "unknown"
	}
}

// Particle is a mobile entity on the bridge. Speed is its base advance in
// world units per 60 Hz frame. Glyph is '0' or '1' for bytes and 0 for
// neurons.
type Particle struct {
	Pos   r3.Vec
	Speed float64
	Kind  Kind
	Glyph byte
}

// Bridge layout and motion, in world units per 60 Hz frame where noted.
const (
	bridgeParticles  = 100
	bridgeOriginX    = -10.0
	bridgeOriginSpan = 5.0
	bridgeLaneY      = 1.5
	bridgeLaneWidth  = 3.0
	bridgeTransmuteX = 0.0
	bridgeMaxX       = 12.0
	bridgeMaxY       = 8.0

	byteSpeedMin = 0.05
	byteSpeedMax = 0.1

	neuronRise    = 0.02
	neuronDrift   = 0.05
	neuronAdvance = 0.01

	linkThreshold = 3.0
	maxLinks      = 100
)

// ParticleEvent records a kind change or recycle during a step.
type ParticleEvent struct {
	Type  EventType
	Index int
}

// BridgeSim is the particle and transmutation simulation, independent of
// any presentation.
type BridgeSim struct {
	Particles []Particle
	// Links holds the proximity segments of the last step; LinkCount of them
	// are valid.
	Links     []Segment
	LinkCount int
	// Events lists the transmutations and recycles of the last step.
	Events []ParticleEvent

	rng     *rand.Rand
	neurons []r3.Vec
}

// NewBridgeSim creates n byte particles scattered over the start of the path.
func NewBridgeSim(rng *rand.Rand, n int) *BridgeSim {
	b := &BridgeSim{
		Particles: make([]Particle, n),
		Links:     make([]Segment, maxLinks),
		rng:       rng,
		neurons:   make([]r3.Vec, 0, n),
	}
	for i := range b.Particles {
		p := &b.Particles[i]
		p.Pos = r3.Vec{
			X: bridgeOriginX + rng.Float64()*bridgeOriginSpan,
			Y: bridgeLaneY,
			Z: b.laneJitter(),
		}
		p.Speed = Range{byteSpeedMin, byteSpeedMax}.Random(rng)
		p.Kind = KindByte
		p.Glyph = b.randomGlyph()
	}
	return b
}

func (b *BridgeSim) laneJitter() float64 {
	return (b.rng.Float64() - 0.5) * bridgeLaneWidth
}

func (b *BridgeSim) randomGlyph() byte {
	if b.rng.Float64() > 0.5 {
		return '0'
	}
	return '1'
}

// Step advances every particle by dt seconds at the given speed, applies
// transmutation and recycling, and rebuilds the proximity links.
func (b *BridgeSim) Step(dt, speed float64) {
	b.Events = b.Events[:0]
	f := dt * refFPS * speed
	if !(f > 0) {
		b.relink()
		return
	}

	for i := range b.Particles {
		p := &b.Particles[i]
		p.Pos.X += p.Speed * f

		if p.Kind == KindByte && p.Pos.X > bridgeTransmuteX {
			p.Kind = KindNeuron
			p.Glyph = 0
			b.Events = append(b.Events, ParticleEvent{Type: EventTransmute, Index: i})
		}

		switch p.Kind {
		case KindByte:
		case KindNeuron:
			p.Pos.Y += neuronRise * f
			p.Pos.Z += (b.rng.Float64() - 0.5) * neuronDrift * f
			p.Pos.X += neuronAdvance * f
		default:
			panic("slidefx: unknown particle kind")
		}

		if p.Pos.X > bridgeMaxX || p.Pos.Y > bridgeMaxY {
			p.Pos = r3.Vec{X: bridgeOriginX, Y: bridgeLaneY, Z: b.laneJitter()}
			p.Kind = KindByte
			p.Glyph = b.randomGlyph()
			b.Events = append(b.Events, ParticleEvent{Type: EventRecycle, Index: i})
		}
	}
	b.relink()
}

func (b *BridgeSim) relink() {
	b.neurons = b.neurons[:0]
	for i := range b.Particles {
		if b.Particles[i].Kind == KindNeuron {
			b.neurons = append(b.neurons, b.Particles[i].Pos)
		}
	}
	b.LinkCount = LinkWithin(b.neurons, linkThreshold, b.Links)
}

// --- Scene ---

// Bridge presentation constants.
const (
	bridgeSpin      = 0.002 * refFPS // rad/s at speed 1
	bridgeFloatAmp  = 0.1
	byteGlyphHeight = 0.8
	neuronRadius    = 0.3
)

// BridgeScene shows bytes crossing a bridge and turning into linked neurons.
type BridgeScene struct {
	Sim *BridgeSim

	world *Node
	deck  *Node
	links *Node

	glyphGeom  [2]*Geometry
	byteMat    *Material
	neuronGeom *Geometry
	neuronMat  *Material
	views      []particleView
	positions  []r3.Vec
}

type particleView struct {
	node  *Node
	kind  Kind
	glyph byte
}

// NewBridgeScene creates an empty bridge scene. The simulation is created on
// Build from the session random source.
func NewBridgeScene() *BridgeScene {
	return &BridgeScene{}
}

// Stage implements Scene.
func (sc *BridgeScene) Stage() Stage {
	return Stage{
		FOV:      75,
		Position: r3.Vec{Y: 5, Z: 10},
		Lights: []Light{
			AmbientLight(MustColor("#404040"), 2),
			PointLight(ColorWhite, 2, r3.Vec{X: 10, Y: 10, Z: 10}),
		},
	}
}

// Build implements Scene.
func (sc *BridgeScene) Build(s *Session) {
	sc.Sim = NewBridgeSim(s.Rand(), bridgeParticles)

	sc.world = NewGroup("world")
	s.Root.AddChild(sc.world)

	deckMat := NewMaterial(ColorWhite)
	deckMat.Opacity = 0.5
	sc.deck = NewBox("bridge", NewBoxGeometry(20, 1, 4), deckMat)
	sc.world.AddChild(sc.deck)

	grid := NewGrid("grid", 50, 50, NewUnlitMaterial(MustColor("#fefefe")))
	grid.Position.Y = -2
	sc.world.AddChild(grid)

	sc.glyphGeom[0] = NewLabelGeometry("0", byteGlyphHeight)
	sc.glyphGeom[1] = NewLabelGeometry("1", byteGlyphHeight)
	sc.byteMat = NewUnlitMaterial(MustColor("#287e00"))
	sc.byteMat.Opacity = 0.8
	sc.neuronGeom = NewSphereGeometry(neuronRadius)
	sc.neuronMat = NewMaterial(s.Color())
	sc.neuronMat.Emissive = 0.5

	sc.positions = make([]r3.Vec, 2*maxLinks)
	linkMat := NewUnlitMaterial(s.Color())
	linkMat.Opacity = 0.3
	lineGeom := NewLineGeometry(sc.positions, 1)
	lineGeom.DrawCount = 0
	sc.links = NewMeshNode("links", ShapeLines, lineGeom, linkMat)
	sc.world.AddChild(sc.links)

	sc.views = make([]particleView, len(sc.Sim.Particles))
	sc.reconcile()
}

// Update implements Scene.
func (sc *BridgeScene) Update(s *Session, fr Frame) {
	sc.world.Rotation.Y += bridgeSpin * fr.Dt * fr.Speed
	sc.deck.Position.Y = sinWave(fr.Elapsed, 1) * bridgeFloatAmp

	sc.Sim.Step(fr.Dt, fr.Speed)
	for _, e := range sc.Sim.Events {
		s.Emit(SceneEvent{Type: e.Type, Index: e.Index, TimeMs: fr.TimeMs})
	}
	sc.reconcile()

	g := sc.links.Geometry
	g.DrawCount = segmentsToPositions(sc.Sim.Links[:sc.Sim.LinkCount], sc.positions)
}

// reconcile brings every particle node in line with its simulation entity,
// replacing the node when the kind or glyph changed.
func (sc *BridgeScene) reconcile() {
	for i := range sc.Sim.Particles {
		p := &sc.Sim.Particles[i]
		v := &sc.views[i]
		if v.node == nil || v.kind != p.Kind || v.glyph != p.Glyph {
			if v.node != nil {
				v.node.Dispose()
			}
			v.node = sc.newParticleNode(p)
			v.kind, v.glyph = p.Kind, p.Glyph
			sc.world.AddChild(v.node)
		}
		v.node.Position = p.Pos
	}
}

func (sc *BridgeScene) newParticleNode(p *Particle) *Node {
	switch p.Kind {
	case KindByte:
		g := sc.glyphGeom[0]
		if p.Glyph == '1' {
			g = sc.glyphGeom[1]
		}
		return NewMeshNode("byte", ShapeLabel, g, sc.byteMat)
	case KindNeuron:
		return NewSphere("neuron", sc.neuronGeom, sc.neuronMat)
	default:
		panic("slidefx: unknown particle kind")
	}
}
