package slidefx

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
)

// GateRule selects how a system's gates are oriented.
type GateRule uint8

const (
	RuleFixed    GateRule = iota // gates hold their optimal tilt
	RuleAdaptive                 // gates periodically scramble and relearn
)

// Gate is an oriented flat obstacle. Angle is only changed by smoothing
// toward a target after construction.
type Gate struct {
	Pos     r3.Vec
	Angle   float64
	Optimal float64
	Chaos   float64

	chaosPeriod int64
}

// Body is a falling ball.
type Body struct {
	Pos, Vel r3.Vec
	Caught   bool
}

// Gate physics constants. Per-frame values are tuned for 60 Hz.
const (
	gateCount      = 3
	gateSpacingY   = 4.0
	gateTopY       = 4.0
	gateJitterX    = 2.0
	gateOptimal    = math.Pi / 6
	gateHalfWidth  = 1.6
	gateHalfHeight = 0.4
	gateLength     = 3.0
	gateThickness  = 0.5

	spawnChance  = 0.05
	spawnY       = 9.0
	spawnJitterX = 2.0
	gravity      = 0.01
	damping      = 0.99
	restitution  = 0.6
	pushOut      = 0.1

	floorY     = -8.0
	killY      = -12.0
	binHalfW   = 2.0
	ballRadius = 0.3

	// Adaptive gates scramble for the first chaosWindow of every
	// adaptivePeriodMs and otherwise converge on their optimal tilt.
	adaptivePeriodMs = 3000.0
	chaosWindow      = 0.2
	smoothingRate    = 2.0

	// MaxBodies caps the live bodies per system.
	MaxBodies = 256
)

// GateSystem is one column of gates with a bin underneath.
type GateSystem struct {
	Name    string
	Rule    GateRule
	OffsetX float64
	Gates   []Gate
	Bodies  []Body
	// Events lists the catches of the last step.
	Events []ParticleEvent

	rng    *rand.Rand
	caught int
}

// NewGateSystem creates a system of three gates centered on offsetX. Fixed
// systems start at their optimal tilt; adaptive ones start scrambled.
func NewGateSystem(name string, rule GateRule, offsetX float64, rng *rand.Rand) *GateSystem {
	g := &GateSystem{Name: name, Rule: rule, OffsetX: offsetX, rng: rng}
	g.Gates = make([]Gate, gateCount)
	for i := range g.Gates {
		opt := gateOptimal
		if i%2 != 0 {
			opt = -gateOptimal
		}
		gate := Gate{
			Pos:         r3.Vec{X: offsetX + (rng.Float64()-0.5)*gateJitterX, Y: gateTopY - float64(i)*gateSpacingY},
			Optimal:     opt,
			Angle:       opt,
			chaosPeriod: -1,
		}
		if rule == RuleAdaptive {
			gate.Angle = (rng.Float64() - 0.5) * math.Pi
		}
		g.Gates[i] = gate
	}
	return g
}

// Caught returns how many bodies have landed in the bin so far.
func (g *GateSystem) Caught() int {
	return g.caught
}

// Step advances the system by dt seconds. clockMs is the unscaled session
// clock that paces the adaptive cycle.
func (g *GateSystem) Step(dt, clockMs, speed float64) {
	g.Events = g.Events[:0]
	if !(dt > 0) {
		return
	}
	f := dt * refFPS

	g.spawn(spawnChance * speed * f)
	g.steer(dt, clockMs)

	for i := len(g.Bodies) - 1; i >= 0; i-- {
		b := &g.Bodies[i]
		b.Vel.Y -= gravity * speed * f
		b.Vel.X *= math.Pow(damping, f)
		b.Pos = r3.Add(b.Pos, r3.Scale(speed*f, b.Vel))

		for k := range g.Gates {
			g.Gates[k].Collide(b)
		}

		if b.Pos.Y < floorY {
			if !b.Caught && math.Abs(b.Pos.X-g.OffsetX) < binHalfW {
				b.Caught = true
				g.caught++
				g.Events = append(g.Events, ParticleEvent{Type: EventCatch, Index: i})
			}
			if b.Pos.Y < killY {
				g.remove(i)
			}
		}
	}
}

// spawn adds the expected number of bodies for a step, sampling the
// fractional part, up to MaxBodies.
func (g *GateSystem) spawn(expected float64) {
	if !(expected > 0) {
		return
	}
	n := int(math.Floor(expected))
	if g.rng.Float64() < expected-float64(n) {
		n++
	}
	for ; n > 0 && len(g.Bodies) < MaxBodies; n-- {
		g.Bodies = append(g.Bodies, Body{
			Pos: r3.Vec{X: g.OffsetX + (g.rng.Float64()-0.5)*spawnJitterX, Y: spawnY},
		})
	}
}

// steer moves adaptive gates toward their current target.
func (g *GateSystem) steer(dt, clockMs float64) {
	switch g.Rule {
	case RuleFixed:
		return
	case RuleAdaptive:
	default:
		panic("slidefx: unknown gate rule")
	}
	period := int64(math.Floor(clockMs / adaptivePeriodMs))
	cycle := math.Mod(clockMs, adaptivePeriodMs) / adaptivePeriodMs
	k := math.Min(smoothingRate*dt, 1)
	for i := range g.Gates {
		gate := &g.Gates[i]
		target := gate.Optimal
		if cycle < chaosWindow {
			if gate.chaosPeriod != period {
				gate.Chaos = (g.rng.Float64() - 0.5) * math.Pi
				gate.chaosPeriod = period
			}
			target = gate.Chaos
		}
		gate.Angle += (target - gate.Angle) * k
	}
}

// remove drops body i by swapping in the last one.
func (g *GateSystem) remove(i int) {
	last := len(g.Bodies) - 1
	g.Bodies[i] = g.Bodies[last]
	g.Bodies = g.Bodies[:last]
}

// Collide bounces b off the gate if b is inside the gate's box and moving
// into its top face. It reports whether a bounce happened.
func (gt *Gate) Collide(b *Body) bool {
	local := rotateZ(r3.Sub(b.Pos, gt.Pos), -gt.Angle)
	if math.Abs(local.X) >= gateHalfWidth || math.Abs(local.Y) >= gateHalfHeight {
		return false
	}
	n := rotateZ(r3.Vec{Y: 1}, gt.Angle)
	v, ok := Reflect(b.Vel, n, restitution)
	if !ok {
		return false
	}
	b.Vel = v
	b.Pos = r3.Add(b.Pos, r3.Scale(pushOut, n))
	return true
}

// --- Scene ---

// ParadigmScene compares a fixed-rule gate column with an adaptive one.
type ParadigmScene struct {
	Systems [2]*GateSystem

	colors   [2]Color
	gateView [2][]*Node
	ballPool [2][]*Node
	ballGeom *Geometry
	ballMat  [2]*Material
}

// NewParadigmScene creates the scene. Systems are built on Build.
func NewParadigmScene() *ParadigmScene {
	return &ParadigmScene{colors: [2]Color{MustColor("#888888"), MustColor("#66CC00")}}
}

// Stage implements Scene.
func (sc *ParadigmScene) Stage() Stage {
	return Stage{
		FOV:        45,
		Far:        100,
		Position:   r3.Vec{Z: 30},
		Background: ColorWhite,
		Lights: []Light{
			AmbientLight(ColorWhite, 0.8),
			DirectionalLight(ColorWhite, 0.5, r3.Vec{X: 5, Y: 10, Z: 7}),
		},
		Orbit: &OrbitConfig{},
	}
}

// Build implements Scene.
func (sc *ParadigmScene) Build(s *Session) {
	sc.Systems[0] = NewGateSystem("Traditional", RuleFixed, -8, s.Rand())
	sc.Systems[1] = NewGateSystem("Machine Learning", RuleAdaptive, 8, s.Rand())

	sc.ballGeom = NewSphereGeometry(ballRadius)
	gateGeom := NewBoxGeometry(gateLength, gateThickness, gateThickness)
	gateMat := NewMaterial(MustColor("#cccccc"))
	binGeom := NewBoxGeometry(2*binHalfW, 1, 1)

	for k, sys := range sc.Systems {
		label := NewLabel(sys.Name, sys.Name, 1.5, NewUnlitMaterial(sc.colors[k]))
		label.Position = r3.Vec{X: sys.OffsetX, Y: 8}
		s.Root.AddChild(label)

		bin := NewBox("bin", binGeom, NewMaterial(sc.colors[k]))
		bin.Position = r3.Vec{X: sys.OffsetX, Y: floorY}
		s.Root.AddChild(bin)

		sc.gateView[k] = make([]*Node, len(sys.Gates))
		for i := range sys.Gates {
			n := NewBox("gate", gateGeom, gateMat)
			s.Root.AddChild(n)
			sc.gateView[k][i] = n
		}
		sc.ballMat[k] = NewMaterial(sc.colors[k])
	}
	sc.sync(s)
}

// Update implements Scene.
func (sc *ParadigmScene) Update(s *Session, fr Frame) {
	for _, sys := range sc.Systems {
		sys.Step(fr.Dt, fr.Elapsed*1000, fr.Speed)
		for range sys.Events {
			s.Emit(SceneEvent{Type: EventCatch, System: sys.Name, TimeMs: fr.TimeMs})
		}
	}
	sc.sync(s)
}

// sync copies simulation state onto nodes. Ball nodes are pooled and
// assigned by index; surplus nodes are hidden.
func (sc *ParadigmScene) sync(s *Session) {
	for k, sys := range sc.Systems {
		for i := range sys.Gates {
			n := sc.gateView[k][i]
			n.Position = sys.Gates[i].Pos
			n.Rotation.Z = sys.Gates[i].Angle
		}
		for len(sc.ballPool[k]) < len(sys.Bodies) {
			n := NewSphere("ball", sc.ballGeom, sc.ballMat[k])
			s.Root.AddChild(n)
			sc.ballPool[k] = append(sc.ballPool[k], n)
		}
		for i, n := range sc.ballPool[k] {
			if i < len(sys.Bodies) {
				n.Visible = true
				n.Position = sys.Bodies[i].Pos
			} else {
				n.Visible = false
			}
		}
	}
}
