package slidefx

import (
	"math"

	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r3"
)

// Doll is one entity of a nesting set. Dolls are ordered largest first and
// each one fits inside the previous.
type Doll struct {
	Size  float64
	Color Color
	Label string
}

// DefaultDolls is the AI landscape set: each field nested in the one before.
var DefaultDolls = []Doll{
	{Size: 3.0, Color: MustColor("#4B286D"), Label: "Artificial Intelligence"},
	{Size: 2.4, Color: MustColor("#66CC00"), Label: "Machine Learning"},
	{Size: 1.8, Color: MustColor("#FFD700"), Label: "Deep Learning"},
	{Size: 1.3, Color: MustColor("#FF6B6B"), Label: "Neural Networks"},
	{Size: 0.9, Color: MustColor("#4ECDC4"), Label: "Generative AI (GPT)"},
}

// Choreography constants, in world units and radians.
const (
	dollSpacing    = 3.0
	dollFloorY     = -1.5
	dollJumpHeight = 2.0
	dollFlourish   = 0.2
	dollBobAmp     = 0.05
	dollBobFreq    = 2.0
	lidLiftFactor  = 0.5
	lidOpenTilt    = math.Pi / 8
)

// Sub-window boundaries within a level's progress.
const (
	unpackLiftEnd = 0.3
	unpackJumpEnd = 0.8
	packJumpEnd   = 0.5
	packCloseEnd  = 0.8
)

// RestY is the resting center height of a doll of the given size.
func RestY(size float64) float64 {
	return size*1.2/2 + dollFloorY
}

// DollPose is the derived presentation of one doll for a frame.
type DollPose struct {
	X, Y       float64
	Tilt       float64
	LidLift    float64
	LidTilt    float64
	LabelAlpha float64
}

// dollStartX returns the X of the first doll when n dolls are laid out
// centered on the origin.
func dollStartX(n int) float64 {
	return -dollSpacing * float64(n-1) / 2
}

// PoseDolls computes the pose of every doll for state st. clock is the
// unscaled session time in seconds and only drives idle bobbing. poses must
// have len(dolls) elements.
//
// Only the pair at st.Level animates. Dolls not yet unpacked stay nested in
// the child of that pair and move with it, in both directions.
func PoseDolls(st PhaseState, dolls []Doll, clock float64, poses []DollPose) {
	n := len(dolls)
	if n == 0 {
		return
	}
	startX := dollStartX(n)
	slotX := func(i int) float64 { return startX + float64(i)*dollSpacing }
	level := clampInt(st.Level, 0, n-1)
	p := st.Progress

	open := func(i int) {
		poses[i].LidLift = dolls[i].Size * lidLiftFactor
		poses[i].LidTilt = lidOpenTilt
	}

	for i := range poses[:n] {
		poses[i] = DollPose{X: startX, Y: RestY(dolls[i].Size)}
	}
	poses[0].LabelAlpha = 1

	switch st.Phase {
	case PhaseInitialWait:
		bob := math.Sin(clock*dollBobFreq) * dollBobAmp
		for i := range poses[:n] {
			poses[i].Y += bob
		}

	case PhaseUnpack:
		for i := 0; i <= level; i++ {
			poses[i].X = slotX(i)
			poses[i].LabelAlpha = 1
		}
		for i := 0; i < level; i++ {
			open(i)
		}
		if level+1 >= n {
			break
		}
		parent := &poses[level]
		size := dolls[level].Size
		x, lift, tilt := parent.X, 0.0, 0.0
		switch {
		case p < unpackLiftEnd:
			k := p / unpackLiftEnd
			parent.LidLift = lerp(0, size*lidLiftFactor, k)
			parent.LidTilt = lerp(0, lidOpenTilt, k)
		case p < unpackJumpEnd:
			open(level)
			k := (p - unpackLiftEnd) / (unpackJumpEnd - unpackLiftEnd)
			arc := math.Sin(k * math.Pi)
			x = lerp(parent.X, parent.X+dollSpacing, k)
			lift = arc * dollJumpHeight
			tilt = -arc * dollFlourish
		default:
			open(level)
			x = parent.X + dollSpacing
			k := (p - unpackJumpEnd) / (1 - unpackJumpEnd)
			poses[level+1].LabelAlpha = easeWindow(ease.OutQuad, k)
		}
		for i := level + 1; i < n; i++ {
			poses[i].X = x
			poses[i].Y += lift
			poses[i].Tilt = tilt
		}

	case PhaseWait:
		for i := range poses[:n] {
			poses[i].X = slotX(i)
			poses[i].Y += math.Sin(clock*dollBobFreq+float64(i)) * dollBobAmp
			poses[i].LabelAlpha = 1
			if i < n-1 {
				open(i)
			}
		}

	case PhasePack:
		for i := 0; i <= level; i++ {
			poses[i].X = slotX(i)
			poses[i].LabelAlpha = 1
		}
		for i := 0; i < level; i++ {
			open(i)
		}
		if level+1 >= n {
			break
		}
		parentX := slotX(level)
		size := dolls[level].Size
		x, lift, tilt := parentX, 0.0, 0.0
		switch {
		case p < packJumpEnd:
			open(level)
			k := p / packJumpEnd
			arc := math.Sin(k * math.Pi)
			x = lerp(parentX+dollSpacing, parentX, k)
			lift = arc * dollJumpHeight
			tilt = arc * dollFlourish
		case p < packCloseEnd:
			k := (p - packJumpEnd) / (packCloseEnd - packJumpEnd)
			poses[level].LidLift = lerp(size*lidLiftFactor, 0, k)
			poses[level].LidTilt = lerp(lidOpenTilt, 0, k)
		}
		for i := level + 1; i < n; i++ {
			poses[i].X = x
			poses[i].Y += lift
			poses[i].Tilt = tilt
		}

	default:
		panic("slidefx: unknown phase")
	}
}

// --- Scene ---

// NestingScene unpacks and repacks a set of nesting dolls forever.
type NestingScene struct {
	Dolls   []Doll
	Machine *PhaseMachine

	poses []DollPose
	views []dollView
}

type dollView struct {
	group *Node
	lid   *Node
	label *Node
}

// NewNestingScene creates a scene over dolls. Nil uses DefaultDolls.
func NewNestingScene(dolls []Doll) *NestingScene {
	if dolls == nil {
		dolls = DefaultDolls
	}
	return &NestingScene{
		Dolls:   dolls,
		Machine: NewPhaseMachine(len(dolls)),
		poses:   make([]DollPose, len(dolls)),
	}
}

// Stage implements Scene.
func (sc *NestingScene) Stage() Stage {
	return Stage{
		FOV:        45,
		Far:        100,
		Position:   r3.Vec{Y: 5, Z: 15},
		Background: ColorWhite,
		Lights: []Light{
			AmbientLight(ColorWhite, 0.6),
			DirectionalLight(ColorWhite, 1, r3.Vec{X: 5, Y: 10, Z: 7}),
		},
		Orbit: &OrbitConfig{EnableRotate: true, EnableZoom: true},
	}
}

// Build implements Scene.
func (sc *NestingScene) Build(s *Session) {
	floor := NewBox("floor", NewBoxGeometry(30, 0.02, 10), NewUnlitMaterial(MustColor("#eeeeee")))
	floor.Position.Y = dollFloorY
	s.Root.AddChild(floor)

	labelMat := NewUnlitMaterial(s.Color())
	sc.views = make([]dollView, len(sc.Dolls))
	for i, d := range sc.Dolls {
		radius := d.Size * 0.5
		height := d.Size * 1.2
		body := height - 2*radius
		mat := NewMaterial(d.Color)

		g := NewGroup(d.Label)
		bottom := NewMeshNode("bottom", ShapeCapsule, NewCapsuleGeometry(radius, body/2), mat)
		bottom.Position.Y = -body / 4
		g.AddChild(bottom)

		lid := NewGroup("lid")
		top := NewMeshNode("top", ShapeCapsule, NewCapsuleGeometry(radius, body/2), mat)
		top.Position.Y = body / 4
		lid.AddChild(top)
		g.AddChild(lid)

		label := NewLabel("label", d.Label, 0.5, labelMat)
		label.Position.Y = height + 0.5
		g.AddChild(label)

		s.Root.AddChild(g)
		sc.views[i] = dollView{group: g, lid: lid, label: label}
	}

	sc.Machine.OnPhase = func(from, to Phase) {
		s.Emit(SceneEvent{Type: EventPhase, From: from, To: to, TimeMs: s.Elapsed() * 1000})
	}
	sc.apply(s.Elapsed())
}

// Update implements Scene.
func (sc *NestingScene) Update(s *Session, fr Frame) {
	sc.Machine.Step(fr.Dt, fr.Speed)
	sc.apply(fr.Elapsed)
}

func (sc *NestingScene) apply(clock float64) {
	PoseDolls(sc.Machine.PhaseState, sc.Dolls, clock, sc.poses)
	for i, v := range sc.views {
		p := sc.poses[i]
		v.group.Position.X = p.X
		v.group.Position.Y = p.Y
		v.group.Rotation.Z = p.Tilt
		v.lid.Position.Y = p.LidLift
		v.lid.Rotation.Z = p.LidTilt
		v.label.Alpha = p.LabelAlpha
		v.label.Visible = p.LabelAlpha > 0
	}
}
