package slidefx

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// glyph is one symbol of the equation row with an optional caption below it.
type glyph struct {
	text    string
	color   string
	x       float64
	size    float64
	caption string
	capY    float64
	// bob is the phase offset of the floating animation; negative disables it.
	bob float64
}

var equationGlyphs = []glyph{
	{text: "y", color: "#260b52", x: -6, size: 4, caption: "Output", capY: -2.5, bob: -1},
	{text: "=", color: "#555555", x: -3, size: 4, bob: -1},
	{text: "w", color: "#971748", x: 0, size: 5, caption: "Weight", capY: -3.5, bob: 0},
	{text: "x", color: "#555555", x: 3, size: 4, caption: "Input", capY: -2.5, bob: -1},
	{text: "+", color: "#555555", x: 5.5, size: 4, bob: -1},
	{text: "b", color: "#fc8f00", x: 8, size: 5, caption: "Bias", capY: -3.5, bob: 1},
}

const (
	equationBobAmp  = 0.5
	equationBobFreq = 2.0
	captionSize     = 0.8
)

// EquationScene shows y = w x + b with the parameters floating.
type EquationScene struct {
	bobbers []bobber
}

type bobber struct {
	node  *Node
	baseY float64
	phase float64
}

// NewEquationScene creates the scene.
func NewEquationScene() *EquationScene {
	return &EquationScene{}
}

// Stage implements Scene.
func (sc *EquationScene) Stage() Stage {
	return Stage{
		FOV:        45,
		Far:        100,
		Position:   r3.Vec{Z: 20},
		Background: ColorWhite,
		Lights: []Light{
			AmbientLight(ColorWhite, 0.8),
			DirectionalLight(ColorWhite, 0.5, r3.Vec{X: 5, Y: 10, Z: 7}),
		},
		Orbit: &OrbitConfig{EnableRotate: true},
	}
}

// Build implements Scene.
func (sc *EquationScene) Build(s *Session) {
	row := NewGroup("equation")
	s.Root.AddChild(row)
	for _, g := range equationGlyphs {
		mat := NewUnlitMaterial(MustColor(g.color))
		sym := NewLabel(g.text, g.text, g.size*0.5, mat)
		sym.Position.X = g.x
		row.AddChild(sym)
		if g.bob >= 0 {
			sc.bobbers = append(sc.bobbers, bobber{node: sym, phase: g.bob})
		}
		if g.caption == "" {
			continue
		}
		c := NewLabel(g.caption, g.caption, captionSize, mat)
		c.Position = r3.Vec{X: g.x, Y: g.capY}
		row.AddChild(c)
		if g.bob >= 0 {
			sc.bobbers = append(sc.bobbers, bobber{node: c, baseY: g.capY, phase: g.bob})
		}
	}
}

// Update implements Scene.
func (sc *EquationScene) Update(s *Session, fr Frame) {
	for _, b := range sc.bobbers {
		b.node.Position.Y = b.baseY + sinWave(fr.Elapsed+b.phase/equationBobFreq, equationBobFreq)*equationBobAmp
	}
}
