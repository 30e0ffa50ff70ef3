package slidefx

import (
	"slices"
)

// DefaultScene is the selector used for empty or unknown animation types.
const DefaultScene = "cube"

var registry = map[string]func() Scene{
	"cube":                 func() Scene { return NewCubeScene() },
	"sphere":               func() Scene { return NewSphereScene() },
	"torus":                func() Scene { return NewTorusScene() },
	"particles":            func() Scene { return NewParticlesScene() },
	"grid":                 func() Scene { return NewGridScene() },
	"neural-network":       func() Scene { return NewNeuralNetworkScene() },
	"linear-regression":    func() Scene { return NewRegressionScene() },
	"gradient-descent":     func() Scene { return NewDescentScene() },
	"equation":             func() Scene { return NewEquationScene() },
	"bridge":               func() Scene { return NewBridgeScene() },
	"ai-landscape":         func() Scene { return NewNestingScene(nil) },
	"programming-paradigm": func() Scene { return NewParadigmScene() },
}

// NewScene returns a fresh scene for the selector together with the name it
// resolved to. Unknown selectors log a warning and resolve to DefaultScene.
func NewScene(animationType string) (Scene, string) {
	if ctor, ok := registry[animationType]; ok {
		return ctor(), animationType
	}
	if animationType != "" {
		logger.Warn("unknown animation type, using default", "type", animationType, "default", DefaultScene)
	}
	return registry[DefaultScene](), DefaultScene
}

// RegisterScene adds or replaces a selector. It panics on an empty name or a
// nil constructor.
func RegisterScene(name string, ctor func() Scene) {
	if name == "" {
		panic("slidefx: RegisterScene with empty name")
	}
	if ctor == nil {
		panic("slidefx: RegisterScene with nil constructor")
	}
	registry[name] = ctor
}

// SceneNames returns the registered selectors in sorted order.
func SceneNames() []string {
	names := make([]string, 0, len(registry))
	for k := range registry {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}
