package slidefx

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single action of a session script.
type scriptStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	Value  float64 `yaml:"value,omitempty"`
	Layer  string  `yaml:"layer,omitempty"`
	On     bool    `yaml:"on,omitempty"`
	Width  int     `yaml:"width,omitempty"`
	Height int     `yaml:"height,omitempty"`
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

type sessionScript struct {
	Steps []scriptStep `yaml:"steps"`
}

// Script actions.
const (
	ActionWait      = "wait"
	ActionSnapshot  = "snapshot"
	ActionSpeed     = "speed"
	ActionSlope     = "slope"
	ActionIntercept = "intercept"
	ActionBestFit   = "best-fit"
	ActionShow      = "show"
	ActionResize    = "resize"
	ActionOrbit     = "orbit"
)

// Overlay layers addressed by the show action.
const (
	LayerLine    = "line"
	LayerErrors  = "errors"
	LayerPoints  = "points"
	LayerOverfit = "overfit"
)

// ScriptRunner plays a sequence of parameter changes and snapshots against
// a session, one step per frame. Hosts call Step before pumping the frame
// driver; headless callers use Play.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool

	// OnSnapshot is called for every snapshot action.
	OnSnapshot func(label string, s *Session)
}

// LoadScript parses a YAML session script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var script sessionScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("slidefx: parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("slidefx: parse script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case ActionWait, ActionSnapshot, ActionSpeed, ActionSlope, ActionIntercept,
			ActionBestFit, ActionShow, ActionResize, ActionOrbit:
		default:
			return nil, fmt.Errorf("slidefx: parse script: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == ActionShow && !validLayer(st.Layer) {
			return nil, fmt.Errorf("slidefx: parse script: step %d: unknown layer %q", i, st.Layer)
		}
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

func validLayer(layer string) bool {
	switch layer {
	case LayerLine, LayerErrors, LayerPoints, LayerOverfit:
		return true
	}
	return false
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool { return r.done }

// Step runs the next step, or counts down a pending wait.
func (r *ScriptRunner) Step(s *Session) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case ActionWait:
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case ActionSnapshot:
		if r.OnSnapshot != nil {
			r.OnSnapshot(st.Label, s)
		}
	case ActionSpeed:
		s.SetSpeed(st.Value)
	case ActionSlope, ActionIntercept, ActionBestFit, ActionShow:
		r.applyOverlay(s, st)
	case ActionResize:
		s.Resize(st.Width, st.Height)
	case ActionOrbit:
		if o := s.Orbit(); o != nil {
			o.Rotate(st.X, st.Y)
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func (r *ScriptRunner) applyOverlay(s *Session, st scriptStep) {
	sc, ok := s.Scene().(*RegressionScene)
	if !ok || sc.Overlay == nil {
		logger.Warn("script step needs the regression scene", "action", st.Action, "scene", s.Name())
		return
	}
	o := sc.Overlay
	switch st.Action {
	case ActionSlope:
		o.SetSlope(st.Value)
	case ActionIntercept:
		o.SetIntercept(st.Value)
	case ActionBestFit:
		m, b := o.BestFit()
		o.SetSlope(m)
		o.SetIntercept(b)
	case ActionShow:
		switch st.Layer {
		case LayerLine:
			o.SetShowLine(st.On)
		case LayerErrors:
			o.SetShowErrors(st.On)
		case LayerPoints:
			o.SetShowPoints(st.On)
		case LayerOverfit:
			o.SetShowOverfit(st.On)
		default:
			logger.Warn("unknown overlay layer", "layer", st.Layer)
		}
	}
}

// Play runs the script to completion against s, pumping driver with fixed
// frames of frameMs milliseconds starting at startMs. It returns the host
// time after the last frame. Play stops early if the session is disposed.
func (r *ScriptRunner) Play(s *Session, driver *TickDriver, startMs, frameMs float64) float64 {
	t := startMs
	for !r.done && !s.IsDisposed() {
		r.Step(s)
		driver.Tick(t)
		t += frameMs
	}
	return t
}
