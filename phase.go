package slidefx

import "fmt"

// Phase is a stage of the unpack/pack choreography. The cycle is
// InitialWait → Unpack → Wait → Pack → InitialWait with no terminal state.
type Phase uint8

const (
	PhaseInitialWait Phase = iota
	PhaseUnpack
	PhaseWait
	PhasePack
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInitialWait:
		return "initial-wait"
	case PhaseUnpack:
		return "unpack"
	case PhaseWait:
		return "wait"
	case PhasePack:
		return "pack"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// Next returns the phase that follows p in the cycle.
func (p Phase) Next() Phase {
	switch p {
	case PhaseInitialWait:
		return PhaseUnpack
	case PhaseUnpack:
		return PhaseWait
	case PhaseWait:
		return PhasePack
	case PhasePack:
		return PhaseInitialWait
	default:
		panic("slidefx: unknown phase")
	}
}

// PhaseState is the complete state of a phase machine.
type PhaseState struct {
	Phase Phase
	// Level is the index of the parent whose boundary is animating during
	// Unpack and Pack. It is 0 in InitialWait and N-1 in Wait.
	Level int
	// Progress through the current level, in [0, 1]. Reset to 0 on every
	// phase or level transition.
	Progress float64
	// Waited is the time accumulated in a wait phase, in progress units.
	Waited float64
}

const (
	// phaseRate is progress per second at speed 1 (0.01 per 60 Hz frame).
	phaseRate = 0.01 * refFPS

	initialWaitThreshold = 2.0
	waitThreshold        = 3.0

	// maxTransitionsPerStep bounds the work of a single step. Budget left
	// over after this many transitions is dropped.
	maxTransitionsPerStep = 64
)

// StepPhase advances st by budget progress units for a machine over n
// entities and returns the new state. The budget is consumed across as many
// transitions as it covers, each one starting the next window at progress 0.
// onPhase, if non-nil, is called for every phase change in order.
//
// A non-positive or NaN budget, or n < 1, returns st unchanged.
func StepPhase(st PhaseState, n int, budget float64, onPhase func(from, to Phase)) PhaseState {
	if n < 1 || !(budget > 0) {
		return st
	}
	st.Level = clampInt(st.Level, 0, n-1)

	enter := func(to Phase, level int) {
		from := st.Phase
		st.Phase = to
		st.Level = clampInt(level, 0, n-1)
		st.Progress = 0
		st.Waited = 0
		if onPhase != nil {
			onPhase(from, to)
		}
	}

	for i := 0; i < maxTransitionsPerStep; i++ {
		switch st.Phase {
		case PhaseInitialWait, PhaseWait:
			limit := waitThreshold
			if st.Phase == PhaseInitialWait {
				limit = initialWaitThreshold
			}
			need := limit - st.Waited
			if budget < need {
				st.Waited += budget
				return st
			}
			budget -= need
			if st.Phase == PhaseInitialWait {
				enter(PhaseUnpack, 0)
				if n < 2 {
					enter(PhaseWait, n-1)
				}
			} else {
				enter(PhasePack, n-2)
				if n < 2 {
					enter(PhaseInitialWait, 0)
				}
			}

		case PhaseUnpack:
			need := 1 - st.Progress
			if budget < need {
				st.Progress += budget
				return st
			}
			budget -= need
			if st.Level+1 >= n-1 {
				enter(PhaseWait, n-1)
			} else {
				st.Level++
				st.Progress = 0
			}

		case PhasePack:
			need := 1 - st.Progress
			if budget < need {
				st.Progress += budget
				return st
			}
			budget -= need
			if st.Level == 0 {
				enter(PhaseInitialWait, 0)
			} else {
				st.Level--
				st.Progress = 0
			}

		default:
			panic("slidefx: unknown phase")
		}
	}
	return st
}

// PhaseMachine owns a PhaseState for a fixed number of entities.
type PhaseMachine struct {
	PhaseState
	Count int
	// OnPhase is called for every phase change.
	OnPhase func(from, to Phase)
}

// NewPhaseMachine returns a machine in InitialWait over n entities.
func NewPhaseMachine(n int) *PhaseMachine {
	return &PhaseMachine{Count: n}
}

// Step advances the machine by dt seconds at the given speed. Speed zero,
// negative or NaN freezes the machine.
func (m *PhaseMachine) Step(dt, speed float64) {
	budget := dt * speed
	budget *= phaseRate
	m.PhaseState = StepPhase(m.PhaseState, m.Count, budget, m.OnPhase)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
