package slidefx

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestPhaseNextCycle(t *testing.T) {
	p := PhaseInitialWait
	want := []Phase{PhaseUnpack, PhaseWait, PhasePack, PhaseInitialWait}
	for _, w := range want {
		p = p.Next()
		if p != w {
			t.Fatalf("Next = %v, want %v", p, w)
		}
	}
}

func TestPhaseNextUnknownPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown phase")
		}
	}()
	Phase(9).Next()
}

func TestPhaseString(t *testing.T) {
	if got := PhasePack.String(); got != "pack" {
		t.Errorf("String = %q, want %q", got, "pack")
	}
	if got := Phase(7).String(); got != "Phase(7)" {
		t.Errorf("String = %q, want %q", got, "Phase(7)")
	}
}

func TestStepPhaseOrder(t *testing.T) {
	var seen []Phase
	st := PhaseState{}
	for i := 0; i < 4000; i++ {
		st = StepPhase(st, 5, 0.01, func(from, to Phase) {
			if from.Next() != to {
				t.Fatalf("transition %v -> %v skips a phase", from, to)
			}
			seen = append(seen, to)
		})
	}
	if len(seen) < 8 {
		t.Fatalf("got %d transitions, want at least two full cycles", len(seen))
	}
	want := []Phase{PhaseUnpack, PhaseWait, PhasePack, PhaseInitialWait}
	for i, p := range seen {
		if p != want[i%4] {
			t.Fatalf("transition %d = %v, want %v", i, p, want[i%4])
		}
	}
}

func TestStepPhaseBounds(t *testing.T) {
	const n = 5
	st := PhaseState{}
	for i := 0; i < 5000; i++ {
		st = StepPhase(st, n, 0.037, nil)
		if st.Level < 0 || st.Level > n-1 {
			t.Fatalf("step %d: Level = %d, out of [0, %d]", i, st.Level, n-1)
		}
		if st.Progress < 0 || st.Progress >= 1 {
			t.Fatalf("step %d: Progress = %v, out of [0, 1)", i, st.Progress)
		}
		switch st.Phase {
		case PhaseInitialWait:
			if st.Level != 0 {
				t.Fatalf("step %d: initial wait at level %d", i, st.Level)
			}
		case PhaseWait:
			if st.Level != n-1 {
				t.Fatalf("step %d: wait at level %d", i, st.Level)
			}
		}
	}
}

func TestStepPhaseFullCycle(t *testing.T) {
	// 2 initial wait + 4 unpack levels + 3 wait + 4 pack levels.
	var count int
	st := StepPhase(PhaseState{}, 5, 13, func(from, to Phase) { count++ })
	want := PhaseState{Phase: PhaseInitialWait}
	if diff := cmp.Diff(want, st); diff != "" {
		t.Errorf("state after one cycle (-want +got):\n%s", diff)
	}
	if count != 4 {
		t.Errorf("transitions = %d, want 4", count)
	}
}

func TestStepPhaseSeparable(t *testing.T) {
	// Budgets are multiples of 1/8 so every sum is exact.
	splits := [][2]float64{{0.125, 0.25}, {1.5, 2.375}, {3, 4.875}, {0.5, 11.5}, {6.25, 0.125}}
	starts := []PhaseState{
		{},
		{Phase: PhaseUnpack, Level: 2, Progress: 0.5},
		{Phase: PhaseWait, Level: 4, Waited: 2.75},
		{Phase: PhasePack, Level: 1, Progress: 0.875},
	}
	for _, st := range starts {
		for _, sp := range splits {
			whole := StepPhase(st, 5, sp[0]+sp[1], nil)
			parts := StepPhase(StepPhase(st, 5, sp[0], nil), 5, sp[1], nil)
			if diff := cmp.Diff(whole, parts); diff != "" {
				t.Errorf("start %+v split %v (-whole +parts):\n%s", st, sp, diff)
			}
		}
	}
}

func TestStepPhaseNoBudget(t *testing.T) {
	st := PhaseState{Phase: PhaseUnpack, Level: 1, Progress: 0.25}
	for _, b := range []float64{0, -1, math.NaN()} {
		got := StepPhase(st, 5, b, func(from, to Phase) { t.Errorf("unexpected transition with budget %v", b) })
		if got != st {
			t.Errorf("budget %v: got %+v, want %+v", b, got, st)
		}
	}
}

func TestStepPhaseSingleEntity(t *testing.T) {
	var seen []Phase
	st := PhaseState{}
	for i := 0; i < 100; i++ {
		st = StepPhase(st, 1, 0.25, func(from, to Phase) { seen = append(seen, to) })
		if st.Level != 0 {
			t.Fatalf("Level = %d, want 0", st.Level)
		}
	}
	if len(seen) == 0 || seen[0] != PhaseUnpack || seen[1] != PhaseWait {
		t.Errorf("transitions = %v, want unpack then wait", seen[:min(len(seen), 4)])
	}
}

func TestPhaseMachineSpeed(t *testing.T) {
	frozen := NewPhaseMachine(5)
	for i := 0; i < 600; i++ {
		frozen.Step(1.0/60, 0)
	}
	if frozen.PhaseState != (PhaseState{}) {
		t.Errorf("speed 0 moved the machine: %+v", frozen.PhaseState)
	}

	a, b := NewPhaseMachine(5), NewPhaseMachine(5)
	// 5.5 progress units: halfway through the last unpack level.
	for i := 0; i < 275; i++ {
		a.Step(1.0/60, 2)
	}
	for i := 0; i < 550; i++ {
		b.Step(1.0/60, 1)
	}
	approx := cmpopts.EquateApprox(0, 1e-6)
	if diff := cmp.Diff(a.PhaseState, b.PhaseState, approx); diff != "" {
		t.Errorf("double speed differs from double time (-2x +1x):\n%s", diff)
	}
}

func TestPhaseMachineFastSpeedStaysBounded(t *testing.T) {
	m := NewPhaseMachine(5)
	for i := 0; i < 100; i++ {
		m.Step(0.25, 10)
		if m.Level < 0 || m.Level > 4 || m.Progress < 0 || m.Progress >= 1 {
			t.Fatalf("state out of bounds: %+v", m.PhaseState)
		}
	}
}
