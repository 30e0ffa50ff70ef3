package slidefx

import (
	"math"
	"testing"
)

const poseTol = 1e-9

func posesFor(st PhaseState) []DollPose {
	poses := make([]DollPose, len(DefaultDolls))
	PoseDolls(st, DefaultDolls, 0, poses)
	return poses
}

func TestRestY(t *testing.T) {
	if got := RestY(3); math.Abs(got-0.3) > poseTol {
		t.Errorf("RestY(3) = %v, want 0.3", got)
	}
	if got := RestY(0.9); math.Abs(got-(-0.96)) > poseTol {
		t.Errorf("RestY(0.9) = %v, want -0.96", got)
	}
}

func TestPoseInitialWaitAllNested(t *testing.T) {
	poses := posesFor(PhaseState{})
	x := dollStartX(len(DefaultDolls))
	for i, p := range poses {
		if p.X != x {
			t.Errorf("doll %d X = %v, want %v", i, p.X, x)
		}
		if i > 0 && p.LabelAlpha != 0 {
			t.Errorf("doll %d label visible while nested", i)
		}
		if p.LidLift != 0 {
			t.Errorf("doll %d lid open in initial wait", i)
		}
	}
	if poses[0].LabelAlpha != 1 {
		t.Error("outer label hidden")
	}
}

func TestPoseUnpackOnlyActivePairMoves(t *testing.T) {
	const level = 1
	n := len(DefaultDolls)
	startX := dollStartX(n)
	poses := posesFor(PhaseState{Phase: PhaseUnpack, Level: level, Progress: 0.55})

	for i := 0; i < level; i++ {
		if want := startX + float64(i)*dollSpacing; poses[i].X != want {
			t.Errorf("unpacked doll %d X = %v, want %v", i, poses[i].X, want)
		}
		if poses[i].LidLift == 0 {
			t.Errorf("unpacked doll %d lid closed", i)
		}
	}
	child := poses[level+1]
	lift := child.Y - RestY(DefaultDolls[level+1].Size)
	for i := level + 2; i < n; i++ {
		if poses[i].X != child.X || math.Abs(poses[i].Y-RestY(DefaultDolls[i].Size)-lift) > poseTol {
			t.Errorf("nested doll %d left its carrier: %+v", i, poses[i])
		}
		if poses[i].LabelAlpha != 0 || poses[i].LidLift != 0 {
			t.Errorf("nested doll %d not idle: %+v", i, poses[i])
		}
	}
	if child.Y <= RestY(DefaultDolls[level+1].Size) {
		t.Errorf("child not airborne mid-jump: Y = %v", child.Y)
	}
	if child.X <= poses[level].X || child.X >= poses[level].X+dollSpacing {
		t.Errorf("child X = %v, want between parent %v and next slot", child.X, poses[level].X)
	}
}

func TestPoseUnpackLevelHandoffIsContinuous(t *testing.T) {
	end := posesFor(PhaseState{Phase: PhaseUnpack, Level: 1, Progress: 1 - 1e-12})
	start := posesFor(PhaseState{Phase: PhaseUnpack, Level: 2, Progress: 0})
	for i := range end {
		if math.Abs(end[i].X-start[i].X) > 1e-6 || math.Abs(end[i].Y-start[i].Y) > 1e-6 {
			t.Errorf("doll %d jumps at level change: %+v -> %+v", i, end[i], start[i])
		}
	}
}

func TestPoseLabelFadesIn(t *testing.T) {
	prev := -1.0
	for _, p := range []float64{0.8, 0.85, 0.9, 0.95, 0.999} {
		a := posesFor(PhaseState{Phase: PhaseUnpack, Level: 0, Progress: p})[1].LabelAlpha
		if a < prev {
			t.Errorf("label alpha decreased at %v: %v < %v", p, a, prev)
		}
		if a < 0 || a > 1 {
			t.Errorf("label alpha %v out of range", a)
		}
		prev = a
	}
	if prev < 0.99 {
		t.Errorf("label alpha at end = %v, want ~1", prev)
	}
}

func TestPosePackCarriesDescendants(t *testing.T) {
	const level = 1
	poses := posesFor(PhaseState{Phase: PhasePack, Level: level, Progress: 0.25})
	child := poses[level+1]
	for i := level + 2; i < len(poses); i++ {
		if poses[i].X != child.X {
			t.Errorf("descendant %d X = %v, want child X %v", i, poses[i].X, child.X)
		}
		if poses[i].Tilt != child.Tilt {
			t.Errorf("descendant %d Tilt = %v, want %v", i, poses[i].Tilt, child.Tilt)
		}
	}
}

func TestPosePackEndsNested(t *testing.T) {
	poses := posesFor(PhaseState{Phase: PhasePack, Level: 0, Progress: 0.9})
	for i := 1; i < len(poses); i++ {
		if poses[i].X != poses[0].X {
			t.Errorf("doll %d X = %v, want parent X %v", i, poses[i].X, poses[0].X)
		}
	}
	if poses[0].LidLift != 0 {
		t.Errorf("outer lid still open after close window: %v", poses[0].LidLift)
	}
}

func TestPoseWaitSpreadsEveryDoll(t *testing.T) {
	n := len(DefaultDolls)
	poses := posesFor(PhaseState{Phase: PhaseWait, Level: n - 1})
	for i, p := range poses {
		if want := dollStartX(n) + float64(i)*dollSpacing; p.X != want {
			t.Errorf("doll %d X = %v, want %v", i, p.X, want)
		}
		if p.LabelAlpha != 1 {
			t.Errorf("doll %d label alpha = %v, want 1", i, p.LabelAlpha)
		}
		if math.Abs(p.Y-RestY(DefaultDolls[i].Size)) > dollBobAmp+poseTol {
			t.Errorf("doll %d bobbing too far: %v", i, p.Y)
		}
	}
	if poses[n-1].LidLift != 0 {
		t.Error("innermost lid opened")
	}
}
