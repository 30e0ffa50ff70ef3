package slidefx

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestBridgeSimInitialState(t *testing.T) {
	b := NewBridgeSim(newRand(1), 50)
	if len(b.Particles) != 50 {
		t.Fatalf("particles = %d, want 50", len(b.Particles))
	}
	for i, p := range b.Particles {
		if p.Kind != KindByte {
			t.Errorf("particle %d kind = %s, want byte", i, p.Kind)
		}
		if p.Glyph != '0' && p.Glyph != '1' {
			t.Errorf("particle %d glyph = %q", i, p.Glyph)
		}
		if p.Pos.X < bridgeOriginX || p.Pos.X >= bridgeOriginX+bridgeOriginSpan {
			t.Errorf("particle %d x = %v, outside the origin span", i, p.Pos.X)
		}
		if p.Speed < byteSpeedMin || p.Speed >= byteSpeedMax {
			t.Errorf("particle %d speed = %v", i, p.Speed)
		}
	}
}

func TestBridgeTransmutationOneWay(t *testing.T) {
	b := NewBridgeSim(newRand(2), bridgeParticles)
	prev := make([]Kind, len(b.Particles))
	transmuted, recycled := 0, 0

	for step := 0; step < 3000; step++ {
		for i := range b.Particles {
			prev[i] = b.Particles[i].Kind
		}
		b.Step(1.0/60, 1)

		recycledNow := make(map[int]bool)
		for _, e := range b.Events {
			switch e.Type {
			case EventTransmute:
				transmuted++
			case EventRecycle:
				recycled++
				recycledNow[e.Index] = true
			default:
				t.Fatalf("unexpected event %s", e.Type)
			}
		}

		for i, p := range b.Particles {
			if prev[i] == KindNeuron && p.Kind == KindByte && !recycledNow[i] {
				t.Fatalf("step %d: particle %d turned back into a byte without recycling", step, i)
			}
			switch p.Kind {
			case KindByte:
				if p.Pos.X > bridgeTransmuteX {
					t.Fatalf("step %d: byte %d past the transmute line at x=%v", step, i, p.Pos.X)
				}
				if p.Glyph == 0 {
					t.Fatalf("step %d: byte %d has no glyph", step, i)
				}
			case KindNeuron:
				if p.Pos.X <= bridgeTransmuteX {
					t.Fatalf("step %d: neuron %d before the transmute line at x=%v", step, i, p.Pos.X)
				}
				if p.Glyph != 0 {
					t.Fatalf("step %d: neuron %d kept glyph %q", step, i, p.Glyph)
				}
			}
			if p.Pos.X > bridgeMaxX || p.Pos.Y > bridgeMaxY {
				t.Fatalf("step %d: particle %d out of bounds at %v", step, i, p.Pos)
			}
		}

		if b.LinkCount > maxLinks {
			t.Fatalf("step %d: links = %d, want at most %d", step, b.LinkCount, maxLinks)
		}
	}
	if transmuted == 0 || recycled == 0 {
		t.Errorf("transmuted = %d, recycled = %d; want both non-zero", transmuted, recycled)
	}
}

func TestBridgeSpeedZeroOnlyRelinks(t *testing.T) {
	b := NewBridgeSim(newRand(3), bridgeParticles)
	for range 400 {
		b.Step(1.0/60, 1)
	}
	before := append([]Particle(nil), b.Particles...)
	links := b.LinkCount

	b.Step(1.0/60, 0)

	for i := range before {
		if b.Particles[i] != before[i] {
			t.Fatalf("particle %d moved at speed 0", i)
		}
	}
	if len(b.Events) != 0 {
		t.Errorf("events = %d, want 0", len(b.Events))
	}
	if b.LinkCount != links {
		t.Errorf("links = %d, want %d", b.LinkCount, links)
	}
}

func TestBridgeSpeedScales(t *testing.T) {
	b := NewBridgeSim(newRand(4), 1)
	x0 := b.Particles[0].Pos.X
	b.Step(1.0/60, 2)
	got := b.Particles[0].Pos.X - x0
	want := 2 * b.Particles[0].Speed
	if d := got - want; d > 1e-9 || d < -1e-9 {
		t.Errorf("advance = %v, want %v", got, want)
	}
}

func TestBridgeMaxSpeedStaysBounded(t *testing.T) {
	b := NewBridgeSim(newRand(5), bridgeParticles)
	for step := range 500 {
		b.Step(maxFrameDt, maxSpeed)
		for i, p := range b.Particles {
			if math.IsNaN(p.Pos.X) || math.IsInf(p.Pos.X, 0) ||
				math.IsNaN(p.Pos.Y) || math.IsInf(p.Pos.Y, 0) ||
				math.IsNaN(p.Pos.Z) || math.IsInf(p.Pos.Z, 0) {
				t.Fatalf("step %d: particle %d diverged to %v", step, i, p.Pos)
			}
			if p.Kind == KindByte && p.Pos.X > bridgeTransmuteX {
				t.Fatalf("step %d: byte %d past the transmute line at x=%v", step, i, p.Pos.X)
			}
			if p.Pos.X > bridgeMaxX || p.Pos.Y > bridgeMaxY {
				t.Fatalf("step %d: particle %d out of bounds at %v", step, i, p.Pos)
			}
		}
		if b.LinkCount > maxLinks {
			t.Fatalf("step %d: links = %d, want at most %d", step, b.LinkCount, maxLinks)
		}
	}
}

func TestBridgeSceneReconcile(t *testing.T) {
	f := newFixture(800, 600)
	s := f.mount(t, SceneConfig{AnimationType: "bridge", Speed: 1, Seed: 9})
	defer s.Dispose()

	var events []SceneEvent
	s.SetEventSink(EventSinkFunc(func(e SceneEvent) { events = append(events, e) }))
	for i := range 900 {
		f.driver.Tick(float64(i) * 16)
	}

	sc := s.Scene().(*BridgeScene)
	for i, v := range sc.views {
		p := sc.Sim.Particles[i]
		if v.kind != p.Kind || v.node.Position != p.Pos {
			t.Fatalf("view %d out of sync", i)
		}
		want := ShapeLabel
		if p.Kind == KindNeuron {
			want = ShapeSphere
		}
		if v.node.Shape != want {
			t.Errorf("view %d shape = %d, want %d", i, v.node.Shape, want)
		}
	}
	if len(events) == 0 {
		t.Error("no events emitted")
	}
	if got := sc.links.Geometry.DrawCount; got != 2*sc.Sim.LinkCount {
		t.Errorf("link positions = %d, want %d", got, 2*sc.Sim.LinkCount)
	}
}

func TestKindString(t *testing.T) {
	if KindByte.String() != "byte" || KindNeuron.String() != "neuron" || Kind(9).String() != "unknown" {
		t.Error("unexpected kind names")
	}
}

// --- Proximity ---

func TestLinkWithin(t *testing.T) {
	pts := []r3.Vec{{}, {X: 1}, {X: 5}, {X: 5.5}}
	dst := make([]Segment, 10)
	n := LinkWithin(pts, 2, dst)
	if n != 2 {
		t.Fatalf("links = %d, want 2", n)
	}
	if dst[0] != (Segment{A: pts[0], B: pts[1]}) || dst[1] != (Segment{A: pts[2], B: pts[3]}) {
		t.Errorf("links = %v", dst[:n])
	}
}

func TestLinkWithinThresholdExclusive(t *testing.T) {
	pts := []r3.Vec{{}, {X: 3}}
	if n := LinkWithin(pts, 3, make([]Segment, 1)); n != 0 {
		t.Errorf("links = %d, want 0 at exactly the threshold", n)
	}
}

func TestLinkWithinCap(t *testing.T) {
	pts := make([]r3.Vec, 30)
	dst := make([]Segment, 7)
	if n := LinkWithin(pts, 1, dst); n != 7 {
		t.Errorf("links = %d, want 7", n)
	}
}

func TestSegmentsToPositions(t *testing.T) {
	segs := []Segment{{A: r3.Vec{X: 1}, B: r3.Vec{X: 2}}, {A: r3.Vec{Y: 1}, B: r3.Vec{Y: 2}}}
	dst := make([]r3.Vec, 3)
	if n := segmentsToPositions(segs, dst); n != 2 {
		t.Errorf("positions = %d, want 2", n)
	}
	if dst[0].X != 1 || dst[1].X != 2 {
		t.Errorf("positions = %v", dst)
	}
}
