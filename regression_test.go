package slidefx

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

func testDataset() []DataPoint {
	return []DataPoint{{-2, -1}, {-1, -1.5}, {0, 0.5}, {1, 1}, {2, 2.5}}
}

func TestGenerateDataset(t *testing.T) {
	data := GenerateDataset(newRand(1))
	if len(data) != 11 {
		t.Fatalf("points = %d, want 11", len(data))
	}
	for i, p := range data {
		if p.X != float64(i-5) {
			t.Errorf("data[%d].X = %v, want %d", i, p.X, i-5)
		}
		if math.Abs(p.Y-p.X) > datasetNoise/2 {
			t.Errorf("data[%d] noise = %v, too large", i, p.Y-p.X)
		}
	}
}

func TestOverlayDefaults(t *testing.T) {
	o := NewOverlay(testDataset())
	if o.Slope() != 1 || o.Intercept() != 0 {
		t.Errorf("line = %v, %v; want 1, 0", o.Slope(), o.Intercept())
	}
	if !o.ShowLine() || !o.ShowPoints() || o.ShowErrors() || o.ShowOverfit() {
		t.Error("unexpected default visibility")
	}
	if o.Dirty() {
		t.Error("new overlay should be refreshed")
	}
	if !o.Line.Visible {
		t.Error("line hidden")
	}
}

func TestOverlayMSE(t *testing.T) {
	data := testDataset()
	o := NewOverlay(data)
	o.SetSlope(0.5)
	o.SetIntercept(-0.25)
	o.Refresh()

	var want float64
	for _, p := range data {
		r := p.Y - (0.5*p.X - 0.25)
		want += r * r
	}
	want /= float64(len(data))
	if math.Abs(o.MSE()-want) > 1e-12 {
		t.Errorf("MSE = %v, want %v", o.MSE(), want)
	}
}

func TestOverlayErrorSegments(t *testing.T) {
	o := NewOverlay(testDataset())
	o.SetSlope(2)
	o.Refresh()
	want := []r3.Vec{
		{X: -2, Y: -1}, {X: -2, Y: -4},
		{X: -1, Y: -1.5}, {X: -1, Y: -2},
		{X: 0, Y: 0.5}, {X: 0, Y: 0},
		{X: 1, Y: 1}, {X: 1, Y: 2},
		{X: 2, Y: 2.5}, {X: 2, Y: 4},
	}
	if diff := cmp.Diff(want, o.Errors, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Errors mismatch (-want +got):\n%s", diff)
	}
}

func TestOverlayBestFitMatchesGonum(t *testing.T) {
	data := GenerateDataset(newRand(2))
	o := NewOverlay(data)
	xs := make([]float64, len(data))
	ys := make([]float64, len(data))
	for i, p := range data {
		xs[i], ys[i] = p.X, p.Y
	}
	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	m, b := o.BestFit()
	if m != beta || b != alpha {
		t.Errorf("BestFit = %v, %v; want %v, %v", m, b, beta, alpha)
	}

	// The least-squares line beats any nudged line.
	o.SetSlope(m)
	o.SetIntercept(b)
	o.Refresh()
	best := o.MSE()
	o.SetSlope(m + 0.1)
	o.Refresh()
	if o.MSE() <= best {
		t.Errorf("nudged MSE %v not worse than best %v", o.MSE(), best)
	}
}

func TestOverlayTogglesKeepValues(t *testing.T) {
	o := NewOverlay(testDataset())
	o.SetSlope(0.7)
	o.SetIntercept(1.2)
	o.Refresh()
	mse := o.MSE()

	o.SetShowErrors(true)
	o.SetShowOverfit(true)
	o.SetShowPoints(false)
	o.SetShowLine(false)
	if !o.Dirty() {
		t.Error("toggles should mark the overlay dirty")
	}
	o.Refresh()

	if o.Slope() != 0.7 || o.Intercept() != 1.2 {
		t.Errorf("line = %v, %v; want 0.7, 1.2", o.Slope(), o.Intercept())
	}
	if o.MSE() != mse {
		t.Errorf("MSE = %v, want %v", o.MSE(), mse)
	}
	if o.Line.Visible {
		t.Error("line still visible")
	}
}

func TestOverlayIgnoresNonFinite(t *testing.T) {
	o := NewOverlay(testDataset())
	o.SetSlope(math.NaN())
	o.SetIntercept(math.Inf(-1))
	if o.Dirty() {
		t.Error("non-finite values marked the overlay dirty")
	}
	if o.Slope() != 1 || o.Intercept() != 0 {
		t.Errorf("line = %v, %v; want 1, 0", o.Slope(), o.Intercept())
	}
}

func TestOverlaySameValueNotDirty(t *testing.T) {
	o := NewOverlay(testDataset())
	o.SetSlope(1)
	o.SetShowLine(true)
	o.SetColor(o.Color())
	if o.Dirty() {
		t.Error("unchanged values marked the overlay dirty")
	}
	if o.Refresh() {
		t.Error("Refresh reported work on a clean overlay")
	}
}

func TestOverlayRefreshNoAllocs(t *testing.T) {
	o := NewOverlay(GenerateDataset(newRand(3)))
	v := 0.0
	allocs := testing.AllocsPerRun(100, func() {
		v += 0.01
		o.SetSlope(v)
		o.Refresh()
	})
	if allocs != 0 {
		t.Errorf("allocs = %v, want 0", allocs)
	}
}

func TestOverlayLinePrimitive(t *testing.T) {
	o := NewOverlay(testDataset())
	o.SetSlope(0)
	o.SetIntercept(2)
	o.Refresh()
	want := LinePrimitive{Center: r3.Vec{Y: 2}, Length: 12, Rotation: -math.Pi / 2, Visible: true}
	if diff := cmp.Diff(want, o.Line, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Line mismatch (-want +got):\n%s", diff)
	}
}

func TestOverlayEmptyDataset(t *testing.T) {
	o := NewOverlay(nil)
	if o.MSE() != 0 {
		t.Errorf("MSE = %v, want 0", o.MSE())
	}
	if m, b := o.BestFit(); m != 0 || b != 0 {
		t.Errorf("BestFit = %v, %v; want 0, 0", m, b)
	}
}

func TestOverlayCopiesData(t *testing.T) {
	data := testDataset()
	o := NewOverlay(data)
	data[0].Y = 100
	if o.Data()[0].Y == 100 {
		t.Error("overlay shares the caller's slice")
	}
}

func TestOverlayCurveThroughData(t *testing.T) {
	data := []DataPoint{{2, 1}, {-1, 3}, {0, 0}, {1, -1}}
	o := NewOverlay(data)
	if len(o.Curve) != 2*curveSegments {
		t.Fatalf("curve positions = %d, want %d", len(o.Curve), 2*curveSegments)
	}
	first, last := o.Curve[0], o.Curve[len(o.Curve)-1]
	if !vecNear(first, r3.Vec{X: -1, Y: 3}, 1e-12) || !vecNear(last, r3.Vec{X: 2, Y: 1}, 1e-12) {
		t.Errorf("curve ends = %v, %v", first, last)
	}
}

func TestRegressionSceneApply(t *testing.T) {
	f := newFixture(800, 600)
	s := f.mount(t, SceneConfig{AnimationType: "linear-regression", Color: "#ff0000", Speed: 1, Seed: 5})
	defer s.Dispose()

	sc := s.Scene().(*RegressionScene)
	if sc.points.Material.Color != MustColor("#ff0000") {
		t.Errorf("point color = %v", sc.points.Material.Color)
	}
	sc.Overlay.SetShowErrors(true)
	sc.Overlay.SetSlope(-0.5)
	f.driver.Tick(0)

	if !sc.errors.Visible {
		t.Error("errors hidden after toggle")
	}
	if sc.line.Scale.Y != sc.Overlay.Line.Length {
		t.Errorf("line length = %v, want %v", sc.line.Scale.Y, sc.Overlay.Line.Length)
	}
	if sc.line.Rotation.Z != sc.Overlay.Line.Rotation {
		t.Errorf("line rotation = %v, want %v", sc.line.Rotation.Z, sc.Overlay.Line.Rotation)
	}
}

// --- Curves ---

func TestCatmullRomPassesThroughControlPoints(t *testing.T) {
	pts := []r3.Vec{{X: 0}, {X: 1, Y: 2}, {X: 2, Y: -1}, {X: 4, Y: 0}}
	for i, p := range pts {
		u := float64(i) / float64(len(pts)-1)
		if got := CatmullRomPoint(pts, 0.5, u); !vecNear(got, p, 1e-12) {
			t.Errorf("t=%v: %v, want %v", u, got, p)
		}
	}
}

func TestCatmullRomDegenerate(t *testing.T) {
	if got := CatmullRomPoint(nil, 0.5, 0.3); got != (r3.Vec{}) {
		t.Errorf("empty = %v", got)
	}
	one := []r3.Vec{{X: 3}}
	if got := CatmullRomPoint(one, 0.5, 0.3); got != one[0] {
		t.Errorf("single = %v", got)
	}
	if CatmullRomSegments(one, 0.5, 10) != nil {
		t.Error("single point should have no segments")
	}
	if CatmullRomSegments([]r3.Vec{{}, {X: 1}}, 0.5, 0) != nil {
		t.Error("zero segments should yield nil")
	}
}

func TestCatmullRomStraightLine(t *testing.T) {
	pts := []r3.Vec{{X: 0}, {X: 1}, {X: 2}}
	got := CatmullRomPoint(pts, 0.5, 0.25)
	if !vecNear(got, r3.Vec{X: 0.5}, 1e-12) {
		t.Errorf("midpoint = %v, want (0.5, 0, 0)", got)
	}
}

func TestOverlayDefaultMSEIsNoiseVariance(t *testing.T) {
	data := GenerateDataset(newRand(6))
	o := NewOverlay(data)
	noise := make([]float64, len(data))
	for i, p := range data {
		noise[i] = p.Y - p.X
	}
	mean, variance := stat.PopMeanVariance(noise, nil)
	// Residuals of y = x are the noise itself.
	if want := variance + mean*mean; math.Abs(o.MSE()-want) > 1e-9 {
		t.Errorf("MSE = %v, want %v", o.MSE(), want)
	}
	if math.Abs(o.MSE()-variance) > mean*mean+1e-9 {
		t.Errorf("MSE = %v, too far from the noise variance %v", o.MSE(), variance)
	}
}
