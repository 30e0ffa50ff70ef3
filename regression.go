package slidefx

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"
)

// DataPoint is one sample of the regression dataset.
type DataPoint struct {
	X, Y float64
}

// Dataset and line layout.
const (
	datasetMinX  = -5
	datasetMaxX  = 5
	datasetNoise = 3.0

	lineStartX = -6.0
	lineEndX   = 6.0

	curveTension  = 0.5
	curveSegments = 100
)

// Slider ranges for the interactive controls.
var (
	SlopeRange     = Range{Min: -2, Max: 2}
	InterceptRange = Range{Min: -5, Max: 5}
)

// GenerateDataset returns y = x + noise for x = -5..5, with noise uniform in
// [-1.5, 1.5).
func GenerateDataset(rng *rand.Rand) []DataPoint {
	data := make([]DataPoint, 0, datasetMaxX-datasetMinX+1)
	for x := datasetMinX; x <= datasetMaxX; x++ {
		noise := (rng.Float64() - 0.5) * datasetNoise
		data = append(data, DataPoint{X: float64(x), Y: float64(x) + noise})
	}
	return data
}

// LinePrimitive places a unit-length segment along local Y so that it spans
// the fitted line: Center is the midpoint, Length the Y scale and Rotation
// the Z rotation.
type LinePrimitive struct {
	Center   r3.Vec
	Length   float64
	Rotation float64
	Visible  bool
}

// Overlay is the reactive state of the regression visualization. Setters
// only record values; Refresh recomputes the derived geometry and the error
// metric in place.
type Overlay struct {
	data []DataPoint

	slope, intercept float64
	showLine         bool
	showErrors       bool
	showPoints       bool
	showOverfit      bool
	color            Color

	dirty bool
	mse   float64

	bestSlope, bestIntercept float64

	// Points holds one position per data point.
	Points []r3.Vec
	// Errors holds a (data, prediction) pair per data point.
	Errors []r3.Vec
	// Curve holds the overfit spline through the sorted data as segment
	// pairs. It never changes.
	Curve []r3.Vec
	// Line is the fitted-line primitive.
	Line LinePrimitive
}

// NewOverlay builds the overlay over a copy of data with slope 1,
// intercept 0, the line and points shown, and computes the first refresh.
func NewOverlay(data []DataPoint) *Overlay {
	o := &Overlay{
		data:       slices.Clone(data),
		slope:      1,
		showLine:   true,
		showPoints: true,
		color:      ColorOrDefault(DefaultColor),
		dirty:      true,
		Points:     make([]r3.Vec, len(data)),
		Errors:     make([]r3.Vec, 2*len(data)),
	}
	for i, p := range o.data {
		o.Points[i] = r3.Vec{X: p.X, Y: p.Y}
	}

	sorted := slices.Clone(o.Points)
	slices.SortStableFunc(sorted, func(a, b r3.Vec) int { return cmp.Compare(a.X, b.X) })
	o.Curve = CatmullRomSegments(sorted, curveTension, curveSegments)

	if len(o.data) >= 2 {
		xs := make([]float64, len(o.data))
		ys := make([]float64, len(o.data))
		for i, p := range o.data {
			xs[i], ys[i] = p.X, p.Y
		}
		o.bestIntercept, o.bestSlope = stat.LinearRegression(xs, ys, nil, false)
	}

	o.Refresh()
	return o
}

// Data returns the dataset. The returned slice MUST NOT be mutated.
func (o *Overlay) Data() []DataPoint { return o.data }

// Slope returns the current slope.
func (o *Overlay) Slope() float64 { return o.slope }

// Intercept returns the current intercept.
func (o *Overlay) Intercept() float64 { return o.intercept }

// MSE returns the mean squared residual as of the last Refresh.
func (o *Overlay) MSE() float64 { return o.mse }

// Dirty reports whether a setter changed something since the last Refresh.
func (o *Overlay) Dirty() bool { return o.dirty }

// BestFit returns the least-squares slope and intercept of the dataset.
func (o *Overlay) BestFit() (slope, intercept float64) {
	return o.bestSlope, o.bestIntercept
}

// ShowLine reports whether the fitted line is shown.
func (o *Overlay) ShowLine() bool { return o.showLine }

// ShowErrors reports whether the residual segments are shown.
func (o *Overlay) ShowErrors() bool { return o.showErrors }

// ShowPoints reports whether the data points are shown.
func (o *Overlay) ShowPoints() bool { return o.showPoints }

// ShowOverfit reports whether the overfit curve is shown.
func (o *Overlay) ShowOverfit() bool { return o.showOverfit }

// Color returns the data point color.
func (o *Overlay) Color() Color { return o.color }

func (o *Overlay) setFloat(dst *float64, v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) || *dst == v {
		return
	}
	*dst = v
	o.dirty = true
}

func (o *Overlay) setBool(dst *bool, v bool) {
	if *dst == v {
		return
	}
	*dst = v
	o.dirty = true
}

// SetSlope sets the line slope. Non-finite values are ignored.
func (o *Overlay) SetSlope(v float64) { o.setFloat(&o.slope, v) }

// SetIntercept sets the line intercept. Non-finite values are ignored.
func (o *Overlay) SetIntercept(v float64) { o.setFloat(&o.intercept, v) }

// SetShowLine toggles the fitted line.
func (o *Overlay) SetShowLine(v bool) { o.setBool(&o.showLine, v) }

// SetShowErrors toggles the residual segments.
func (o *Overlay) SetShowErrors(v bool) { o.setBool(&o.showErrors, v) }

// SetShowPoints toggles the data points.
func (o *Overlay) SetShowPoints(v bool) { o.setBool(&o.showPoints, v) }

// SetShowOverfit toggles the overfit curve.
func (o *Overlay) SetShowOverfit(v bool) { o.setBool(&o.showOverfit, v) }

// SetColor sets the data point color.
func (o *Overlay) SetColor(c Color) {
	if o.color == c {
		return
	}
	o.color = c
	o.dirty = true
}

// Refresh recomputes the line primitive, the residual segments and the MSE
// if anything changed since the last call, and reports whether it did. It
// runs in O(n) and does not allocate.
func (o *Overlay) Refresh() bool {
	if !o.dirty {
		return false
	}
	o.dirty = false

	start := r3.Vec{X: lineStartX, Y: o.slope*lineStartX + o.intercept}
	end := r3.Vec{X: lineEndX, Y: o.slope*lineEndX + o.intercept}
	dir := r3.Sub(end, start)
	length := r3.Norm(dir)
	o.Line.Center = r3.Scale(0.5, r3.Add(start, end))
	o.Line.Length = length
	if length < epsilon {
		o.Line.Visible = false
	} else {
		o.Line.Rotation = math.Atan2(dir.Y, dir.X) - math.Pi/2
		o.Line.Visible = o.showLine
	}

	var total float64
	for i, p := range o.data {
		pred := o.slope*p.X + o.intercept
		o.Errors[2*i] = r3.Vec{X: p.X, Y: p.Y}
		o.Errors[2*i+1] = r3.Vec{X: p.X, Y: pred}
		r := p.Y - pred
		total += r * r
	}
	if len(o.data) > 0 {
		o.mse = total / float64(len(o.data))
	} else {
		o.mse = 0
	}
	return true
}

// --- Scene ---

// RegressionScene is the interactive line-fitting visualization. Hosts
// drive it through Overlay.
type RegressionScene struct {
	Overlay *Overlay

	line    *Node
	errors  *Node
	points  *Node
	overfit *Node
}

// NewRegressionScene creates the scene. The dataset is drawn on Build from
// the session random source.
func NewRegressionScene() *RegressionScene {
	return &RegressionScene{}
}

// Stage implements Scene.
func (sc *RegressionScene) Stage() Stage {
	return Stage{
		FOV:        50,
		Far:        100,
		Position:   r3.Vec{X: -3, Z: 15},
		Background: ColorWhite,
		Orbit:      &OrbitConfig{EnableRotate: true},
	}
}

// Build implements Scene.
func (sc *RegressionScene) Build(s *Session) {
	sc.Overlay = NewOverlay(GenerateDataset(s.Rand()))
	sc.Overlay.SetColor(s.Color())
	o := sc.Overlay

	s.Root.AddChild(NewAxes("axes", 6))
	grid := NewGrid("grid", 12, 12, NewUnlitMaterial(MustColor("#efefef")))
	grid.Rotation.X = math.Pi / 2
	s.Root.AddChild(grid)

	sc.points = NewMeshNode("points", ShapePoints, NewPointsGeometry(o.Points, 0.4), NewUnlitMaterial(o.Color()))
	s.Root.AddChild(sc.points)

	sc.line = NewMeshNode("line", ShapeCapsule, NewCapsuleGeometry(0.08, 1), NewUnlitMaterial(MustColor("#ff4757")))
	s.Root.AddChild(sc.line)

	errMat := NewUnlitMaterial(MustColor("#ff0000"))
	errMat.Opacity = 0.8
	sc.errors = NewMeshNode("errors", ShapeLines, NewLineGeometry(o.Errors, 1), errMat)
	s.Root.AddChild(sc.errors)

	sc.overfit = NewMeshNode("overfit", ShapeLines, NewLineGeometry(o.Curve, 3), NewUnlitMaterial(MustColor("#ffa500")))
	s.Root.AddChild(sc.overfit)

	o.Refresh()
	sc.apply()
}

// Update implements Scene.
func (sc *RegressionScene) Update(s *Session, fr Frame) {
	if sc.Overlay.Refresh() {
		sc.apply()
	}
}

// apply copies overlay state onto nodes. Buffers are shared, so only
// transforms, visibility and color need updating.
func (sc *RegressionScene) apply() {
	o := sc.Overlay
	sc.line.Position = o.Line.Center
	sc.line.Scale.Y = o.Line.Length
	sc.line.Rotation.Z = o.Line.Rotation
	sc.line.Visible = o.Line.Visible
	sc.errors.Visible = o.ShowErrors()
	sc.points.Visible = o.ShowPoints()
	sc.points.Material.Color = o.Color()
	sc.overfit.Visible = o.ShowOverfit()
}
