package slidefx

import "gonum.org/v1/gonum/spatial/r3"

// Resource is a renderer-side allocation (vertex buffers, textures) that a
// session must release on teardown.
type Resource interface {
	ResourceID() uint32
}

var resourceIDCounter uint32

func nextResourceID() uint32 {
	resourceIDCounter++
	return resourceIDCounter
}

// Geometry describes the shape data a node draws. Which fields matter depends
// on the node's Shape.
type Geometry struct {
	id uint32

	// Radius is used by spheres and capsules.
	Radius float64
	// Width, Height and Depth are box extents. Height is also the capsule
	// segment length between cap centers.
	Width, Height, Depth float64

	// Positions holds vertex data for lines (pairs) and points. Callers may
	// rewrite it in place; the renderer reads it every frame.
	Positions []r3.Vec
	// DrawCount limits how many positions are drawn. Negative draws all.
	DrawCount int
	// LineWidth is the stroke width in pixels for lines.
	LineWidth float64
	// PointSize is the world-space diameter of each point.
	PointSize float64

	// Text is the label content; LabelHeight its world-space height.
	Text        string
	LabelHeight float64
}

// ResourceID implements Resource.
func (g *Geometry) ResourceID() uint32 { return g.id }

// visibleCount returns the number of positions to draw.
func (g *Geometry) visibleCount() int {
	if g.DrawCount < 0 || g.DrawCount > len(g.Positions) {
		return len(g.Positions)
	}
	return g.DrawCount
}

// NewSphereGeometry creates a sphere of the given radius.
func NewSphereGeometry(radius float64) *Geometry {
	return &Geometry{id: nextResourceID(), Radius: radius, DrawCount: -1}
}

// NewBoxGeometry creates an axis-aligned box centered on the node origin.
func NewBoxGeometry(w, h, d float64) *Geometry {
	return &Geometry{id: nextResourceID(), Width: w, Height: h, Depth: d, DrawCount: -1}
}

// NewCapsuleGeometry creates a capsule along local Y: two caps of radius r
// whose centers are length apart, centered on the node origin.
func NewCapsuleGeometry(radius, length float64) *Geometry {
	return &Geometry{id: nextResourceID(), Radius: radius, Height: length, DrawCount: -1}
}

// NewLineGeometry creates a line-segment buffer. positions holds segment
// endpoint pairs and is used without copying.
func NewLineGeometry(positions []r3.Vec, width float64) *Geometry {
	return &Geometry{id: nextResourceID(), Positions: positions, LineWidth: width, DrawCount: -1}
}

// NewPointsGeometry creates a point cloud. positions is used without copying.
func NewPointsGeometry(positions []r3.Vec, size float64) *Geometry {
	return &Geometry{id: nextResourceID(), Positions: positions, PointSize: size, DrawCount: -1}
}

// NewLabelGeometry creates a billboard text label of the given world height.
func NewLabelGeometry(text string, height float64) *Geometry {
	return &Geometry{id: nextResourceID(), Text: text, LabelHeight: height, DrawCount: -1}
}

// Material controls how a node is colored.
type Material struct {
	id uint32

	Color   Color
	Opacity float64
	// Emissive adds a light-independent fraction of Color.
	Emissive float64
	// Unlit skips lighting entirely.
	Unlit bool
}

// ResourceID implements Resource.
func (m *Material) ResourceID() uint32 { return m.id }

// NewMaterial creates a lit, opaque material.
func NewMaterial(c Color) *Material {
	return &Material{id: nextResourceID(), Color: c, Opacity: 1}
}

// NewUnlitMaterial creates a material that ignores scene lighting.
func NewUnlitMaterial(c Color) *Material {
	return &Material{id: nextResourceID(), Color: c, Opacity: 1, Unlit: true}
}

// resourceSet records the resources a session has submitted to its renderer,
// in first-use order, so teardown can release each exactly once.
type resourceSet struct {
	index map[uint32]struct{}
	items []Resource
}

func (s *resourceSet) track(r Resource) {
	if r == nil {
		return
	}
	id := r.ResourceID()
	if _, ok := s.index[id]; ok {
		return
	}
	if s.index == nil {
		s.index = make(map[uint32]struct{})
	}
	s.index[id] = struct{}{}
	s.items = append(s.items, r)
}

func (s *resourceSet) len() int {
	return len(s.items)
}

// releaseAll calls release for every tracked resource and empties the set.
func (s *resourceSet) releaseAll(release func(Resource)) {
	for _, r := range s.items {
		release(r)
	}
	s.items = nil
	s.index = nil
}
