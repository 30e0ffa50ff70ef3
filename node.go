package slidefx

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Shape selects what a Node draws.
type Shape uint8

const (
	ShapeGroup   Shape = iota // no visual output, only a transform for children
	ShapeSphere               // shaded disc of Geometry.Radius
	ShapeBox                  // six shaded faces
	ShapeCapsule              // round-capped segment along local Y
	ShapeLines                // segment pairs from Geometry.Positions
	ShapePoints               // world-sized dots from Geometry.Positions
	ShapeLabel                // camera-facing text
)

// nodeIDCounter is a plain counter; sessions run on a single loop.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the scene graph element. One flat struct serves every shape.
type Node struct {
	ID    uint32
	Name  string
	Shape Shape

	Parent   *Node
	children []*Node

	// Local transform. Rotation is Euler XYZ in radians.
	Position r3.Vec
	Rotation r3.Vec
	Scale    r3.Vec

	Visible bool
	Alpha   float64

	Geometry *Geometry
	Material *Material

	worldTransform affine3
	worldAlpha     float64

	disposed bool
}

func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Scale = r3.Vec{X: 1, Y: 1, Z: 1}
	n.Alpha = 1
	n.Visible = true
}

// NewGroup creates a node with no visual representation.
func NewGroup(name string) *Node {
	n := &Node{Name: name, Shape: ShapeGroup}
	nodeDefaults(n)
	return n
}

// NewMeshNode creates a node drawing geom with mat as the given shape.
func NewMeshNode(name string, shape Shape, geom *Geometry, mat *Material) *Node {
	n := &Node{Name: name, Shape: shape, Geometry: geom, Material: mat}
	nodeDefaults(n)
	return n
}

// NewSphere is shorthand for a ShapeSphere node.
func NewSphere(name string, geom *Geometry, mat *Material) *Node {
	return NewMeshNode(name, ShapeSphere, geom, mat)
}

// NewBox is shorthand for a ShapeBox node.
func NewBox(name string, geom *Geometry, mat *Material) *Node {
	return NewMeshNode(name, ShapeBox, geom, mat)
}

// NewLabel creates a text label node.
func NewLabel(name, text string, height float64, mat *Material) *Node {
	return NewMeshNode(name, ShapeLabel, NewLabelGeometry(text, height), mat)
}

// --- Tree manipulation ---

// AddChild appends child to this node's children, reparenting it if needed.
// Panics if child is nil or an ancestor of this node.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("slidefx: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("slidefx: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("slidefx: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
}

// RemoveFromParent detaches this node from its parent. No-op without one.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// WorldPosition returns the node origin in world space as of the last render.
func (n *Node) WorldPosition() r3.Vec {
	return n.worldTransform.origin()
}

// Dispose detaches this node and recursively disposes its subtree.
// Geometries and materials are not released here; they may be shared, and
// the owning session releases them on teardown.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Geometry = nil
	n.Material = nil
}

// IsDisposed reports whether Dispose has been called.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child without clearing child.Parent.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}
