package slidefx

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// CommandType identifies the kind of draw command.
type CommandType uint8

const (
	CommandCircle  CommandType = iota // filled disc
	CommandPolygon                    // filled convex quad
	CommandLine                       // stroked segment
	CommandText                       // label text centered on Points[0]
)

// DrawCommand is a single screen-space draw instruction emitted during scene
// traversal. Renderers draw the commands of a DrawList in order.
type DrawCommand struct {
	Type CommandType

	// Points holds the circle center, the line endpoints or the polygon
	// corners, in pixels. NumPoints says how many are set.
	Points    [4]Vec2
	NumPoints int

	// Radius is the circle radius in pixels.
	Radius float64
	// Width is the line width in pixels. Round lines get round caps.
	Width float64
	Round bool

	Color Color

	Text     string
	TextSize float64

	// Depth is the view-space distance used for back-to-front ordering.
	Depth float64

	// Geometry and Material are the resources backing this command.
	Geometry *Geometry
	Material *Material

	treeOrder int
}

// DrawList is the per-frame output of a session.
type DrawList struct {
	Width, Height int
	Background    Color
	Commands      []DrawCommand

	sortBuf []DrawCommand
}

// Reset empties the list, keeping its storage.
func (dl *DrawList) Reset() {
	dl.Commands = dl.Commands[:0]
}

// emitter walks a node tree and appends commands to a DrawList.
type emitter struct {
	cam       *Camera
	lights    []Light
	list      *DrawList
	resources *resourceSet
	treeOrder int
}

var boxFaces = [6]struct {
	normal  r3.Vec
	corners [4]int
}{
	{r3.Vec{X: 1}, [4]int{1, 3, 7, 5}},
	{r3.Vec{X: -1}, [4]int{0, 4, 6, 2}},
	{r3.Vec{Y: 1}, [4]int{2, 6, 7, 3}},
	{r3.Vec{Y: -1}, [4]int{0, 1, 5, 4}},
	{r3.Vec{Z: 1}, [4]int{4, 5, 7, 6}},
	{r3.Vec{Z: -1}, [4]int{0, 2, 3, 1}},
}

// traverse updates world transforms for the subtree and emits commands for
// visible nodes. Invisible nodes hide their whole subtree.
func (e *emitter) traverse(n *Node, parent affine3, parentAlpha float64) {
	n.worldTransform = multiplyAffine3(parent, computeLocalTransform(n))
	n.worldAlpha = parentAlpha * n.Alpha
	if !n.Visible {
		return
	}
	if n.Shape != ShapeGroup && n.Geometry != nil && n.Material != nil {
		e.resources.track(n.Geometry)
		e.resources.track(n.Material)
		e.emit(n)
	}
	for _, c := range n.children {
		e.traverse(c, n.worldTransform, n.worldAlpha)
	}
}

func (e *emitter) push(n *Node, cmd DrawCommand) {
	e.treeOrder++
	cmd.treeOrder = e.treeOrder
	cmd.Geometry = n.Geometry
	cmd.Material = n.Material
	e.list.Commands = append(e.list.Commands, cmd)
}

func (e *emitter) emit(n *Node) {
	g, m := n.Geometry, n.Material
	alpha := m.Opacity * n.worldAlpha
	if alpha <= 0 {
		return
	}
	wt := &n.worldTransform

	switch n.Shape {
	case ShapeSphere:
		c := wt.origin()
		sp, depth, scale, ok := e.cam.Project(c)
		if !ok {
			return
		}
		col := shade(e.lights, m, c, r3.Sub(e.cam.Position, c))
		e.push(n, DrawCommand{
			Type:      CommandCircle,
			Points:    [4]Vec2{sp},
			NumPoints: 1,
			Radius:    g.Radius * wt.maxScale() * scale,
			Color:     col.WithAlpha(alpha),
			Depth:     depth,
		})

	case ShapeBox:
		var corners [8]r3.Vec
		hx, hy, hz := g.Width/2, g.Height/2, g.Depth/2
		for i := range corners {
			local := r3.Vec{X: -hx, Y: -hy, Z: -hz}
			if i&1 != 0 {
				local.X = hx
			}
			if i&2 != 0 {
				local.Y = hy
			}
			if i&4 != 0 {
				local.Z = hz
			}
			corners[i] = wt.apply(local)
		}
		for _, f := range boxFaces {
			normal := wt.applyDir(f.normal)
			center := r3.Scale(0.25, r3.Add(r3.Add(corners[f.corners[0]], corners[f.corners[1]]),
				r3.Add(corners[f.corners[2]], corners[f.corners[3]])))
			if r3.Dot(normal, r3.Sub(e.cam.Position, center)) <= 0 {
				continue
			}
			var cmd DrawCommand
			cmd.Type = CommandPolygon
			cmd.NumPoints = 4
			visible := true
			for k, ci := range f.corners {
				sp, _, _, ok := e.cam.Project(corners[ci])
				if !ok {
					visible = false
					break
				}
				cmd.Points[k] = sp
			}
			if !visible {
				continue
			}
			_, depth, _, _ := e.cam.Project(center)
			cmd.Depth = depth
			cmd.Color = shade(e.lights, m, center, normal).WithAlpha(alpha)
			e.push(n, cmd)
		}

	case ShapeCapsule:
		half := g.Height / 2
		a := wt.apply(r3.Vec{Y: -half})
		b := wt.apply(r3.Vec{Y: half})
		pa, da, sa, okA := e.cam.Project(a)
		pb, db, sb, okB := e.cam.Project(b)
		if !okA || !okB {
			return
		}
		mid := r3.Scale(0.5, r3.Add(a, b))
		col := shade(e.lights, m, mid, r3.Sub(e.cam.Position, mid))
		e.push(n, DrawCommand{
			Type:      CommandLine,
			Points:    [4]Vec2{pa, pb},
			NumPoints: 2,
			Width:     g.Radius * math.Max(wt.axisScale(0), wt.axisScale(2)) * (sa + sb),
			Round:     true,
			Color:     col.WithAlpha(alpha),
			Depth:     (da + db) / 2,
		})

	case ShapeLines:
		count := g.visibleCount() &^ 1
		col := shade(e.lights, m, wt.origin(), r3.Vec{}).WithAlpha(alpha)
		for i := 0; i < count; i += 2 {
			a := wt.apply(g.Positions[i])
			b := wt.apply(g.Positions[i+1])
			pa, da, _, okA := e.cam.Project(a)
			pb, db, _, okB := e.cam.Project(b)
			if !okA || !okB {
				continue
			}
			e.push(n, DrawCommand{
				Type:      CommandLine,
				Points:    [4]Vec2{pa, pb},
				NumPoints: 2,
				Width:     math.Max(g.LineWidth, 1),
				Color:     col,
				Depth:     (da + db) / 2,
			})
		}

	case ShapePoints:
		count := g.visibleCount()
		size := g.PointSize * wt.maxScale() / 2
		col := shade(e.lights, m, wt.origin(), r3.Vec{}).WithAlpha(alpha)
		for i := 0; i < count; i++ {
			sp, depth, scale, ok := e.cam.Project(wt.apply(g.Positions[i]))
			if !ok {
				continue
			}
			e.push(n, DrawCommand{
				Type:      CommandCircle,
				Points:    [4]Vec2{sp},
				NumPoints: 1,
				Radius:    math.Max(size*scale, 0.5),
				Color:     col,
				Depth:     depth,
			})
		}

	case ShapeLabel:
		if g.Text == "" {
			return
		}
		sp, depth, scale, ok := e.cam.Project(wt.origin())
		if !ok {
			return
		}
		e.push(n, DrawCommand{
			Type:      CommandText,
			Points:    [4]Vec2{sp},
			NumPoints: 1,
			Text:      g.Text,
			TextSize:  g.LabelHeight * wt.maxScale() * scale,
			Color:     m.Color.WithAlpha(alpha),
			Depth:     depth,
		})

	default:
		panic("slidefx: unknown shape")
	}
}

// --- Merge sort ---

// commandLessOrEqual orders far commands first. Equal depths keep tree order.
func commandLessOrEqual(a, b *DrawCommand) bool {
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	return a.treeOrder <= b.treeOrder
}

// sortCommands sorts dl.Commands in place using dl.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations once the buffer reaches its
// high-water mark.
func (dl *DrawList) sortCommands() {
	n := len(dl.Commands)
	if n <= 1 {
		return
	}
	if cap(dl.sortBuf) < n {
		dl.sortBuf = make([]DrawCommand, n)
	}
	dl.sortBuf = dl.sortBuf[:n]

	a := dl.Commands
	b := dl.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			mid := min(i+width, n)
			hi := min(i+2*width, n)
			mergeRun(a, b, i, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(dl.Commands, dl.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []DrawCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], src[i:mid])
	copy(dst[k:], src[j:hi])
}
