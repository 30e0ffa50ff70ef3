package slidefx

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"gonum.org/v1/gonum/spatial/r3"
)

// TweenGroup animates up to 4 float64 fields simultaneously. Create one via
// the convenience constructors (TweenPosition, TweenAlpha, TweenValue) and
// call Update(dt) each frame. The group writes values straight into the
// target fields. If the target node is disposed, the group stops immediately.
//
// There is no global animation manager; sessions and scenes call Update
// themselves.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	target *Node
	Done   bool
}

// Update advances all tweens by dt seconds and writes values to the target
// fields. If the target node has been disposed, Done is set to true and no
// writes occur.
func (g *TweenGroup) Update(dt float32) {
	if g.Done {
		return
	}

	if g.target != nil && g.target.IsDisposed() {
		g.Done = true
		return
	}

	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(dt)
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// TweenPosition animates node.Position to `to`.
func TweenPosition(node *Node, to r3.Vec, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := TweenVec(&node.Position, to, duration, fn)
	g.target = node
	return g
}

// TweenVec animates the three components of *v to `to`.
func TweenVec(v *r3.Vec, to r3.Vec, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 3}
	g.tweens[0] = gween.New(float32(v.X), float32(to.X), duration, fn)
	g.tweens[1] = gween.New(float32(v.Y), float32(to.Y), duration, fn)
	g.tweens[2] = gween.New(float32(v.Z), float32(to.Z), duration, fn)
	g.fields[0] = &v.X
	g.fields[1] = &v.Y
	g.fields[2] = &v.Z
	return g
}

// TweenAlpha animates node.Alpha to the target value.
func TweenAlpha(node *Node, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := TweenValue(&node.Alpha, node.Alpha, to, duration, fn)
	g.target = node
	return g
}

// TweenValue animates an arbitrary field from `from` to `to`.
func TweenValue(field *float64, from, to float64, duration float32, fn ease.TweenFunc) *TweenGroup {
	g := &TweenGroup{count: 1}
	g.tweens[0] = gween.New(float32(from), float32(to), duration, fn)
	g.fields[0] = field
	return g
}

// easeWindow maps p through fn over [0, 1]. Used for pose easing where the
// progress value is owned by a state machine rather than a clock.
func easeWindow(fn ease.TweenFunc, p float64) float64 {
	p = clamp01(p)
	return float64(fn(float32(p), 0, 1, 1))
}
