package slidefx

import (
	"time"
)

// debugStats holds per-frame timing and command metrics.
// Only populated when debug mode is enabled.
type debugStats struct {
	enabled bool
	start   time.Time

	traverseTime time.Duration
	sortTime     time.Duration
	submitTime   time.Duration
	commandCount int
	byType       [4]int
}

func (s *Session) beginStats() debugStats {
	if !globalDebug {
		return debugStats{}
	}
	return debugStats{enabled: true, start: time.Now()}
}

func (st *debugStats) lap() time.Duration {
	now := time.Now()
	d := now.Sub(st.start)
	st.start = now
	return d
}

func (st *debugStats) markTraverse() {
	if st.enabled {
		st.traverseTime = st.lap()
	}
}

func (st *debugStats) markSort() {
	if st.enabled {
		st.sortTime = st.lap()
	}
}

func (st *debugStats) markSubmit() {
	if st.enabled {
		st.submitTime = st.lap()
	}
}

// debugLog logs timing and command stats for the frame just drawn.
func (s *Session) debugLog(st debugStats) {
	if !st.enabled {
		return
	}
	st.commandCount, st.byType = countCommands(s.list.Commands)
	logger.Debug("frame",
		"session", s.ID,
		"traverse", st.traverseTime,
		"sort", st.sortTime,
		"submit", st.submitTime,
		"total", st.traverseTime+st.sortTime+st.submitTime,
		"commands", st.commandCount,
		"circles", st.byType[CommandCircle],
		"polygons", st.byType[CommandPolygon],
		"lines", st.byType[CommandLine],
		"texts", st.byType[CommandText],
		"resources", s.resources.len(),
	)
}

// debugMaxTreeDepth is the depth beyond which CheckTree warns.
const debugMaxTreeDepth = 32

// debugMaxChildCount is the child count beyond which CheckTree warns.
const debugMaxChildCount = 1000

// CheckTree logs a warning for every node under root that sits deeper than
// debugMaxTreeDepth or has more than debugMaxChildCount children. It returns
// the number of warnings.
func CheckTree(root *Node) int {
	return checkTree(root, 1)
}

func checkTree(n *Node, depth int) int {
	warnings := 0
	if depth > debugMaxTreeDepth {
		logger.Warn("tree depth exceeds threshold", "node", n.Name, "depth", depth, "threshold", debugMaxTreeDepth)
		warnings++
	}
	if len(n.children) > debugMaxChildCount {
		logger.Warn("node has too many children", "node", n.Name, "children", len(n.children), "threshold", debugMaxChildCount)
		warnings++
	}
	for _, c := range n.children {
		warnings += checkTree(c, depth+1)
	}
	return warnings
}

// countCommands returns the total command count and a per-type breakdown.
func countCommands(cmds []DrawCommand) (int, [4]int) {
	var by [4]int
	for i := range cmds {
		by[cmds[i].Type]++
	}
	return len(cmds), by
}
