package layout

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/chemlayout/pkg/graph"
)

// Scale multiplies all coordinates of nodes by
// min(availW/w, availH/h, maxScale) and returns the factor, where w and h
// are the extents of the nodes' bounding box. A zero extent is replaced by
// [DegenerateExtent].
//
// Scaling is about the origin, so callers center the nodes on (0, 0)
// first. Empty input and a non-positive available area leave positions
// unchanged and return 1. logger may be nil.
func Scale(nodes []graph.Node, availW, availH, maxScale float64, logger *log.Logger) float64 {
	b, ok := ComputeBounds(nodes)
	if !ok {
		return 1
	}
	if availW <= 0 || availH <= 0 {
		if logger != nil {
			logger.Warn("no drawable area, skipping scale", "available_width", availW, "available_height", availH)
		}
		return 1
	}

	w, h := b.Width(), b.Height()
	if w == 0 {
		w = DegenerateExtent
	}
	if h == 0 {
		h = DegenerateExtent
	}
	if logger != nil && (b.Width() == 0 || b.Height() == 0) {
		logger.Debug("degenerate extent substituted", "width", b.Width(), "height", b.Height())
	}

	s := min(availW/w, availH/h, maxScale)
	for i := range nodes {
		nodes[i].X *= s
		nodes[i].Y *= s
	}
	return s
}

// Center translates nodes so their bounding-box center lands on (cx, cy).
// Centering an already centered set is a no-op.
func Center(nodes []graph.Node, cx, cy float64) {
	b, ok := ComputeBounds(nodes)
	if !ok {
		return
	}
	dx, dy := cx-b.CenterX(), cy-b.CenterY()
	for i := range nodes {
		nodes[i].X += dx
		nodes[i].Y += dy
	}
}
