package layout

import (
	"math"

	"github.com/matzehuels/chemlayout/pkg/graph"
)

// Bounds is the axis-aligned rectangle enclosing a set of nodes.
// Y grows downward, as in SVG.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Width returns the horizontal span.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical span.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// CenterX returns the horizontal midpoint.
func (b Bounds) CenterX() float64 { return (b.MinX + b.MaxX) / 2 }

// CenterY returns the vertical midpoint.
func (b Bounds) CenterY() float64 { return (b.MinY + b.MaxY) / 2 }

// Expand returns b grown by m on every side.
func (b Bounds) Expand(m float64) Bounds {
	return Bounds{MinX: b.MinX - m, MinY: b.MinY - m, MaxX: b.MaxX + m, MaxY: b.MaxY + m}
}

// Union returns the smallest rectangle containing both b and o.
func (b Bounds) Union(o Bounds) Bounds {
	return Bounds{
		MinX: math.Min(b.MinX, o.MinX),
		MinY: math.Min(b.MinY, o.MinY),
		MaxX: math.Max(b.MaxX, o.MaxX),
		MaxY: math.Max(b.MaxY, o.MaxY),
	}
}

// ComputeBounds returns the bounding rectangle of nodes. The second result
// is false for an empty slice, in which case the rectangle is zero.
func ComputeBounds(nodes []graph.Node) (Bounds, bool) {
	if len(nodes) == 0 {
		return Bounds{}, false
	}
	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, n := range nodes {
		b.MinX = math.Min(b.MinX, n.X)
		b.MinY = math.Min(b.MinY, n.Y)
		b.MaxX = math.Max(b.MaxX, n.X)
		b.MaxY = math.Max(b.MaxY, n.Y)
	}
	return b, true
}

// SceneBounds returns the union of the bounds of all non-empty graphs.
func SceneBounds(graphs []graph.Graph) (Bounds, bool) {
	var (
		out   Bounds
		found bool
	)
	for i := range graphs {
		b, ok := ComputeBounds(graphs[i].Nodes)
		if !ok {
			continue
		}
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, found
}
