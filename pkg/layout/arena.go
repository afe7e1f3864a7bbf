package layout

import "github.com/matzehuels/chemlayout/pkg/graph"

// arena is the index-based working set for one simulation. Positions live in
// flat slices addressed by node index; springs hold resolved index pairs.
// Edges whose endpoints do not resolve are dropped at construction.
type arena struct {
	x, y    []float64
	dx, dy  []float64
	springs []spring
	dropped int
}

type spring struct{ a, b int }

func newArena(g *graph.Graph) *arena {
	n := len(g.Nodes)
	a := &arena{
		x:  make([]float64, n),
		y:  make([]float64, n),
		dx: make([]float64, n),
		dy: make([]float64, n),
	}
	for i, node := range g.Nodes {
		a.x[i], a.y[i] = node.X, node.Y
	}

	index := g.Index()
	a.springs = make([]spring, 0, len(g.Edges))
	for _, e := range g.Edges {
		from, ok1 := index[e.From]
		to, ok2 := index[e.To]
		if !ok1 || !ok2 {
			a.dropped++
			continue
		}
		if from == to {
			continue
		}
		a.springs = append(a.springs, spring{from, to})
	}
	return a
}

func (a *arena) size() int { return len(a.x) }

// resetDeltas zeroes the per-iteration displacement accumulators.
func (a *arena) resetDeltas() {
	clear(a.dx)
	clear(a.dy)
}

// applyDeltas moves every node by its accumulated displacement at once.
func (a *arena) applyDeltas() {
	for i := range a.x {
		a.x[i] += a.dx[i]
		a.y[i] += a.dy[i]
	}
}

// writeBack copies positions into the graph's nodes.
func (a *arena) writeBack(g *graph.Graph) {
	for i := range g.Nodes {
		g.Nodes[i].X, g.Nodes[i].Y = a.x[i], a.y[i]
	}
}
