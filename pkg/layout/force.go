package layout

import (
	"math"

	"github.com/matzehuels/chemlayout/pkg/graph"
)

// goldenAngle spreads fallback directions for coincident nodes.
var goldenAngle = math.Pi * (3 - math.Sqrt(5))

// SimulationStats summarizes a [Simulate] run.
type SimulationStats struct {
	Iterations   int
	Springs      int
	DroppedEdges int
}

// Simulate runs cfg.Iterations passes of the force model over g and writes the
// resulting positions back into g.Nodes.
//
// Each pass accumulates two contributions for every node before moving any:
//
//   - Repulsion: for each unordered pair closer than MinDistance, a push of
//     RepulsionCoefficient * (MinDistance - d) / d along the pair axis.
//   - Springs: for each edge whose length deviates from SpringLength by more
//     than SpringTolerance, a correction of
//     SpringCoefficient * (d - SpringLength) / d toward the rest length.
//
// d is floored at DistanceEpsilon. Nodes at exactly the same position are
// separated along a deterministic per-pair direction. Edges with an endpoint
// missing from g.Nodes are ignored.
func Simulate(g *graph.Graph, cfg Config) SimulationStats {
	a := newArena(g)
	stats := SimulationStats{Springs: len(a.springs), DroppedEdges: a.dropped}
	if a.size() == 0 {
		return stats
	}
	for range cfg.Iterations {
		a.resetDeltas()
		a.repel(cfg.MinDistance)
		a.pull(cfg.SpringLength)
		a.applyDeltas()
		stats.Iterations++
	}
	a.writeBack(g)
	return stats
}

// repel accumulates pairwise repulsion into the displacement buffers.
func (a *arena) repel(minDistance float64) {
	n := a.size()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			ux, uy, d := a.axis(i, j)
			if d >= minDistance {
				continue
			}
			f := RepulsionCoefficient * (minDistance - d) / d
			a.dx[i] -= f * ux
			a.dy[i] -= f * uy
			a.dx[j] += f * ux
			a.dy[j] += f * uy
		}
	}
}

// pull accumulates spring corrections into the displacement buffers.
func (a *arena) pull(length float64) {
	for _, s := range a.springs {
		ux, uy, d := a.axis(s.a, s.b)
		if math.Abs(d-length) <= SpringTolerance {
			continue
		}
		f := SpringCoefficient * (d - length) / d
		a.dx[s.a] += f * ux
		a.dy[s.a] += f * uy
		a.dx[s.b] -= f * ux
		a.dy[s.b] -= f * uy
	}
}

// axis returns the unit vector from node i to node j and their distance
// floored at DistanceEpsilon.
func (a *arena) axis(i, j int) (ux, uy, d float64) {
	vx, vy := a.x[j]-a.x[i], a.y[j]-a.y[i]
	raw := math.Hypot(vx, vy)
	d = math.Max(raw, DistanceEpsilon)
	if raw == 0 {
		lo, hi := min(i, j), max(i, j)
		theta := goldenAngle * float64(lo*31+hi)
		ux, uy = math.Cos(theta), math.Sin(theta)
		if i > j {
			ux, uy = -ux, -uy
		}
		return ux, uy, d
	}
	return vx / raw, vy / raw, d
}
