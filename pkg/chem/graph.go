package chem

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/chemlayout/pkg/graph"
)

// CoordScale converts Ångström to layout units: a typical 1.5 Å bond maps to
// the engine's 50-unit spring length.
const CoordScale = 50.0 / 1.5

// SeedBondLength is the distance between consecutive atoms when a molecule
// without coordinates is seeded on a zig-zag chain.
const SeedBondLength = 50.0

// NodeID returns the graph node ID for atom index i.
func NodeID(i int) string { return "a" + strconv.Itoa(i) }

// Graph converts m to a layout graph. Atom i becomes node "a<i>" labeled
// with its symbol and charge; bonds become edges carrying their order.
//
// Coordinates are scaled by CoordScale with Y flipped so that molfile
// "up" is screen "up". Molecules without coordinates are seeded on a
// deterministic zig-zag so no two atoms start at the same point.
func (m *Molecule) Graph() graph.Graph {
	g := graph.Graph{
		Name:  m.Name,
		Nodes: make([]graph.Node, len(m.Atoms)),
		Edges: make([]graph.Edge, 0, len(m.Bonds)),
	}
	seeded := !m.HasCoordinates()
	for i, a := range m.Atoms {
		n := graph.Node{
			ID:    NodeID(i),
			Label: a.Label(),
			Meta:  map[string]any{graph.MetaSymbol: a.Symbol},
		}
		if a.Charge != 0 {
			n.Meta[graph.MetaCharge] = a.Charge
		}
		if seeded {
			n.X, n.Y = zigzag(i)
		} else {
			n.X, n.Y = a.X*CoordScale, -a.Y*CoordScale
		}
		g.Nodes[i] = n
	}
	for _, b := range m.Bonds {
		g.Edges = append(g.Edges, graph.Edge{From: NodeID(b.A), To: NodeID(b.B), Order: b.Order})
	}
	return g
}

// zigzag places atom i on a 120° chain with SeedBondLength spacing.
func zigzag(i int) (x, y float64) {
	dx := SeedBondLength * math.Cos(math.Pi/6)
	dy := SeedBondLength * math.Sin(math.Pi/6)
	return float64(i) * dx, float64(i%2) * dy
}

// FromGraph converts a layout graph back to a molecule, inverting the
// coordinate mapping of [Molecule.Graph]. The element symbol comes from the
// node's symbol metadata, falling back to its label and then its ID.
// Edges whose endpoints are not in the graph are dropped.
func FromGraph(g graph.Graph) *Molecule {
	m := &Molecule{Name: g.Name, Atoms: make([]Atom, len(g.Nodes))}
	for i, n := range g.Nodes {
		m.Atoms[i] = Atom{
			Symbol: nodeSymbol(n),
			X:      n.X / CoordScale,
			Y:      -n.Y / CoordScale,
			Charge: nodeCharge(n),
		}
	}

	index := g.Index()
	for _, e := range g.Edges {
		a, ok1 := index[e.From]
		b, ok2 := index[e.To]
		if !ok1 || !ok2 || a == b {
			continue
		}
		order := e.EffectiveOrder()
		aromatic := order == AromaticOrder
		if aromatic {
			m.Atoms[a].Aromatic, m.Atoms[b].Aromatic = true, true
		}
		m.Bonds = append(m.Bonds, Bond{A: a, B: b, Order: order, Aromatic: aromatic})
	}
	return m
}

func nodeSymbol(n graph.Node) string {
	if s, ok := n.Meta[graph.MetaSymbol].(string); ok && s != "" {
		return s
	}
	return n.DisplayLabel()
}

// nodeCharge reads the charge metadata, which is an int when built in
// process and a float64 after a JSON round trip.
func nodeCharge(n graph.Node) int {
	switch v := n.Meta[graph.MetaCharge].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		c, _ := strconv.Atoi(v)
		return c
	}
	return 0
}

// Graphs converts each molecule to a layout graph, naming unnamed ones
// "mol<i>".
func Graphs(mols []*Molecule) []graph.Graph {
	out := make([]graph.Graph, len(mols))
	for i, m := range mols {
		out[i] = m.Graph()
		if out[i].Name == "" {
			out[i].Name = fmt.Sprintf("mol%d", i+1)
		}
	}
	return out
}

// Graphs returns the reactant graphs followed by the product graphs.
func (r *Reaction) Graphs() []graph.Graph {
	return Graphs(r.Molecules())
}
