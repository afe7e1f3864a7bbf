package graph

import (
	"encoding/json"
	"fmt"
)

// Meta keys written by the chem package and read back by renderers.
const (
	MetaSymbol = "symbol"
	MetaCharge = "charge"
)

// =============================================================================
// Graph - Positioned Node-Link Graph
// =============================================================================

// Graph is a set of positioned nodes and undirected edges.
//
// Node order is irrelevant to the layout engine; it is preserved for
// deterministic serialization. Edges may reference node IDs that are not
// present ("dangling" edges): they survive serialization and are skipped
// by the layout engine.
type Graph struct {
	Name  string `json:"name,omitempty"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// =============================================================================
// Node
// =============================================================================

// Node is a positioned point. Only ID, X and Y are read by the layout engine.
type Node struct {
	ID    string         `json:"id"`
	X     float64        `json:"x"`
	Y     float64        `json:"y"`
	Label string         `json:"label,omitempty"` // Display label (defaults to ID)
	Meta  map[string]any `json:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// =============================================================================
// Edge - Undirected Connection
// =============================================================================

// Edge is an unordered pair of node IDs. Order is the bond order; zero is
// treated as a single bond by renderers.
type Edge struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Order float64 `json:"order,omitempty"`
}

// EffectiveOrder returns Order, or 1 when unset.
func (e Edge) EffectiveOrder() float64 {
	if e.Order <= 0 {
		return 1
	}
	return e.Order
}

// =============================================================================
// Graph Methods
// =============================================================================

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges, dangling edges included.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// IsEmpty reports whether the graph has no nodes.
func (g *Graph) IsEmpty() bool { return len(g.Nodes) == 0 }

// Index returns a map from node ID to position in g.Nodes.
// When IDs repeat, the first occurrence wins.
func (g *Graph) Index() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, ok := idx[n.ID]; !ok {
			idx[n.ID] = i
		}
	}
	return idx
}

// Node returns a pointer to the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// DanglingEdges returns the edges whose endpoints are not both present.
func (g *Graph) DanglingEdges() []Edge {
	idx := g.Index()
	var out []Edge
	for _, e := range g.Edges {
		_, okFrom := idx[e.From]
		_, okTo := idx[e.To]
		if !okFrom || !okTo {
			out = append(out, e)
		}
	}
	return out
}

// Translate shifts every node by (dx, dy).
func (g *Graph) Translate(dx, dy float64) {
	for i := range g.Nodes {
		g.Nodes[i].X += dx
		g.Nodes[i].Y += dy
	}
}

// Clone returns a deep copy of g. Metadata maps are copied shallowly.
func (g *Graph) Clone() Graph {
	out := Graph{
		Name:  g.Name,
		Nodes: make([]Node, len(g.Nodes)),
		Edges: make([]Edge, len(g.Edges)),
	}
	for i, n := range g.Nodes {
		n.Meta = copyMeta(n.Meta)
		out.Nodes[i] = n
	}
	copy(out.Edges, g.Edges)
	return out
}

// Validate checks structural constraints that serialization relies on:
// non-empty, unique node IDs and non-empty edge endpoints. Dangling edges
// are not an error.
func (g *Graph) Validate() error {
	seen := make(map[string]bool, len(g.Nodes))
	for i, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: %w", i, ErrEmptyNodeID)
		}
		if seen[n.ID] {
			return fmt.Errorf("node %s: %w", n.ID, ErrDuplicateNodeID)
		}
		seen[n.ID] = true
	}
	for i, e := range g.Edges {
		if e.From == "" || e.To == "" {
			return fmt.Errorf("edge %d: %w", i, ErrEmptyEdgeEndpoint)
		}
	}
	return nil
}

// copyMeta creates a shallow copy of metadata to avoid mutation.
func copyMeta(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	result := make(map[string]any, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

// =============================================================================
// Document - Multi-Graph Input
// =============================================================================

// Document is the on-disk input format. It holds one or more graphs.
//
// A bare graph object ({"nodes": [...], "edges": [...]}) is also accepted
// and decodes to a single-graph document.
type Document struct {
	Graphs []Graph `json:"graphs"`
}

// UnmarshalJSON accepts both {"graphs": [...]} and a bare graph.
func (d *Document) UnmarshalJSON(data []byte) error {
	var probe struct {
		Graphs []Graph          `json:"graphs"`
		Nodes  *json.RawMessage `json:"nodes"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Graphs != nil || probe.Nodes == nil {
		d.Graphs = probe.Graphs
		return nil
	}
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return err
	}
	d.Graphs = []Graph{g}
	return nil
}
