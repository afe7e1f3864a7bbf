package chem

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/chemlayout/pkg/graph"
)

func ethanol() *Molecule {
	m := &Molecule{Name: "ethanol"}
	c1 := m.AddAtom(Atom{Symbol: "C"})
	c2 := m.AddAtom(Atom{Symbol: "C", X: 1.5})
	o := m.AddAtom(Atom{Symbol: "O", X: 2.25, Y: 1.3})
	m.AddBond(c1, c2, 1, false)
	m.AddBond(c2, o, 1, false)
	return m
}

func TestAtomLabel(t *testing.T) {
	tests := []struct {
		atom Atom
		want string
	}{
		{Atom{Symbol: "C"}, "C"},
		{Atom{Symbol: "N", Charge: 1}, "N+"},
		{Atom{Symbol: "O", Charge: -1}, "O-"},
		{Atom{Symbol: "Fe", Charge: 3}, "Fe3+"},
		{Atom{Symbol: "S", Charge: -2}, "S2-"},
	}
	for _, tt := range tests {
		if got := tt.atom.Label(); got != tt.want {
			t.Errorf("Label(%+v) = %q, want %q", tt.atom, got, tt.want)
		}
	}
}

func TestMoleculeQueries(t *testing.T) {
	m := ethanol()

	if got := m.Neighbors(1); len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("Neighbors(1) = %v, want [0 2]", got)
	}
	if _, ok := m.BondBetween(2, 1); !ok {
		t.Error("BondBetween(2, 1) not found")
	}
	if _, ok := m.BondBetween(0, 2); ok {
		t.Error("BondBetween(0, 2) found a bond that does not exist")
	}
	if !m.HasCoordinates() {
		t.Error("HasCoordinates() = false")
	}
	if got := m.Formula(); got != "C2O" {
		t.Errorf("Formula() = %q, want C2O", got)
	}
}

func TestAddBondOutOfRange(t *testing.T) {
	m := &Molecule{}
	m.AddAtom(Atom{Symbol: "C"})
	if _, err := m.AddBond(0, 1, 1, false); !errors.Is(err, ErrAtomIndex) {
		t.Errorf("error = %v, want ErrAtomIndex", err)
	}
}

func TestBondOther(t *testing.T) {
	b := Bond{A: 3, B: 7}
	if o, ok := b.Other(3); !ok || o != 7 {
		t.Errorf("Other(3) = %d, %v", o, ok)
	}
	if _, ok := b.Other(5); ok {
		t.Error("Other(5) should fail")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := ethanol()
	c := m.Clone()
	c.Atoms[0].Symbol = "N"
	c.Bonds[0].Order = 2
	if m.Atoms[0].Symbol != "C" || m.Bonds[0].Order != 1 {
		t.Error("clone shares storage with original")
	}
}

func TestFormulaHillOrder(t *testing.T) {
	tests := []struct {
		counts map[string]int
		want   string
	}{
		{map[string]int{"C": 6, "H": 6}, "C6H6"},
		{map[string]int{"O": 1, "C": 2, "H": 6, "N": 1}, "C2H6NO"},
		{map[string]int{"Na": 1, "Cl": 1}, "ClNa"},
		{map[string]int{"H": 2, "O": 1}, "H2O"},
	}
	for _, tt := range tests {
		if got := hillFormula(tt.counts); got != tt.want {
			t.Errorf("hillFormula(%v) = %q, want %q", tt.counts, got, tt.want)
		}
	}
}

func TestMoleculeGraph(t *testing.T) {
	m := ethanol()
	m.Atoms[2].Charge = -1

	g := m.Graph()

	if g.Name != "ethanol" || g.NodeCount() != 3 || g.EdgeCount() != 2 {
		t.Fatalf("graph = %+v", g)
	}
	if g.Nodes[2].ID != "a2" || g.Nodes[2].Label != "O-" {
		t.Errorf("node 2 = %+v", g.Nodes[2])
	}
	if g.Nodes[2].Meta[graph.MetaSymbol] != "O" || g.Nodes[2].Meta[graph.MetaCharge] != -1 {
		t.Errorf("meta = %v", g.Nodes[2].Meta)
	}
	if got := g.Nodes[1].X; math.Abs(got-50) > 1e-9 {
		t.Errorf("1.5 Å bond mapped to %v units, want 50", got)
	}
	if g.Nodes[2].Y >= 0 {
		t.Errorf("Y not flipped: %v", g.Nodes[2].Y)
	}
	if g.Edges[0].From != "a0" || g.Edges[0].To != "a1" {
		t.Errorf("edge 0 = %+v", g.Edges[0])
	}
}

func TestMoleculeGraphSeedsPositions(t *testing.T) {
	m := &Molecule{}
	for range 4 {
		m.AddAtom(Atom{Symbol: "C"})
	}

	g := m.Graph()

	seen := map[[2]float64]bool{}
	for i, n := range g.Nodes {
		p := [2]float64{n.X, n.Y}
		if seen[p] {
			t.Fatalf("node %d shares position %v", i, p)
		}
		seen[p] = true
		if i > 0 {
			prev := g.Nodes[i-1]
			if d := math.Hypot(n.X-prev.X, n.Y-prev.Y); math.Abs(d-SeedBondLength) > 1e-9 {
				t.Errorf("seed spacing %d = %v, want %v", i, d, SeedBondLength)
			}
		}
	}
}

func TestFromGraphRoundTrip(t *testing.T) {
	m := ethanol()
	m.Atoms[0].Charge = 1
	m.AddBond(0, 2, AromaticOrder, true)

	g := m.Graph()
	// JSON turns int metadata into float64.
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	var decoded graph.Graph
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	decoded.Edges = append(decoded.Edges, graph.Edge{From: "a0", To: "ghost"})

	back := FromGraph(decoded)

	if len(back.Atoms) != 3 || len(back.Bonds) != 3 {
		t.Fatalf("atoms/bonds = %d/%d, want 3/3", len(back.Atoms), len(back.Bonds))
	}
	if back.Atoms[0].Charge != 1 || back.Atoms[2].Symbol != "O" {
		t.Errorf("atoms = %+v", back.Atoms)
	}
	for i := range m.Atoms {
		if math.Abs(back.Atoms[i].X-m.Atoms[i].X) > 1e-9 || math.Abs(back.Atoms[i].Y-m.Atoms[i].Y) > 1e-9 {
			t.Errorf("atom %d at (%v, %v), want (%v, %v)", i, back.Atoms[i].X, back.Atoms[i].Y, m.Atoms[i].X, m.Atoms[i].Y)
		}
	}
	if !back.Bonds[2].Aromatic || !back.Atoms[0].Aromatic {
		t.Error("aromatic order not restored")
	}
}

func TestFromGraphFallsBackToLabel(t *testing.T) {
	g := graph.Graph{Nodes: []graph.Node{{ID: "x", Label: "N"}, {ID: "Cl"}}}
	m := FromGraph(g)
	if m.Atoms[0].Symbol != "N" || m.Atoms[1].Symbol != "Cl" {
		t.Errorf("symbols = %q, %q", m.Atoms[0].Symbol, m.Atoms[1].Symbol)
	}
}

func TestReactionGraphs(t *testing.T) {
	r := &Reaction{
		Reactants: []*Molecule{ethanol(), {Atoms: []Atom{{Symbol: "O"}}}},
		Products:  []*Molecule{{Name: "acetaldehyde", Atoms: []Atom{{Symbol: "C"}}}},
	}

	gs := r.Graphs()

	if len(gs) != 3 {
		t.Fatalf("graphs = %d, want 3", len(gs))
	}
	want := []string{"ethanol", "mol2", "acetaldehyde"}
	for i, g := range gs {
		if g.Name != want[i] {
			t.Errorf("graph %d name = %q, want %q", i, g.Name, want[i])
		}
	}
}

func TestIsElement(t *testing.T) {
	for _, s := range []string{"C", "Cl", "Og", "H"} {
		if !IsElement(s) {
			t.Errorf("IsElement(%q) = false", s)
		}
	}
	for _, s := range []string{"", "c", "Xx", "CL"} {
		if IsElement(s) {
			t.Errorf("IsElement(%q) = true", s)
		}
	}
}
