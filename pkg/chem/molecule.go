package chem

import (
	"errors"
	"fmt"
)

// ErrAtomIndex is returned when a bond references an atom that does not exist.
var ErrAtomIndex = errors.New("atom index out of range")

// AromaticOrder is the bond order used for aromatic bonds.
const AromaticOrder = 1.5

// =============================================================================
// Atom
// =============================================================================

// Atom is an element with optional 3D coordinates in Ångström.
type Atom struct {
	Symbol   string
	X, Y, Z  float64
	Charge   int
	Isotope  int // Mass number, 0 when unspecified
	HCount   int // Explicit hydrogens (bracket atoms only)
	Aromatic bool
}

// Label returns the element symbol followed by a charge suffix, e.g. "N+",
// "O-" or "Fe3+".
func (a Atom) Label() string {
	switch {
	case a.Charge == 1:
		return a.Symbol + "+"
	case a.Charge == -1:
		return a.Symbol + "-"
	case a.Charge > 1:
		return fmt.Sprintf("%s%d+", a.Symbol, a.Charge)
	case a.Charge < -1:
		return fmt.Sprintf("%s%d-", a.Symbol, -a.Charge)
	default:
		return a.Symbol
	}
}

// =============================================================================
// Bond
// =============================================================================

// Bond connects two atoms by index.
type Bond struct {
	A, B     int
	Order    float64
	Aromatic bool
}

// Other returns the atom on the opposite side of the bond from i.
func (b Bond) Other(i int) (int, bool) {
	switch i {
	case b.A:
		return b.B, true
	case b.B:
		return b.A, true
	}
	return 0, false
}

// Has reports whether the bond touches atom i.
func (b Bond) Has(i int) bool { return b.A == i || b.B == i }

// =============================================================================
// Molecule
// =============================================================================

// Molecule is a set of atoms connected by bonds.
type Molecule struct {
	Name  string
	Atoms []Atom
	Bonds []Bond
}

// AddAtom appends an atom and returns its index.
func (m *Molecule) AddAtom(a Atom) int {
	m.Atoms = append(m.Atoms, a)
	return len(m.Atoms) - 1
}

// AddBond connects atoms a and b and returns the bond index.
func (m *Molecule) AddBond(a, b int, order float64, aromatic bool) (int, error) {
	if a < 0 || a >= len(m.Atoms) || b < 0 || b >= len(m.Atoms) {
		return 0, fmt.Errorf("bond %d-%d: %w", a, b, ErrAtomIndex)
	}
	m.Bonds = append(m.Bonds, Bond{A: a, B: b, Order: order, Aromatic: aromatic})
	return len(m.Bonds) - 1, nil
}

// Neighbors returns the indices of atoms bonded to atom i, in bond order.
func (m *Molecule) Neighbors(i int) []int {
	var out []int
	for _, b := range m.Bonds {
		if o, ok := b.Other(i); ok {
			out = append(out, o)
		}
	}
	return out
}

// BondBetween returns the first bond joining atoms a and b.
func (m *Molecule) BondBetween(a, b int) (Bond, bool) {
	for _, bond := range m.Bonds {
		if (bond.A == a && bond.B == b) || (bond.A == b && bond.B == a) {
			return bond, true
		}
	}
	return Bond{}, false
}

// HasCoordinates reports whether any atom carries a non-zero position.
func (m *Molecule) HasCoordinates() bool {
	for _, a := range m.Atoms {
		if a.X != 0 || a.Y != 0 || a.Z != 0 {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of m.
func (m *Molecule) Clone() *Molecule {
	return &Molecule{
		Name:  m.Name,
		Atoms: append([]Atom(nil), m.Atoms...),
		Bonds: append([]Bond(nil), m.Bonds...),
	}
}

// Formula returns the Hill-ordered element counts, e.g. "C2O" for ethanol's
// heavy atoms. Implicit hydrogens are not counted.
func (m *Molecule) Formula() string {
	counts := map[string]int{}
	for _, a := range m.Atoms {
		counts[a.Symbol]++
		if a.HCount > 0 {
			counts["H"] += a.HCount
		}
	}
	return hillFormula(counts)
}

// =============================================================================
// Reaction
// =============================================================================

// Reaction is a transformation from reactants to products.
type Reaction struct {
	Reactants []*Molecule
	Products  []*Molecule
}

// Molecules returns reactants followed by products.
func (r *Reaction) Molecules() []*Molecule {
	out := make([]*Molecule, 0, len(r.Reactants)+len(r.Products))
	out = append(out, r.Reactants...)
	return append(out, r.Products...)
}
