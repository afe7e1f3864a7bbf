package smiles

import (
	"strconv"
	"strings"

	"github.com/matzehuels/chemlayout/pkg/chem"
)

// Write renders m as SMILES. Atoms are visited depth first from the lowest
// unvisited index; disconnected parts are joined with '.'. The output is
// not canonical: equal molecules with different atom order may produce
// different strings.
func Write(m *chem.Molecule) string {
	if m == nil || len(m.Atoms) == 0 {
		return ""
	}
	w := newWriter(m)
	var parts []string
	for i := range m.Atoms {
		if w.visited[i] {
			continue
		}
		w.discover(i, -1)
		var sb strings.Builder
		w.emit(&sb, i)
		parts = append(parts, sb.String())
	}
	return strings.Join(parts, ".")
}

type child struct{ bond, atom int }

type writer struct {
	m        *chem.Molecule
	adj      [][]int // bond indices per atom
	visited  []bool
	children [][]child
	closures [][]int // ring-closure bond indices per atom, in discovery order
	seen     map[int]bool
	open     map[int]int // bond index -> ring number
	inUse    map[int]bool
}

func newWriter(m *chem.Molecule) *writer {
	n := len(m.Atoms)
	w := &writer{
		m:        m,
		adj:      make([][]int, n),
		visited:  make([]bool, n),
		children: make([][]child, n),
		closures: make([][]int, n),
		seen:     map[int]bool{},
		open:     map[int]int{},
		inUse:    map[int]bool{},
	}
	for bi, b := range m.Bonds {
		if b.A == b.B || b.A < 0 || b.B < 0 || b.A >= n || b.B >= n {
			continue
		}
		w.adj[b.A] = append(w.adj[b.A], bi)
		w.adj[b.B] = append(w.adj[b.B], bi)
	}
	return w
}

// discover builds the spanning tree and collects ring-closure bonds.
func (w *writer) discover(atom, parentBond int) {
	w.visited[atom] = true
	for _, bi := range w.adj[atom] {
		if bi == parentBond || w.seen[bi] {
			continue
		}
		other, _ := w.m.Bonds[bi].Other(atom)
		w.seen[bi] = true
		if w.visited[other] {
			w.closures[other] = append(w.closures[other], bi)
			w.closures[atom] = append(w.closures[atom], bi)
			continue
		}
		w.children[atom] = append(w.children[atom], child{bond: bi, atom: other})
		w.discover(other, bi)
	}
}

func (w *writer) emit(sb *strings.Builder, atom int) {
	sb.WriteString(atomText(w.m.Atoms[atom]))
	for _, bi := range w.closures[atom] {
		if num, ok := w.open[bi]; ok {
			sb.WriteString(ringText(num))
			delete(w.open, bi)
			delete(w.inUse, num)
			continue
		}
		num := w.nextRing()
		w.open[bi] = num
		w.inUse[num] = true
		sb.WriteString(w.bondText(bi))
		sb.WriteString(ringText(num))
	}
	kids := w.children[atom]
	for i, c := range kids {
		last := i == len(kids)-1
		if !last {
			sb.WriteByte('(')
		}
		sb.WriteString(w.bondText(c.bond))
		w.emit(sb, c.atom)
		if !last {
			sb.WriteByte(')')
		}
	}
}

func (w *writer) nextRing() int {
	for n := 1; ; n++ {
		if !w.inUse[n] {
			return n
		}
	}
}

func ringText(n int) string {
	if n < 10 {
		return strconv.Itoa(n)
	}
	return "%" + strconv.Itoa(n)
}

// bondText returns the bond symbol, omitting implicit ones.
func (w *writer) bondText(bi int) string {
	b := w.m.Bonds[bi]
	bothAromatic := w.m.Atoms[b.A].Aromatic && w.m.Atoms[b.B].Aromatic
	switch {
	case b.Order == 2:
		return "="
	case b.Order == 3:
		return "#"
	case b.Aromatic || b.Order == chem.AromaticOrder:
		if bothAromatic {
			return ""
		}
		return ":"
	case bothAromatic:
		return "-"
	default:
		return ""
	}
}

// atomText writes an organic-subset atom bare and everything else in
// brackets.
func atomText(a chem.Atom) string {
	sym := a.Symbol
	if a.Aromatic {
		sym = strings.ToLower(sym)
	}
	bare := a.Charge == 0 && a.Isotope == 0 && a.HCount == 0
	if bare && (sym == "*" || (a.Aromatic && aromaticOrganic[sym]) || (!a.Aromatic && organic[sym])) {
		return sym
	}

	var sb strings.Builder
	sb.WriteByte('[')
	if a.Isotope > 0 {
		sb.WriteString(strconv.Itoa(a.Isotope))
	}
	sb.WriteString(sym)
	if a.HCount > 0 {
		sb.WriteByte('H')
		if a.HCount > 1 {
			sb.WriteString(strconv.Itoa(a.HCount))
		}
	}
	switch {
	case a.Charge == 1:
		sb.WriteByte('+')
	case a.Charge == -1:
		sb.WriteByte('-')
	case a.Charge > 1:
		sb.WriteString("+" + strconv.Itoa(a.Charge))
	case a.Charge < -1:
		sb.WriteString("-" + strconv.Itoa(-a.Charge))
	}
	sb.WriteByte(']')
	return sb.String()
}
