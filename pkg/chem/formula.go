package chem

import (
	"slices"
	"strconv"
	"strings"
)

// hillFormula renders element counts in Hill order: C, then H, then the rest
// alphabetically. Without carbon every element is alphabetical.
func hillFormula(counts map[string]int) string {
	var keys []string
	for k := range counts {
		if k == "C" || (k == "H" && counts["C"] > 0) {
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if counts["C"] > 0 {
		head := []string{"C"}
		if counts["H"] > 0 {
			head = append(head, "H")
		}
		keys = append(head, keys...)
	}

	var sb strings.Builder
	for _, k := range keys {
		sb.WriteString(k)
		if n := counts[k]; n > 1 {
			sb.WriteString(strconv.Itoa(n))
		}
	}
	return sb.String()
}

// elements lists every symbol accepted inside SMILES brackets and SDF atom
// blocks.
var elements = func() map[string]bool {
	const table = "H He Li Be B C N O F Ne Na Mg Al Si P S Cl Ar K Ca Sc Ti V Cr Mn Fe Co Ni Cu Zn " +
		"Ga Ge As Se Br Kr Rb Sr Y Zr Nb Mo Tc Ru Rh Pd Ag Cd In Sn Sb Te I Xe Cs Ba La Ce Pr Nd " +
		"Pm Sm Eu Gd Tb Dy Ho Er Tm Yb Lu Hf Ta W Re Os Ir Pt Au Hg Tl Pb Bi Po At Rn Fr Ra Ac Th " +
		"Pa U Np Pu Am Cm Bk Cf Es Fm Md No Lr Rf Db Sg Bh Hs Mt Ds Rg Cn Nh Fl Mc Lv Ts Og"
	m := map[string]bool{}
	for _, s := range strings.Fields(table) {
		m[s] = true
	}
	return m
}()

// IsElement reports whether s is a known element symbol. The wildcard "*"
// and the SDF query symbols "A", "Q", "L" and "R#" are not elements.
func IsElement(s string) bool { return elements[s] }
