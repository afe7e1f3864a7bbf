package smiles

import (
	"strings"

	"github.com/matzehuels/chemlayout/pkg/chem"
	"github.com/matzehuels/chemlayout/pkg/errors"
)

// organic lists the elements that may appear outside brackets.
var organic = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
}

// aromaticOrganic lists the aromatic (lowercase) forms allowed outside
// brackets.
var aromaticOrganic = map[string]bool{
	"b": true, "c": true, "n": true, "o": true, "p": true, "s": true,
}

// aromaticBracket lists additional aromatic forms allowed inside brackets.
var aromaticBracket = map[string]bool{"se": true, "as": true, "te": true}

type bondSpec struct {
	order    float64
	aromatic bool
	set      bool
}

type ringBond struct {
	atom int
	bond bondSpec
}

type parser struct {
	src      string
	pos      int
	mol      *chem.Molecule
	prev     int
	branches []int
	rings    map[int]ringBond
	pending  bondSpec
}

// Parse reads a SMILES string into a single molecule. Dot-separated
// fragments become disconnected parts of the same molecule.
//
// Supported: the organic subset outside brackets, aromatic lowercase atoms,
// bracket atoms with isotope, hydrogen count, charge and (ignored)
// chirality and atom class, bond symbols - = # : / \, branches, and ring
// closures written as a digit or %nn.
func Parse(s string) (*chem.Molecule, error) {
	if err := errors.ValidateSMILES(s); err != nil {
		return nil, err
	}
	p := &parser{src: s, prev: -1, mol: &chem.Molecule{}, rings: map[int]ringBond{}}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.mol, nil
}

// ParseFragments splits s on '.' and parses each fragment as its own
// molecule. Ring closures cannot span a dot.
func ParseFragments(s string) ([]*chem.Molecule, error) {
	if err := errors.ValidateSMILES(s); err != nil {
		return nil, err
	}
	parts := strings.Split(s, ".")
	out := make([]*chem.Molecule, 0, len(parts))
	for i, part := range parts {
		if part == "" {
			return nil, errors.New(errors.ErrCodeInvalidSMILES, "empty fragment %d in %q", i+1, s)
		}
		m, err := Parse(part)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// ParseReaction reads reaction SMILES: "reactants>>products" or
// "reactants>agents>products". Agents are parsed for validity and dropped.
// Each side is a dot-separated list of molecules; an empty side is allowed.
func ParseReaction(s string) (*chem.Reaction, error) {
	if err := errors.ValidateSMILES(s); err != nil {
		return nil, err
	}
	parts := strings.Split(s, ">")
	if len(parts) != 3 {
		return nil, errors.New(errors.ErrCodeInvalidSMILES, "reaction SMILES needs exactly two '>' separators")
	}

	side := func(part, what string) ([]*chem.Molecule, error) {
		if part == "" {
			return nil, nil
		}
		mols, err := ParseFragments(part)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidSMILES, err, "%s", what)
		}
		return mols, nil
	}

	reactants, err := side(parts[0], "reactants")
	if err != nil {
		return nil, err
	}
	if _, err := side(parts[1], "agents"); err != nil {
		return nil, err
	}
	products, err := side(parts[2], "products")
	if err != nil {
		return nil, err
	}
	if len(reactants) == 0 && len(products) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSMILES, "reaction has no molecules")
	}
	return &chem.Reaction{Reactants: reactants, Products: products}, nil
}

// IsReaction reports whether s looks like reaction SMILES.
func IsReaction(s string) bool { return strings.Contains(s, ">") }

// =============================================================================
// Parser
// =============================================================================

func (p *parser) fail(format string, args ...any) error {
	args = append(args, p.pos+1)
	return errors.New(errors.ErrCodeInvalidSMILES, format+" at position %d", args...)
}

func (p *parser) run() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '-' || c == '=' || c == '#' || c == ':' || c == '/' || c == '\\':
			if p.pending.set {
				return p.fail("two bond symbols in a row")
			}
			p.pending = bondFor(c)
			p.pos++
		case c == '(':
			if p.prev < 0 {
				return p.fail("branch without previous atom")
			}
			if p.pending.set {
				return p.fail("bond symbol before branch")
			}
			p.branches = append(p.branches, p.prev)
			p.pos++
		case c == ')':
			if len(p.branches) == 0 {
				return p.fail("unbalanced parentheses")
			}
			if p.pending.set {
				return p.fail("bond symbol without atom")
			}
			p.prev = p.branches[len(p.branches)-1]
			p.branches = p.branches[:len(p.branches)-1]
			p.pos++
		case c == '.':
			if p.pending.set {
				return p.fail("bond symbol before '.'")
			}
			if len(p.branches) > 0 {
				return p.fail("'.' inside a branch")
			}
			p.prev = -1
			p.pos++
		case c == '%' || isDigit(c):
			if err := p.ring(); err != nil {
				return err
			}
		case c == '[':
			if err := p.bracketAtom(); err != nil {
				return err
			}
		case isLetter(c) || c == '*':
			if err := p.organicAtom(); err != nil {
				return err
			}
		default:
			return p.fail("unexpected character %q", c)
		}
	}

	switch {
	case len(p.branches) > 0:
		return errors.New(errors.ErrCodeInvalidSMILES, "unbalanced parentheses: %d unclosed branch(es)", len(p.branches))
	case len(p.rings) > 0:
		return errors.New(errors.ErrCodeInvalidSMILES, "unclosed ring(s): %d", len(p.rings))
	case p.pending.set:
		return errors.New(errors.ErrCodeInvalidSMILES, "trailing bond symbol")
	case len(p.mol.Atoms) == 0:
		return errors.New(errors.ErrCodeInvalidSMILES, "no atoms")
	}
	return nil
}

func bondFor(c byte) bondSpec {
	switch c {
	case '=':
		return bondSpec{order: 2, set: true}
	case '#':
		return bondSpec{order: 3, set: true}
	case ':':
		return bondSpec{order: chem.AromaticOrder, aromatic: true, set: true}
	default:
		return bondSpec{order: 1, set: true}
	}
}

// ring handles a ring-closure number, opening or closing it.
func (p *parser) ring() error {
	if p.prev < 0 {
		return p.fail("ring closure without previous atom")
	}
	num := int(p.src[p.pos] - '0')
	width := 1
	if p.src[p.pos] == '%' {
		if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+1]) || !isDigit(p.src[p.pos+2]) {
			return p.fail("'%%' must be followed by two digits")
		}
		num = int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
		width = 3
	}

	open, ok := p.rings[num]
	if !ok {
		p.rings[num] = ringBond{atom: p.prev, bond: p.pending}
		p.pending = bondSpec{}
		p.pos += width
		return nil
	}

	if open.atom == p.prev {
		return p.fail("ring %d closes on its own atom", num)
	}
	spec := p.pending
	if open.bond.set {
		if spec.set && spec.order != open.bond.order {
			return p.fail("conflicting bond orders on ring %d", num)
		}
		spec = open.bond
	}
	if _, dup := p.mol.BondBetween(open.atom, p.prev); dup {
		return p.fail("ring %d duplicates an existing bond", num)
	}
	p.bond(open.atom, p.prev, spec)
	delete(p.rings, num)
	p.pending = bondSpec{}
	p.pos += width
	return nil
}

// organicAtom reads an unbracketed atom.
func (p *parser) organicAtom() error {
	if p.src[p.pos] == '*' {
		p.pos++
		p.addAtom(chem.Atom{Symbol: "*"})
		return nil
	}
	if p.pos+1 < len(p.src) {
		if two := p.src[p.pos : p.pos+2]; organic[two] {
			p.pos += 2
			p.addAtom(chem.Atom{Symbol: two})
			return nil
		}
	}
	one := p.src[p.pos : p.pos+1]
	switch {
	case organic[one]:
		p.pos++
		p.addAtom(chem.Atom{Symbol: one})
		return nil
	case aromaticOrganic[one]:
		p.pos++
		p.addAtom(chem.Atom{Symbol: strings.ToUpper(one), Aromatic: true})
		return nil
	}
	return p.fail("unknown element %q outside brackets", one)
}

// bracketAtom reads [isotope? symbol chiral? hcount? charge? class?].
func (p *parser) bracketAtom() error {
	end := strings.IndexByte(p.src[p.pos:], ']')
	if end < 0 {
		return p.fail("unterminated bracket atom")
	}
	body := p.src[p.pos+1 : p.pos+end]
	start := p.pos
	p.pos += end + 1

	var a chem.Atom
	i := 0
	for i < len(body) && isDigit(body[i]) {
		a.Isotope = a.Isotope*10 + int(body[i]-'0')
		i++
	}

	switch {
	case i < len(body) && body[i] == '*':
		a.Symbol = "*"
		i++
	case i < len(body) && isUpper(body[i]):
		sym := body[i : i+1]
		if i+1 < len(body) && isLower(body[i+1]) && chem.IsElement(body[i:i+2]) {
			sym = body[i : i+2]
		}
		if !chem.IsElement(sym) {
			return errors.New(errors.ErrCodeInvalidSMILES, "unknown element %q at position %d", sym, start+1)
		}
		a.Symbol = sym
		i += len(sym)
	case i < len(body) && isLower(body[i]):
		sym := body[i : i+1]
		if i+1 < len(body) && aromaticBracket[body[i:i+2]] {
			sym = body[i : i+2]
		} else if !aromaticOrganic[sym] {
			return errors.New(errors.ErrCodeInvalidSMILES, "unknown aromatic element %q at position %d", sym, start+1)
		}
		a.Symbol = strings.ToUpper(sym[:1]) + sym[1:]
		a.Aromatic = true
		i += len(sym)
	default:
		return errors.New(errors.ErrCodeInvalidSMILES, "bracket atom without element at position %d", start+1)
	}

	for i < len(body) && body[i] == '@' {
		i++
	}
	if i < len(body) && body[i] == 'H' {
		i++
		a.HCount = 1
		if i < len(body) && isDigit(body[i]) {
			a.HCount = int(body[i] - '0')
			i++
		}
	}
	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		sym := body[i]
		i++
		n := 1
		switch {
		case i < len(body) && isDigit(body[i]):
			n = 0
			for i < len(body) && isDigit(body[i]) {
				n = n*10 + int(body[i]-'0')
				i++
			}
		default:
			for i < len(body) && body[i] == sym {
				n++
				i++
			}
		}
		a.Charge = sign * n
	}
	if i < len(body) && body[i] == ':' {
		i++
		for i < len(body) && isDigit(body[i]) {
			i++
		}
	}
	if i != len(body) {
		return errors.New(errors.ErrCodeInvalidSMILES, "unexpected %q in bracket atom at position %d", body[i:], start+1)
	}
	p.addAtom(a)
	return nil
}

// addAtom appends a and bonds it to the previous atom, if any.
func (p *parser) addAtom(a chem.Atom) {
	idx := p.mol.AddAtom(a)
	if p.prev >= 0 {
		p.bond(p.prev, idx, p.pending)
	}
	p.prev = idx
	p.pending = bondSpec{}
}

// bond connects a and b. Without an explicit symbol the bond is aromatic
// when both atoms are aromatic and single otherwise.
func (p *parser) bond(a, b int, spec bondSpec) {
	if !spec.set {
		spec = bondSpec{order: 1}
		if p.mol.Atoms[a].Aromatic && p.mol.Atoms[b].Aromatic {
			spec = bondSpec{order: chem.AromaticOrder, aromatic: true}
		}
	}
	// Indices come from the parser itself and are always in range.
	_, _ = p.mol.AddBond(a, b, spec.order, spec.aromatic)
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isUpper(c byte) bool  { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool  { return c >= 'a' && c <= 'z' }
func isLetter(c byte) bool { return isUpper(c) || isLower(c) }
