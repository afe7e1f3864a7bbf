// Package sdf reads and writes MDL molfiles and SD files (V2000 subset).
//
// Supported: the header block, the counts line, fixed-column atom and bond
// blocks, "M  CHG" charge properties and "$$$$" record separators. Data
// items after "M  END" are skipped. V3000 records are rejected.
package sdf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/matzehuels/chemlayout/pkg/chem"
	"github.com/matzehuels/chemlayout/pkg/errors"
)

// Program is written to the program field of the header block.
const Program = "chemlayout"

const recordEnd = "$$$$"

// Parse reads every record from r.
func Parse(r io.Reader) ([]*chem.Molecule, error) {
	var (
		mols   []*chem.Molecule
		record []string
		line   int
		start  = 1
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(text) == recordEnd {
			if err := appendRecord(&mols, record, start); err != nil {
				return nil, err
			}
			record, start = nil, line+1
			continue
		}
		record = append(record, text)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSDF, err, "read")
	}
	if err := appendRecord(&mols, record, start); err != nil {
		return nil, err
	}
	if len(mols) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidSDF, "no molecules")
	}
	return mols, nil
}

// ParseString is Parse on a string.
func ParseString(s string) ([]*chem.Molecule, error) {
	return Parse(strings.NewReader(s))
}

func appendRecord(mols *[]*chem.Molecule, record []string, start int) error {
	if isBlank(record) {
		return nil
	}
	m, err := parseRecord(record, start)
	if err != nil {
		return err
	}
	*mols = append(*mols, m)
	return nil
}

func isBlank(lines []string) bool {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// parseRecord decodes one molfile. start is the 1-based line number of the
// record's first line, used in error messages.
func parseRecord(lines []string, start int) (*chem.Molecule, error) {
	fail := func(i int, format string, args ...any) error {
		return errors.New(errors.ErrCodeInvalidSDF, "line %d: %s", start+i, fmt.Sprintf(format, args...))
	}

	if len(lines) < 4 {
		return nil, fail(0, "record too short (%d lines)", len(lines))
	}
	counts := lines[3]
	if strings.Contains(counts, "V3000") {
		return nil, errors.New(errors.ErrCodeUnsupported, "line %d: V3000 molfiles are not supported", start+3)
	}
	nAtoms, err1 := column(counts, 0, 3)
	nBonds, err2 := column(counts, 3, 6)
	if err1 != nil || err2 != nil || nAtoms < 0 || nBonds < 0 {
		return nil, fail(3, "bad counts line %q", counts)
	}
	if len(lines) < 4+nAtoms+nBonds {
		return nil, fail(0, "record declares %d atoms and %d bonds but has %d lines", nAtoms, nBonds, len(lines))
	}

	m := &chem.Molecule{Name: strings.TrimSpace(lines[0])}
	for i := 0; i < nAtoms; i++ {
		n := 4 + i
		a, err := parseAtom(lines[n])
		if err != nil {
			return nil, fail(n, "%v", err)
		}
		m.AddAtom(a)
	}
	for i := 0; i < nBonds; i++ {
		n := 4 + nAtoms + i
		a, b, order, aromatic, err := parseBond(lines[n])
		if err != nil {
			return nil, fail(n, "%v", err)
		}
		if _, err := m.AddBond(a, b, order, aromatic); err != nil {
			return nil, fail(n, "%v", err)
		}
		if aromatic {
			m.Atoms[a].Aromatic, m.Atoms[b].Aromatic = true, true
		}
	}

	// Any CHG property resets all atom-block charges.
	chargeReset := false
	for i := 4 + nAtoms + nBonds; i < len(lines); i++ {
		l := lines[i]
		if strings.HasPrefix(l, "M  END") {
			break
		}
		if !strings.HasPrefix(l, "M  CHG") {
			continue
		}
		if !chargeReset {
			for j := range m.Atoms {
				m.Atoms[j].Charge = 0
			}
			chargeReset = true
		}
		if err := applyCharges(m, l); err != nil {
			return nil, fail(i, "%v", err)
		}
	}
	return m, nil
}

// column parses the integer in the fixed-width field [from, to) of line.
// Short lines read as blank, and blank fields read as zero.
func column(line string, from, to int) (int, error) {
	f := strings.TrimSpace(field(line, from, to))
	if f == "" {
		return 0, nil
	}
	return strconv.Atoi(f)
}

func field(line string, from, to int) string {
	if from >= len(line) {
		return ""
	}
	return line[from:min(to, len(line))]
}

func floatField(line string, from, to int) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(field(line, from, to)), 64)
}

// chargeCodes maps the atom-block charge field to a formal charge.
// Code 4 (doublet radical) carries no charge.
var chargeCodes = map[int]int{0: 0, 1: 3, 2: 2, 3: 1, 4: 0, 5: -1, 6: -2, 7: -3}

func parseAtom(line string) (chem.Atom, error) {
	var a chem.Atom
	var err error
	if a.X, err = floatField(line, 0, 10); err != nil {
		return a, fmt.Errorf("bad x coordinate: %w", err)
	}
	if a.Y, err = floatField(line, 10, 20); err != nil {
		return a, fmt.Errorf("bad y coordinate: %w", err)
	}
	if a.Z, err = floatField(line, 20, 30); err != nil {
		return a, fmt.Errorf("bad z coordinate: %w", err)
	}
	a.Symbol = strings.TrimSpace(field(line, 31, 34))
	if a.Symbol == "" {
		return a, fmt.Errorf("missing atom symbol")
	}
	code, err := column(line, 36, 39)
	if err != nil {
		return a, fmt.Errorf("bad charge code: %w", err)
	}
	charge, ok := chargeCodes[code]
	if !ok {
		return a, fmt.Errorf("unknown charge code %d", code)
	}
	a.Charge = charge
	return a, nil
}

func parseBond(line string) (a, b int, order float64, aromatic bool, err error) {
	first, err1 := column(line, 0, 3)
	second, err2 := column(line, 3, 6)
	code, err3 := column(line, 6, 9)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false, fmt.Errorf("bad bond line %q", line)
	}
	switch code {
	case 1, 2, 3:
		order = float64(code)
	case 4:
		order, aromatic = chem.AromaticOrder, true
	default:
		// Query bond types (5-8) are drawn as single bonds.
		order = 1
	}
	return first - 1, second - 1, order, aromatic, nil
}

// applyCharges reads "M  CHGnn8 aaa vvv ...".
func applyCharges(m *chem.Molecule, line string) error {
	fields := strings.Fields(line[6:])
	if len(fields) == 0 {
		return fmt.Errorf("empty CHG property")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || len(fields) < 1+2*n {
		return fmt.Errorf("bad CHG property %q", line)
	}
	for k := 0; k < n; k++ {
		idx, err1 := strconv.Atoi(fields[1+2*k])
		val, err2 := strconv.Atoi(fields[2+2*k])
		if err1 != nil || err2 != nil || idx < 1 || idx > len(m.Atoms) {
			return fmt.Errorf("bad CHG entry in %q", line)
		}
		m.Atoms[idx-1].Charge = val
	}
	return nil
}

// =============================================================================
// Writer
// =============================================================================

// Write encodes mols as an SD file, one record per molecule.
// Charges within ±3 go in the atom block; all non-zero charges are also
// written as "M  CHG" properties.
func Write(w io.Writer, mols ...*chem.Molecule) error {
	bw := bufio.NewWriter(w)
	for _, m := range mols {
		writeRecord(bw, m)
	}
	return bw.Flush()
}

// WriteString is Write into a string.
func WriteString(mols ...*chem.Molecule) string {
	var sb strings.Builder
	// strings.Builder never fails.
	_ = Write(&sb, mols...)
	return sb.String()
}

func writeRecord(w *bufio.Writer, m *chem.Molecule) {
	name := m.Name
	if name == "" {
		name = "Molecule"
	}
	fmt.Fprintln(w, name)
	fmt.Fprintf(w, "  %s\n\n", Program)
	fmt.Fprintf(w, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", len(m.Atoms), len(m.Bonds))

	var charged []int
	for i, a := range m.Atoms {
		code := 0
		if a.Charge >= -3 && a.Charge <= 3 && a.Charge != 0 {
			code = 4 - a.Charge
		}
		if a.Charge != 0 {
			charged = append(charged, i)
		}
		fmt.Fprintf(w, "%10.4f%10.4f%10.4f %-3s 0%3d  0  0  0  0  0  0  0  0  0  0\n",
			a.X, a.Y, a.Z, a.Symbol, code)
	}
	for _, b := range m.Bonds {
		fmt.Fprintf(w, "%3d%3d%3d  0  0  0  0\n", b.A+1, b.B+1, bondCode(b))
	}
	for len(charged) > 0 {
		chunk := charged[:min(8, len(charged))]
		charged = charged[len(chunk):]
		fmt.Fprintf(w, "M  CHG%3d", len(chunk))
		for _, i := range chunk {
			fmt.Fprintf(w, " %3d %3d", i+1, m.Atoms[i].Charge)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "M  END")
	fmt.Fprintln(w, recordEnd)
}

func bondCode(b chem.Bond) int {
	switch {
	case b.Aromatic || b.Order == chem.AromaticOrder:
		return 4
	case b.Order == 2:
		return 2
	case b.Order == 3:
		return 3
	default:
		return 1
	}
}
