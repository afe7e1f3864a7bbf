package sdf

import (
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/chemlayout/pkg/chem"
	"github.com/matzehuels/chemlayout/pkg/errors"
)

const ethanolSDF = `ethanol
  test

  3  2  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    1.5000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    2.2500    1.2990    0.0000 O   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0  0  0  0
  2  3  1  0  0  0  0
M  END
> <MW>
46.07

$$$$
`

func TestParse(t *testing.T) {
	mols, err := ParseString(ethanolSDF)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(mols) != 1 {
		t.Fatalf("molecules = %d, want 1", len(mols))
	}
	m := mols[0]
	if m.Name != "ethanol" || len(m.Atoms) != 3 || len(m.Bonds) != 2 {
		t.Fatalf("molecule = %+v", m)
	}
	if m.Atoms[0].Symbol != "C" || m.Atoms[2].Symbol != "O" {
		t.Errorf("symbols = %q, %q", m.Atoms[0].Symbol, m.Atoms[2].Symbol)
	}
	if m.Atoms[2].X != 2.25 || m.Atoms[2].Y != 1.299 {
		t.Errorf("O at (%v, %v)", m.Atoms[2].X, m.Atoms[2].Y)
	}
	if m.Bonds[1].A != 1 || m.Bonds[1].B != 2 || m.Bonds[1].Order != 1 {
		t.Errorf("bond 1 = %+v", m.Bonds[1])
	}
}

func TestParseCharges(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []int
	}{
		{
			name: "atom block codes",
			body: `
  2  0  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 N   0  3  0  0  0  0
    1.0000    0.0000    0.0000 O   0  5  0  0  0  0
M  END`,
			want: []int{1, -1},
		},
		{
			name: "CHG overrides atom block",
			body: `
  2  0  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 Fe  0  3  0  0  0  0
    1.0000    0.0000    0.0000 O   0  0  0  0  0  0
M  CHG  2   1   4   2  -2
M  END`,
			want: []int{4, -2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mols, err := ParseString("charged\n\n" + tt.body + "\n$$$$\n")
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			for i, want := range tt.want {
				if got := mols[0].Atoms[i].Charge; got != want {
					t.Errorf("atom %d charge = %d, want %d", i, got, want)
				}
			}
		})
	}
}

func TestParseAromaticBond(t *testing.T) {
	text := `ring


  2  1  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0
    1.4000    0.0000    0.0000 C   0  0
  1  2  4
M  END
`
	mols, err := ParseString(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	b := mols[0].Bonds[0]
	if !b.Aromatic || b.Order != chem.AromaticOrder {
		t.Errorf("bond = %+v", b)
	}
	if !mols[0].Atoms[0].Aromatic {
		t.Error("atoms of an aromatic bond should be aromatic")
	}
}

func TestParseMultipleRecords(t *testing.T) {
	text := ethanolSDF + strings.Replace(ethanolSDF, "ethanol", "second", 1) + "\n\n"
	mols, err := ParseString(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(mols) != 2 || mols[1].Name != "second" {
		t.Fatalf("molecules = %d", len(mols))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  errors.Code
	}{
		{"empty", "", errors.ErrCodeInvalidSDF},
		{"too short", "name\n\n\n", errors.ErrCodeInvalidSDF},
		{"bad counts", "name\n\n\nxx  0\nM  END\n", errors.ErrCodeInvalidSDF},
		{"missing atoms", "name\n\n\n  3  0\nM  END\n", errors.ErrCodeInvalidSDF},
		{"bad coordinate", "name\n\n\n  1  0\n    abc       0.0000    0.0000 C   0  0\nM  END\n", errors.ErrCodeInvalidSDF},
		{"bond out of range", "name\n\n\n  1  1\n    0.0000    0.0000    0.0000 C   0  0\n  1  5  1\nM  END\n", errors.ErrCodeInvalidSDF},
		{"bad charge code", "name\n\n\n  1  0\n    0.0000    0.0000    0.0000 C   0  9\nM  END\n", errors.ErrCodeInvalidSDF},
		{"v3000", "name\n\n\n  0  0  0     0  0            999 V3000\nM  END\n", errors.ErrCodeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v (%v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	m := &chem.Molecule{Name: "acetate"}
	c1 := m.AddAtom(chem.Atom{Symbol: "C"})
	c2 := m.AddAtom(chem.Atom{Symbol: "C", X: 1.5})
	o1 := m.AddAtom(chem.Atom{Symbol: "O", X: 2.25, Y: 1.299})
	o2 := m.AddAtom(chem.Atom{Symbol: "O", X: 2.25, Y: -1.299, Charge: -1})
	m.AddBond(c1, c2, 1, false)
	m.AddBond(c2, o1, 2, false)
	m.AddBond(c2, o2, 1, false)

	text := WriteString(m, m.Clone())
	mols, err := ParseString(text)
	if err != nil {
		t.Fatalf("Parse(Write()): %v\n%s", err, text)
	}
	if len(mols) != 2 {
		t.Fatalf("molecules = %d, want 2", len(mols))
	}
	got := mols[0]
	if got.Name != "acetate" || len(got.Atoms) != 4 || len(got.Bonds) != 3 {
		t.Fatalf("molecule = %+v", got)
	}
	for i := range m.Atoms {
		want, have := m.Atoms[i], got.Atoms[i]
		if have.Symbol != want.Symbol || have.Charge != want.Charge ||
			math.Abs(have.X-want.X) > 1e-4 || math.Abs(have.Y-want.Y) > 1e-4 {
			t.Errorf("atom %d = %+v, want %+v", i, have, want)
		}
	}
	if got.Bonds[1].Order != 2 {
		t.Errorf("C=O order = %v", got.Bonds[1].Order)
	}
	if !strings.Contains(text, "M  CHG  1   4  -1") {
		t.Errorf("missing CHG property:\n%s", text)
	}
}

func TestWriteColumns(t *testing.T) {
	m := &chem.Molecule{Name: "x"}
	m.AddAtom(chem.Atom{Symbol: "Cl", X: -1.25, Charge: 1})

	lines := strings.Split(WriteString(m), "\n")
	atom := lines[4]
	if got := atom[0:10]; got != "   -1.2500" {
		t.Errorf("x field = %q", got)
	}
	if got := atom[31:34]; got != "Cl " {
		t.Errorf("symbol field = %q", got)
	}
	if got := atom[36:39]; got != "  3" {
		t.Errorf("charge field = %q", got)
	}
	if !strings.HasSuffix(lines[3], "V2000") {
		t.Errorf("counts line = %q", lines[3])
	}
}
