package pdb

import (
	"bytes"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dr-Moreb/biotite/structure"
)

const testPDB = `HEADER    DNA BINDING PROTEIN                     01-JAN-00   1ABC
CRYST1   10.000   20.000   30.000  90.00  90.00  90.00 P 1           1
MODEL        1
ATOM      1  N   MET A   1       1.000   2.000   3.000  1.00  0.00           N
ATOM      2  CA  MET A   1       2.000   2.000   3.000  1.00  0.00           C
ATOM      3  CA ALYS A   2       3.500   2.000   3.000  1.00  0.00           C
ATOM      4  CA BLYS A   2       3.600   2.000   3.000  1.00  0.00           C
ATOM      5  CA  ALA A   2A      4.000   1.000  -3.250  1.00  0.00           C
HETATM    6  O   HOH B 101      -1.500   0.000  10.125  1.00  0.00           O
ENDMDL
MODEL        2
ATOM      1  N   MET A   1       1.100   2.000   3.000  1.00  0.00           N
ATOM      2  CA  MET A   1       2.100   2.000   3.000  1.00  0.00           C
ATOM      3  CA ALYS A   2       3.500   2.100   3.000  1.00  0.00           C
ATOM      4  CA BLYS A   2       3.600   2.100   3.000  1.00  0.00           C
ATOM      5  CA  ALA A   2A      4.000   1.100  -3.250  1.00  0.00           C
HETATM    6  O   HOH B 101      -1.500   0.100  10.125  1.00  0.00           O
ENDMDL
END
`

func TestRead(t *testing.T) {
	s, err := Read(strings.NewReader(testPDB))
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 || s.AtomCount() != 5 {
		t.Fatalf("Expected 2 models of 5 atoms, got %d models of %d atoms.",
			s.Len(), s.AtomCount())
	}

	first := s.Array()
	want := structure.Atom{
		ChainID: "A", ResID: 2, InsCode: "A", ResName: "ALA",
		AtomName: "CA", Element: "C",
		Coord: structure.Coord{X: 4, Y: 1, Z: -3.25},
	}
	if first[3] != want {
		t.Fatalf("Atom 4 is\n%s\nbut expected\n%s", first[3], want)
	}
	if first[2].Coord.X != 3.5 {
		t.Fatalf("The first alternate location should be kept, got %s.",
			first[2])
	}
	if !first[4].Hetero || first[4].ResName != "HOH" {
		t.Fatalf("Expected a hetero water, got %s.", first[4])
	}
	if got := s.Model(1)[0].Coord.X; got != 1.1 {
		t.Fatalf("Model 2 starts at x = %f, want 1.1.", got)
	}

	if s.Box == nil {
		t.Fatal("CRYST1 record was not read.")
	}
	a, b, c := s.Box.Lengths()
	if a != 10 || b != 20 || math.Abs(c-30) > 1e-9 {
		t.Fatalf("Box lengths are %f %f %f.", a, b, c)
	}
}

func TestReadErrors(t *testing.T) {
	tests := []string{
		"",
		"HEADER    NOTHING\nEND\n",
		"ATOM      1  N   MET A   x       1.000   2.000   3.000\n",
		"ATOM      1  N   MET A   1       1.000   abc     3.000\n",
		"MODEL        1\n" +
			"ATOM      1  N   MET A   1       1.000   2.000   3.000\n" +
			"ENDMDL\nMODEL        2\n" +
			"ATOM      1  CA  MET A   1       1.000   2.000   3.000\n" +
			"ENDMDL\n",
	}
	for _, in := range tests {
		if _, err := Read(strings.NewReader(in)); err == nil {
			t.Errorf("Expected an error for\n%s", in)
		}
	}
}

func TestElementGuess(t *testing.T) {
	in := "ATOM      1  N   MET A   1       1.000   2.000   3.000\n" +
		"ATOM      2 1HB  MET A   1       1.000   2.000   3.000\n"
	s, err := Read(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if s.Atoms[0].Element != "N" || s.Atoms[1].Element != "H" {
		t.Fatalf("Guessed elements %s and %s.",
			s.Atoms[0].Element, s.Atoms[1].Element)
	}
	if s.Box != nil {
		t.Fatal("No box expected.")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	s, err := Read(strings.NewReader(testPDB))
	if err != nil {
		t.Fatal(err)
	}
	buf := new(bytes.Buffer)
	if err := Write(buf, s); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(),
		"ATOM      2  CA  MET A   1       2.000   2.000   3.000") {
		t.Fatalf("Unexpected atom layout:\n%s", buf.String())
	}
	back, err := Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	assertSameStack(t, back, s)
}

func TestWriteFileGzip(t *testing.T) {
	s, err := Read(strings.NewReader(testPDB))
	if err != nil {
		t.Fatal(err)
	}
	fp := filepath.Join(t.TempDir(), "test.pdb.gz")
	if err := WriteFile(fp, s); err != nil {
		t.Fatal(err)
	}
	back, err := ReadFile(fp)
	if err != nil {
		t.Fatal(err)
	}
	assertSameStack(t, back, s)
}

func TestWriteErrors(t *testing.T) {
	arr := structure.AtomArray{{ChainID: "AB", ResName: "GLY", AtomName: "CA"}}
	if err := Write(new(bytes.Buffer), arr.Stack()); err == nil {
		t.Fatal("Expected an error for a two letter chain ID.")
	}
}

func assertSameStack(t *testing.T, got, want *structure.AtomArrayStack) {
	if got.Len() != want.Len() || got.AtomCount() != want.AtomCount() {
		t.Fatalf("Got %d models of %d atoms, want %d models of %d atoms.",
			got.Len(), got.AtomCount(), want.Len(), want.AtomCount())
	}
	for m := 0; m < want.Len(); m++ {
		g, w := got.Model(m), want.Model(m)
		for i := range w {
			if g[i] != w[i] {
				t.Fatalf("Model %d, atom %d:\n%s\nwant\n%s", m+1, i+1, g[i], w[i])
			}
		}
	}
}
