package structure

import (
	"math"
	"reflect"
	"testing"
)

func testArray() AtomArray {
	atom := func(chain string, resID int, resName, name string, het bool,
		x, y, z float64) Atom {
		return Atom{
			ChainID: chain, ResID: resID, ResName: resName, Hetero: het,
			AtomName: name, Element: name[:1], Coord: Coord{X: x, Y: y, Z: z},
		}
	}
	return AtomArray{
		atom("A", 1, "MET", "N", false, 0, 0, 0),
		atom("A", 1, "MET", "CA", false, 1.5, 0, 0),
		atom("A", 2, "LYS", "CA", false, 3, 1, 0),
		atom("A", 3, "TRP", "CA", false, 4, 2, 1),
		atom("A", 4, "HOH", "O", true, 9, 9, 9),
		atom("B", 1, "GLY", "CA", false, 5, 5, 5),
		atom("B", 2, "SEP", "CA", false, 6, 5, 5),
	}
}

func TestResidues(t *testing.T) {
	arr := testArray()
	if got := arr.Chains(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("Chains() = %v", got)
	}
	residues := arr.Residues()
	if len(residues) != 6 {
		t.Fatalf("Expected 6 residues, got %d.", len(residues))
	}
	if len(residues[0].Atoms) != 2 || residues[0].ResName != "MET" {
		t.Fatalf("Unexpected first residue %+v.", residues[0])
	}
}

func TestChainSequence(t *testing.T) {
	arr := testArray()
	tests := []struct {
		chain, want string
	}{
		{"A", "MKW"},
		{"B", "GX"},
	}
	for _, tt := range tests {
		s, err := arr.ChainSequence(tt.chain)
		if err != nil {
			t.Fatal(err)
		}
		if s.String() != tt.want {
			t.Errorf("ChainSequence(%s) = %s, want %s", tt.chain, s, tt.want)
		}
	}
	if _, err := arr.ChainSequence("Z"); err == nil {
		t.Error("Expected an error for a missing chain.")
	}
}

func TestStack(t *testing.T) {
	arr := testArray()
	moved := make(AtomArray, len(arr))
	copy(moved, arr)
	moved[0].Coord.X = 10

	s, err := NewStack(arr, moved)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 || s.AtomCount() != len(arr) {
		t.Fatalf("Stack has %d models with %d atoms.", s.Len(), s.AtomCount())
	}
	if s.Model(1)[0].Coord.X != 10 || s.Array()[0].Coord.X != 0 {
		t.Fatal("Models do not keep their own coordinates.")
	}

	renamed := make(AtomArray, len(arr))
	copy(renamed, arr)
	renamed[2].AtomName = "CB"
	if _, err := NewStack(arr, renamed); err == nil {
		t.Fatal("Expected an error for differing annotations.")
	}
	if _, err := NewStack(arr, arr[:3]); err == nil {
		t.Fatal("Expected an error for differing atom counts.")
	}
	if err := s.AddModel(make([]Coord, 2)); err == nil {
		t.Fatal("Expected an error for a model of the wrong size.")
	}
}

func TestGeometry(t *testing.T) {
	arr := testArray()[:2]
	c := arr.Centroid()
	if c.X != 0.75 || c.Y != 0 || c.Z != 0 {
		t.Fatalf("Centroid() = %v", c)
	}
	if d := Distance(arr[0].Coord, arr[1].Coord); d != 1.5 {
		t.Fatalf("Distance = %f, want 1.5", d)
	}

	full := testArray()
	rmsd, err := RMSD(full, full)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rmsd) > 1e-6 {
		t.Fatalf("RMSD of identical arrays = %f", rmsd)
	}
	if _, err := RMSD(full, full[:2]); err == nil {
		t.Fatal("Expected an error for arrays of different length.")
	}
}

func TestBox(t *testing.T) {
	box := BoxFromParameters(10, 20, 30, 90, 90, 90)
	a, b, c := box.Lengths()
	alpha, beta, gamma := box.Angles()
	for _, v := range []struct{ got, want float64 }{
		{a, 10}, {b, 20}, {c, 30}, {alpha, 90}, {beta, 90}, {gamma, 90},
	} {
		if math.Abs(v.got-v.want) > 1e-9 {
			t.Errorf("Got %f, want %f", v.got, v.want)
		}
	}
	if !reflect.DeepEqual(BoxFromLengths(1, 2, 3),
		Box{{X: 1}, {Y: 2}, {Z: 3}}) {
		t.Error("BoxFromLengths does not build an orthorhombic box.")
	}
}

func TestChainRMSD(t *testing.T) {
	arr := testArray()
	moved := make(AtomArray, len(arr))
	for i, a := range arr {
		a.Coord.X += 10
		a.Coord.Z -= 3
		moved[i] = a
	}
	if n := len(arr.CAlphas("A", 1, 3)); n != 3 {
		t.Fatalf("Expected 3 carbon-alpha atoms, got %d.", n)
	}
	rmsd, err := ChainRMSD(arr, "A", 1, 3, moved, "A", 1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rmsd) > 1e-6 {
		t.Fatalf("RMSD of translated chains = %f", rmsd)
	}

	bad := []struct {
		chain      string
		start, end int
	}{
		{"B", 1, 2},
		{"C", 1, 3},
		{"A", 10, 20},
	}
	for _, b := range bad {
		if _, err := ChainRMSD(arr, "A", 1, 3, moved, b.chain, b.start, b.end); err == nil {
			t.Errorf("Expected an error for chain %s %d-%d.", b.chain, b.start, b.end)
		}
	}
}
