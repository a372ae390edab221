package align

import (
	"math"
	"reflect"
	"testing"

	"github.com/Dr-Moreb/biotite/sequence"
)

func proteins(t *testing.T, strs ...string) []*sequence.Sequence {
	seqs := make([]*sequence.Sequence, len(strs))
	for i, s := range strs {
		var err error
		if seqs[i], err = sequence.NewProtein(s); err != nil {
			t.Fatal(err)
		}
	}
	return seqs
}

func TestTraceFromStrings(t *testing.T) {
	trace, err := TraceFromStrings([]string{"AB-C", "-BDC"})
	if err != nil {
		t.Fatal(err)
	}
	want := [][]int{{0, Gap}, {1, 0}, {Gap, 1}, {2, 2}}
	if !reflect.DeepEqual(trace, want) {
		t.Fatalf("trace = %v, want %v", trace, want)
	}

	if _, err := TraceFromStrings([]string{"AB", "ABC"}); err == nil {
		t.Fatal("Expected an error for strings of unequal length.")
	}
}

func TestAlignmentRoundTrip(t *testing.T) {
	gapped := []string{"BIQT-ITE", "TITANITE", "BISM-ITE", "-IQL-ITE"}
	trace, err := TraceFromStrings(gapped)
	if err != nil {
		t.Fatal(err)
	}
	a, err := New(proteins(t, "BIQTITE", "TITANITE", "BISMITE", "IQLITE"),
		trace, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.GappedStrings(), gapped) {
		t.Fatalf("GappedStrings() = %v, want %v", a.GappedStrings(), gapped)
	}
	if a.String() != "BIQT-ITE\nTITANITE\nBISM-ITE\n-IQL-ITE" {
		t.Fatalf("String() = %q", a.String())
	}
	if a.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", a.Len())
	}
	if got := a.Columns(5, 8).String(); got != "ITE\nITE\nITE\nITE" {
		t.Fatalf("Columns(5, 8) = %q", got)
	}
}

func TestNewInvalidTrace(t *testing.T) {
	seqs := proteins(t, "AB", "AB")
	tests := []struct {
		name  string
		trace [][]int
	}{
		{"out of range", [][]int{{0, 0}, {1, 2}}},
		{"not increasing", [][]int{{1, 0}, {0, 1}}},
		{"wrong width", [][]int{{0}, {1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(seqs, tt.trace, nil); err == nil {
				t.Fatalf("Expected an error for trace %v.", tt.trace)
			}
		})
	}
}

func TestReorder(t *testing.T) {
	trace, _ := TraceFromStrings([]string{"AC-", "A-C", "AAC"})
	a, err := New(proteins(t, "AC", "AC", "AAC"), trace, nil)
	if err != nil {
		t.Fatal(err)
	}
	r, err := a.Reorder([]int{2, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if r.String() != "AAC\nAC-\nA-C" {
		t.Fatalf("Reorder = %q", r.String())
	}
	if _, err := a.Reorder([]int{0, 0, 1}); err == nil {
		t.Fatal("Expected an error for a non permutation.")
	}
}

func TestIdentity(t *testing.T) {
	trace, _ := TraceFromStrings([]string{"ACDE-", "ACDF-", "ACDEG"})
	a, _ := New(proteins(t, "ACDE", "ACDF", "ACDEG"), trace, nil)
	if got := a.Identity(); got != 0.75 {
		t.Fatalf("Identity() = %f, want 0.75", got)
	}
}

func TestProfile(t *testing.T) {
	trace, _ := TraceFromStrings([]string{"AC-", "AD-", "AC-", "AD-"})
	a, _ := New(proteins(t, "AC", "AD", "AC", "AD"), trace, nil)
	p, err := NewProfile(a)
	if err != nil {
		t.Fatal(err)
	}
	if p.Gaps[2] != 4 {
		t.Fatalf("Gaps[2] = %d, want 4", p.Gaps[2])
	}
	if cons := p.Consensus(); cons != "AC-" {
		t.Fatalf("Consensus() = %s, want AC-", cons)
	}

	bits := p.Conservation()
	max := math.Log2(float64(sequence.ProteinAlphabet.Len()))
	if math.Abs(bits[0]-max) > 1e-9 {
		t.Errorf("Conservation of a fully conserved column = %f, want %f",
			bits[0], max)
	}
	if math.Abs(bits[1]-(max-1)) > 1e-9 {
		t.Errorf("Conservation of a 50/50 column = %f, want %f",
			bits[1], max-1)
	}
	if bits[2] != 0 {
		t.Errorf("Conservation of a gap column = %f, want 0", bits[2])
	}
}

func TestMSARoundTrip(t *testing.T) {
	trace, _ := TraceFromStrings([]string{"BIQT-ITE", "TITANITE"})
	a, _ := New(proteins(t, "BIQTITE", "TITANITE"), trace, nil)
	msa, err := a.ToMSA([]string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	back, names, err := FromMSA(msa, sequence.NewProtein)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(names, []string{"a", "b"}) {
		t.Fatalf("names = %v", names)
	}
	if back.String() != a.String() {
		t.Fatalf("FromMSA(ToMSA(a)) = %q, want %q", back.String(), a.String())
	}

	if _, err := a.ToMSA([]string{"a"}); err == nil {
		t.Fatal("Expected an error for too few names.")
	}
}
