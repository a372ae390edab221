package fasta

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dr-Moreb/biotite/sequence"
	"github.com/Dr-Moreb/biotite/sequence/align"
)

func init() {
	log.SetFlags(0)
}

var testFastaInput = []byte(`>YAL001C TFC3 SGDID:S000000001
MVLTIYPDELVQIVSDKIASNKGKITLNQLWDISGKYFDLSDKKVKQFVLSCVILKKDIE
VYCDGAITTKNVTDIIGDANHSYSVGITEDSLWTLLTGYTKKESTIGNSAFELLLEVAKS
>YDR134C YDR134C SGDID:S000002541
MQFSTVASIAAIAAVASAASNITTATVTEESTTLVTITSCEDHVCSETVSPALVSTATVT
VNDVITYTTWCPLPTTEAPKNTTSPAPTEKPTEKPTEKPTQQGSSTQTVTSYTGAAVKAL
PAAGALLAGAAALLL
`)

func TestReadAll(t *testing.T) {
	r := NewReader(bytes.NewBuffer(testFastaInput))
	all, err := r.ReadAll()
	if err != nil {
		t.Fatalf("%s", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 entries, got %d.", len(all))
	}
	testLastEntry(t, all[len(all)-1])
}

func TestRead(t *testing.T) {
	var last, entry Entry
	var err error

	r := NewReader(bytes.NewBuffer(testFastaInput))
	for {
		entry, err = r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("%s", err)
		}
		last = entry
	}
	testLastEntry(t, last)
}

func TestReadWrite(t *testing.T) {
	entries, err := NewReader(bytes.NewBuffer(testFastaInput)).ReadAll()
	if err != nil {
		t.Fatalf("%s", err)
	}

	buf := new(bytes.Buffer)
	if err := NewWriter(buf).WriteAll(entries); err != nil {
		t.Fatalf("%s", err)
	}
	testBytesEqual(t, testFastaInput, buf.Bytes())
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name, in, msg string
	}{
		{"no header", "ACGT\n", "Error on line 1"},
		{"bad character", ">a\nAC1T\n", "Invalid character '1' on line 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(strings.NewReader(tt.in)).ReadAll()
			if err == nil {
				t.Fatalf("Expected an error for %q.", tt.in)
			}
			if !strings.Contains(err.Error(), tt.msg) {
				t.Fatalf("Error '%s' does not mention '%s'.", err, tt.msg)
			}
		})
	}
}

func TestReadNoTrailingNewline(t *testing.T) {
	in := "; comment\n>a\nacg\n>b\nTT"
	all, err := NewReader(strings.NewReader(in)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || string(all[0].Sequence) != "ACG" ||
		string(all[1].Sequence) != "TT" {
		t.Fatalf("Unexpected entries: %v", all)
	}
}

func TestAligned(t *testing.T) {
	in := ">a\nAC-T\n>b\nACG\n"
	if _, err := NewAlignedReader(strings.NewReader(in)).ReadAll(); err == nil {
		t.Fatal("Expected an error for sequences of unequal length.")
	}

	w := NewAlignedWriter(new(bytes.Buffer))
	err := w.WriteAll([]Entry{
		{"a", []byte("AC-T")},
		{"b", []byte("ACG")},
	})
	if err == nil {
		t.Fatal("Expected an error for sequences of unequal length.")
	}
}

func TestFile(t *testing.T) {
	f, err := Read(bytes.NewReader(testFastaInput))
	if err != nil {
		t.Fatal(err)
	}
	if f.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", f.Len())
	}
	f.Set("YAL001C TFC3 SGDID:S000000001", "ACGT")
	f.Set("new", "MVL")
	want := []string{
		"YAL001C TFC3 SGDID:S000000001",
		"YDR134C YDR134C SGDID:S000002541",
		"new",
	}
	if got := f.Headers(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("Headers() = %v, want %v", got, want)
	}
	if s, _ := f.Get(want[0]); s != "ACGT" {
		t.Fatalf("Get = %s, want ACGT", s)
	}

	if !f.Delete(want[1]) || f.Delete(want[1]) {
		t.Fatal("Delete should succeed exactly once.")
	}
	if s, ok := f.Get("new"); !ok || s != "MVL" {
		t.Fatalf("Get(new) = %s, %v after delete", s, ok)
	}

	if _, err := Read(strings.NewReader(">a\nA\n>a\nC\n")); err == nil {
		t.Fatal("Expected an error for a duplicate header.")
	}
}

func TestFileColumns(t *testing.T) {
	f := NewFile()
	f.Set("x", strings.Repeat("A", 100))
	out := f.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || len(lines[1]) != DefaultColumns {
		t.Fatalf("Unexpected wrapping:\n%s", out)
	}

	f.Columns = -1
	lines = strings.Split(strings.TrimSpace(f.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected no wrapping, got %d lines.", len(lines))
	}
}

func TestReadWriteFileGzip(t *testing.T) {
	f := NewFile()
	f.Set("a", "ACGT")
	f.Set("b", "MVLS")

	path := filepath.Join(t.TempDir(), "test.fasta.gz")
	if err := f.WriteFile(path); err != nil {
		t.Fatal(err)
	}
	back, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if back.String() != f.String() {
		t.Fatalf("Read back\n%s\nbut wrote\n%s", back, f)
	}
}

func TestGetSequence(t *testing.T) {
	f := NewFile()
	if _, err := GetSequence(f, ""); err != ErrNoSequences {
		t.Fatalf("Expected ErrNoSequences, got %v.", err)
	}

	f.Set("dna", "ACGTT")
	f.Set("protein", "MVLSPADK")
	f.Set("ambiguous", "ACGTNNR")
	f.Set("junk", "ACGT123")

	tests := []struct {
		header  string
		kind    sequence.Kind
		alpha   sequence.Alphabet
		wantErr bool
	}{
		{"", sequence.Nucleotide, sequence.NucleotideAlphabet, false},
		{"dna", sequence.Nucleotide, sequence.NucleotideAlphabet, false},
		{"protein", sequence.Protein, sequence.ProteinAlphabet, false},
		// Every IUPAC base is also an amino acid letter.
		{"ambiguous", sequence.Protein, sequence.ProteinAlphabet, false},
		{"junk", 0, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			s, err := GetSequence(f, tt.header)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetSequence(%q) error = %v", tt.header, err)
			}
			if tt.wantErr {
				return
			}
			if s.Kind() != tt.kind || s.Alphabet() != tt.alpha {
				t.Fatalf("GetSequence(%q) = %s sequence with %s alphabet",
					tt.header, s.Kind(), s.Alphabet().Name())
			}
		})
	}

	_, err := GetSequence(f, "missing")
	if herr, ok := err.(*HeaderError); !ok || herr.Header != "missing" {
		t.Fatalf("Expected a *HeaderError, got %v.", err)
	}
}

func TestGetSetSequences(t *testing.T) {
	f, _ := Read(bytes.NewReader(testFastaInput))
	recs, err := GetSequences(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 || recs[1].Header != "YDR134C YDR134C SGDID:S000002541" {
		t.Fatalf("Unexpected records: %v", recs)
	}
	m := SequenceMap(recs)
	if m[recs[0].Header].Kind() != sequence.Protein {
		t.Fatal("Expected a protein sequence.")
	}

	out := NewFile()
	if err := SetSequences(out, recs); err != nil {
		t.Fatal(err)
	}
	if out.String() != f.String() {
		t.Fatalf("SetSequences wrote\n%s\nwant\n%s", out, f)
	}

	dna, _ := sequence.NewNucleotide("ACGT")
	if err := SetSequence(out, dna, ""); err != nil {
		t.Fatal(err)
	}
	if s, ok := out.Get(DefaultHeader); !ok || s != "ACGT" {
		t.Fatalf("Get(%s) = %s, %v", DefaultHeader, s, ok)
	}

	three, _ := recs[0].Sequence.ThreeLetter()
	if err := SetSequence(out, three, "three"); err == nil {
		t.Fatal("Expected an error for a three letter sequence.")
	}
	if _, ok := out.Get("three"); ok {
		t.Fatal("A rejected sequence must not be stored.")
	}
}

func TestAlignment(t *testing.T) {
	f := NewFile()
	f.Set("0", "BIQT_ITE")
	f.Set("1", "TITANITE")
	f.Set("2", "BISM-ITE")
	f.Set("3", "-IQL-ITE")

	a, err := GetAlignment(f)
	if err != nil {
		t.Fatal(err)
	}
	if a.Score != nil {
		t.Fatal("Alignments read from FASTA are not scored.")
	}
	if a.String() != "BIQT-ITE\nTITANITE\nBISM-ITE\n-IQL-ITE" {
		t.Fatalf("GetAlignment = %q", a.String())
	}
	if a.Sequences[3].String() != "IQLITE" {
		t.Fatalf("Sequence 3 = %s, want IQLITE", a.Sequences[3])
	}

	out := NewFile()
	if err := SetAlignment(out, a, []string{"a", "b"}); err == nil ||
		!strings.Contains(err.Error(), "Alignment has 4 sequences, but 2") {
		t.Fatalf("Expected a name count error, got %v.", err)
	}
	if err := SetAlignment(out, a, []string{"a", "b", "c", "d"}); err != nil {
		t.Fatal(err)
	}
	if s, _ := out.Get("a"); s != "BIQT-ITE" {
		t.Fatalf("Get(a) = %s, want BIQT-ITE", s)
	}

	dotted := NewFile()
	dotted.Set("a", "AC.T")
	dotted.Set("b", "ACGT")
	a, err = GetAlignment(dotted, ".")
	if err != nil {
		t.Fatal(err)
	}
	if a.Trace[2][0] != align.Gap {
		t.Fatal("Expected '.' to be read as a gap.")
	}
}

func testBytesEqual(t *testing.T, bs1, bs2 []byte) {
	if len(bs1) != len(bs2) {
		t.Fatalf("Lengths not equal: %d != %d", len(bs1), len(bs2))
	}
	for i := 0; i < len(bs1); i++ {
		if bs1[i] != bs2[i] {
			t.Fatalf("Byte %d not equal: %c != %c", i, bs1[i], bs2[i])
		}
	}
}

func testLastEntry(t *testing.T, last Entry) {
	answer := "MQFSTVASIAAIAAVASAASNITTATVTEESTTLVTITSCEDHVCSETVSPALVSTATVTVN" +
		"DVITYTTWCPLPTTEAPKNTTSPAPTEKPTEKPTEKPTQQGSSTQTVTSYTGAAVKALPAAGALLAG" +
		"AAALLL"
	ours := string(last.Sequence)
	if answer != ours {
		t.Fatalf("The last sequence should be\n%s\nbut we got\n%s",
			answer, ours)
	}

	answer = "YDR134C YDR134C SGDID:S000002541"
	if answer != last.Header {
		t.Fatalf("The last header should be\n%s\nbut we got\n%s",
			answer, last.Header)
	}
}

func ExampleGetSequence() {
	f := NewFile()
	f.Set("lexA", "ATGAAAGCGTTAACGGCCAGG")
	s, err := GetSequence(f, "lexA")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(s.Kind(), s.Len())
	// Output:
	// nucleotide 21
}
