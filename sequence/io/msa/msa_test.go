package msa

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/TuftsBCB/seq"
)

var alignFasta = []string{
	"BIQT-ITE",
	"TITANITE",
	"BISM-ITE",
	"-IQL-ITE",
}

var alignA2M = []string{
	"BIQ.T-ITE",
	"TIT.ANITE",
	"BISmM-ITE",
	"-IQ.L-ITE",
}

func TestFasta(t *testing.T) {
	computed, err := Read(makeFasta(alignFasta))
	if err != nil {
		t.Fatalf("%s", err)
	}
	testEqualAlign(t, computed, makeMSA(makeSeqs(alignFasta)))
}

func TestA2M(t *testing.T) {
	computed, err := Read(makeFasta(alignA2M))
	if err != nil {
		t.Fatalf("%s", err)
	}
	testEqualAlign(t, computed, makeMSA(makeSeqs(alignA2M)))
}

func TestReaderError(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		read func(r io.Reader) (seq.MSA, error)
	}{
		{"short last row", []string{"BIQT-ITE", "BISM-IT"}, Read},
		{"short middle row", []string{"BIQT-ITE", "BISM-IT", "TITANITE"}, Read},
		{"a3m missing match", []string{"BIQT-ITE", "BISmM-IT"}, Read},
		{"fasta short row", []string{"BIQT-ITE", "BISM-IT"}, ReadFasta},
		{"fasta long row", []string{"BIQT-ITE", "BISmM-ITE"}, ReadFasta},
	}
	for _, tt := range tests {
		if msa, err := tt.read(makeFasta(tt.rows)); err == nil {
			t.Errorf("%s: expected an error, but read\n%s", tt.name, msa)
		}
	}

	in := makeFasta([]string{"BIQT-ITE", "BISM-IT"})
	if _, _, err := ReadAlignment(in, FormatA2M); err == nil {
		t.Error("Expected an error for an alignment with a short row.")
	}
}

func TestReadFasta(t *testing.T) {
	// WriteFasta replaces the '.' of insertion columns with '-'.
	in := []string{
		"BIQ-T-ITE",
		"TIT-ANITE",
		"BISmM-ITE",
		"-IQ-L-ITE",
	}
	computed, err := ReadFasta(makeFasta(in))
	if err != nil {
		t.Fatal(err)
	}
	testEqualAlign(t, computed, makeMSA(makeSeqs(alignA2M)))
}

func TestWriteRead(t *testing.T) {
	answer := makeMSA(makeSeqs(alignA2M))
	writers := []struct {
		name  string
		write func(w *bytes.Buffer, msa seq.MSA) error
	}{
		{"fasta", func(w *bytes.Buffer, msa seq.MSA) error { return WriteFasta(w, msa) }},
		{"a2m", func(w *bytes.Buffer, msa seq.MSA) error { return WriteA2M(w, msa) }},
		{"a3m", func(w *bytes.Buffer, msa seq.MSA) error { return WriteA3M(w, msa) }},
		{"stockholm", func(w *bytes.Buffer, msa seq.MSA) error { return WriteStockholm(w, msa) }},
	}
	for _, tt := range writers {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			if err := tt.write(buf, answer); err != nil {
				t.Fatal(err)
			}
			var computed seq.MSA
			var err error
			switch tt.name {
			case "fasta":
				computed, err = ReadFasta(buf)
			case "stockholm":
				computed, err = ReadStockholm(buf)
			default:
				computed, err = Read(buf)
			}
			if err != nil {
				t.Fatal(err)
			}
			testEqualAlign(t, computed, answer)
		})
	}
}

func TestStockholmInterleaved(t *testing.T) {
	in := `# STOCKHOLM 1.0
#=GF ID test

0 BIQT
1 TITA
#=GC SS_cons ....

0 -ITE
1 NITE
//
`
	computed, err := ReadStockholm(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	testEqualAlign(t, computed, makeMSA(makeSeqs([]string{"BIQT-ITE", "TITANITE"})))
}

func TestStockholmErrors(t *testing.T) {
	tests := []string{
		"# NOT STOCKHOLM\n",
		"# STOCKHOLM 1.0\n0 BIQ1\n//\n",
		"# STOCKHOLM 1.0\n0 BIQT\n1 BI\n//\n",
		"# STOCKHOLM 1.0\n0 BIQT-ITE\n1 BISM-IT\n//\n",
	}
	for _, in := range tests {
		if _, err := ReadStockholm(strings.NewReader(in)); err == nil {
			t.Errorf("Expected an error for\n%s", in)
		}
	}
}

func TestAlignment(t *testing.T) {
	a, names, err := ReadAlignment(makeFasta(alignFasta), FormatFasta)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(names, ",") != "0,1,2,3" {
		t.Fatalf("names = %v", names)
	}
	if a.String() != strings.Join(alignFasta, "\n") {
		t.Fatalf("ReadAlignment = %q", a.String())
	}

	buf := new(bytes.Buffer)
	if err := WriteAlignment(buf, FormatStockholm, a, names); err != nil {
		t.Fatal(err)
	}
	back, _, err := ReadAlignment(buf, FormatStockholm)
	if err != nil {
		t.Fatal(err)
	}
	if back.String() != a.String() {
		t.Fatalf("Stockholm round trip = %q, want %q", back.String(), a.String())
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"fasta", FormatFasta},
		{".fa", FormatFasta},
		{"A2M", FormatA2M},
		{"a3m", FormatA3M},
		{"sto", FormatStockholm},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %s, %v; want %s", tt.in, got, err, tt.want)
		}
	}
	if _, err := FormatFromPath("aln.clustal"); err == nil {
		t.Error("Expected an error for an unknown suffix.")
	}
}

func testEqualAlign(t *testing.T, computed, answer seq.MSA) {
	if computed.Len() != answer.Len() {
		t.Fatalf("Lengths of MSAs differ: %d != %d",
			computed.Len(), answer.Len())
	}

	scomputed := makeStrings(computed.Entries)
	sanswer := makeStrings(answer.Entries)
	if len(scomputed) != len(sanswer) {
		t.Fatalf("\nLengths of entries in MSAs differ: %d != %d",
			len(scomputed), len(sanswer))
	}
	for i := 0; i < len(scomputed); i++ {
		c, a := scomputed[i], sanswer[i]
		if c != a {
			t.Fatalf("\nComputed sequence in MSA is\n\n%s\n\n"+
				"but answer is\n\n%s", c, a)
		}
	}
}

func makeFasta(strs []string) *bytes.Buffer {
	buf := new(bytes.Buffer)
	for i, str := range strs {
		fmt.Fprintf(buf, ">%d\n%s\n", i, str)
	}
	return buf
}

func makeMSA(seqs []seq.Sequence) seq.MSA {
	msa := seq.NewMSA()
	msa.AddSlice(seqs)
	return msa
}

func makeSeqs(strs []string) []seq.Sequence {
	seqs := make([]seq.Sequence, len(strs))
	for i, str := range strs {
		seqs[i] = seq.Sequence{
			Name:     fmt.Sprintf("%d", i),
			Residues: []seq.Residue(str),
		}
	}
	return seqs
}

func makeStrings(seqs []seq.Sequence) []string {
	strs := make([]string, len(seqs))
	for i, s := range seqs {
		strs[i] = fmt.Sprintf("%s", s.Residues)
	}
	return strs
}
