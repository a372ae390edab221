package align

import (
	"fmt"
	"strings"

	"github.com/TuftsBCB/seq"

	"github.com/Dr-Moreb/biotite/sequence"
)

// ToMSA converts the alignment into a TuftsBCB multiple sequence alignment,
// so that it can be written in A2M, A3M or Stockholm format. Every
// sequence gets the corresponding name.
func (a *Alignment) ToMSA(names []string) (seq.MSA, error) {
	if len(names) != len(a.Sequences) {
		return seq.MSA{}, fmt.Errorf("Alignment has %d sequences, but %d "+
			"names were given.", len(a.Sequences), len(names))
	}
	msa := seq.NewMSA()
	for i, row := range a.GappedStrings() {
		msa.Add(seq.NewSequenceString(names[i], row))
	}
	return msa, nil
}

// FromMSA converts a TuftsBCB multiple sequence alignment into an
// alignment and the names of its sequences. Insertion columns (lower case
// residues and '.') are treated as regular columns, i.e. the aligned FASTA
// representation of the MSA is used. The type of every sequence is detected
// with detect, which should return an error if the residues cannot be
// encoded.
func FromMSA(
	msa seq.MSA,
	detect func(residues string) (*sequence.Sequence, error),
) (*Alignment, []string, error) {
	names := make([]string, len(msa.Entries))
	gapped := make([]string, len(msa.Entries))
	seqs := make([]*sequence.Sequence, len(msa.Entries))
	for row := range msa.Entries {
		s := msa.GetFasta(row)
		names[row] = s.Name
		gapped[row] = strings.ToUpper(
			strings.Replace(string(s.Bytes()), ".", "-", -1))

		var err error
		seqs[row], err = detect(strings.Replace(gapped[row], "-", "", -1))
		if err != nil {
			return nil, nil, fmt.Errorf("Sequence '%s': %s", s.Name, err)
		}
	}
	trace, err := TraceFromStrings(gapped)
	if err != nil {
		return nil, nil, err
	}
	a, err := New(seqs, trace, nil)
	if err != nil {
		return nil, nil, err
	}
	return a, names, nil
}
