// Package msa reads and writes multiple sequence alignments in aligned
// FASTA, A2M, A3M and Stockholm formats.
//
// The MSA type of github.com/TuftsBCB/seq is used to represent insertion
// columns (lower case residues and '.' characters) faithfully. ReadAlignment
// and WriteAlignment convert to and from the alignment type of the align
// package.
package msa

import (
	"bytes"
	"fmt"
	"io"

	"github.com/TuftsBCB/seq"

	"github.com/Dr-Moreb/biotite/sequence/io/fasta"
)

func translateA2M(b byte) (byte, bool) {
	switch {
	case b >= 'a' && b <= 'z':
		return b, true
	case b >= 'A' && b <= 'Z':
		return b, true
	case b == '*', b == '-', b == '.':
		return b, true
	}
	return 0, false
}

// Read will read a single MSA from the input, where the input can be
// formatted in A2M or A3M formats, or in aligned FASTA format without lower
// case residues. Sequences are read until io.EOF.
//
// Aligned FASTA with insertions (lower case residues in columns where the
// other sequences have '-') must be read with ReadFasta.
func Read(reader io.Reader) (seq.MSA, error) {
	r := fasta.NewReader(reader)
	r.TrustSequences = false
	return read(r, add)
}

// ReadTrusted will read a single MSA from trusted input, where the input can
// be formatted in FASTA, A2M or A3M formats. Sequences are read until io.EOF.
//
// "Trust" in this context means that the input doesn't contain any illegal
// characters in the sequence. Trusting the input should be faster.
func ReadTrusted(reader io.Reader) (seq.MSA, error) {
	r := fasta.NewReader(reader)
	r.TrustSequences = true
	return read(r, add)
}

// ReadFasta will read a single MSA from the input in aligned FASTA format,
// where all sequences have the same length and a lower case residue makes its
// column an insertion column. Sequences are read until io.EOF.
//
// This reads back what WriteFasta writes.
func ReadFasta(reader io.Reader) (seq.MSA, error) {
	r := fasta.NewReader(reader)
	r.TrustSequences = false
	return read(r, addFasta)
}

func read(r *fasta.Reader, adder func(*seq.MSA, seq.Sequence) error) (seq.MSA, error) {
	msa := seq.NewMSA()
	for {
		s, err := readSequence(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return seq.MSA{}, err
		}
		if err := adder(&msa, s); err != nil {
			return seq.MSA{}, err
		}
	}
	return msa, nil
}

// matchColumns is the number of match and deletion columns of an A2M or A3M
// formatted sequence.
func matchColumns(s seq.Sequence) int {
	n := 0
	for _, r := range s.Residues {
		if r.HMMState() != seq.Insertion {
			n++
		}
	}
	return n
}

// add appends the A2M or A3M formatted s to the MSA. Its number of match and
// deletion columns must equal that of the sequences already added, since
// seq.MSA.Add pads short sequences.
func add(msa *seq.MSA, s seq.Sequence) error {
	if len(msa.Entries) > 0 {
		if got, want := matchColumns(s), matchColumns(msa.Entries[0]); got != want {
			return fmt.Errorf("Sequence '%s' has %d match columns, but other "+
				"sequences have %d.", s.Name, got, want)
		}
	}
	msa.Add(s)
	return nil
}

// addFasta appends the aligned FASTA formatted s to the MSA. It must have the
// length of the sequences already added.
func addFasta(msa *seq.MSA, s seq.Sequence) error {
	if len(msa.Entries) > 0 && s.Len() != msa.Len() {
		return fmt.Errorf("Sequence '%s' has length %d, but other "+
			"sequences have length %d.", s.Name, s.Len(), msa.Len())
	}
	msa.AddFasta(s)
	return nil
}

func readSequence(r *fasta.Reader) (seq.Sequence, error) {
	// A2M encompasses FASTA/A3M.
	entry, err := r.ReadEntry(translateA2M)
	if entry.Header == "" && entry.Sequence == nil {
		if err == nil {
			err = fmt.Errorf("Entry without a header or residues.")
		}
		return seq.Sequence{}, err
	}
	if err != nil && err != io.EOF {
		return seq.Sequence{}, err
	}
	residues := bytes.Replace(entry.Sequence, []byte("*"), nil, -1)
	return seq.NewSequenceString(entry.Header, string(residues)), nil
}

type formatSeq func(row int) seq.Sequence

// WriteFasta writes a multiple sequence alignment to the output in aligned
// FASTA format. Aligned FASTA format uses upper case characters to indicate
// matches, lower case characters to indicate insertions, and '-' characters
// to indicate deletions/insertions.
func WriteFasta(w io.Writer, msa seq.MSA) error {
	formatter := func(row int) seq.Sequence {
		return msa.GetFasta(row)
	}
	return write(w, msa, formatter)
}

// WriteA2M writes a multiple sequence alignment to the output in
// A2M format. A2M format uses upper case characters to indicate
// matches, lower case and '.' characters to indicate insertions, and '-'
// characters to indicate deletions.
func WriteA2M(w io.Writer, msa seq.MSA) error {
	formatter := func(row int) seq.Sequence {
		return msa.GetA2M(row)
	}
	return write(w, msa, formatter)
}

// WriteA3M writes a multiple sequence alignment to the output in
// A3M format. A3M format uses upper case characters to indicate
// matches, lower case characters to indicate insertions, and '-'
// characters to indicate deletions.
//
// A3M format is a more compact way to write an MSA than FASTA or A2M.
func WriteA3M(w io.Writer, msa seq.MSA) error {
	formatter := func(row int) seq.Sequence {
		return msa.GetA3M(row)
	}
	return write(w, msa, formatter)
}

func write(writer io.Writer, msa seq.MSA, formatter formatSeq) error {
	w := fasta.NewWriter(writer)
	for row := range msa.Entries {
		s := formatter(row)
		entry := fasta.Entry{Header: s.Name, Sequence: s.Bytes()}
		if err := w.Write(entry); err != nil {
			return err
		}
	}
	return w.Flush()
}
