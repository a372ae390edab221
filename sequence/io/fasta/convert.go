package fasta

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Dr-Moreb/biotite/sequence"
	"github.com/Dr-Moreb/biotite/sequence/align"
)

// DefaultHeader is used by SetSequence when no header is given.
const DefaultHeader = "sequence"

// ErrNoSequences is returned when the first sequence of an empty file is
// requested.
var ErrNoSequences = errors.New("File does not contain any sequences.")

// HeaderError is returned when a header is not present in a file.
type HeaderError struct {
	Header string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("Header '%s' not found.", e.Header)
}

// Record is a sequence together with its FASTA header.
type Record struct {
	Header   string
	Sequence *sequence.Sequence
}

// GetSequence returns the sequence of the entry with the given header. If
// header is empty, the first sequence of the file is returned.
//
// The sequence is a nucleotide sequence if the sequence string fits the
// unambiguous nucleotide alphabet, a protein sequence if it fits the protein
// alphabet, and an ambiguous nucleotide sequence otherwise.
func GetSequence(f *File, header string) (*sequence.Sequence, error) {
	if header == "" {
		if f.Len() == 0 {
			return nil, ErrNoSequences
		}
		e := f.entries[0]
		return DetectSequence(string(e.Sequence))
	}
	s, ok := f.Get(header)
	if !ok {
		return nil, &HeaderError{header}
	}
	return DetectSequence(s)
}

// GetSequences returns every sequence of the file in file order. The first
// sequence that cannot be converted aborts the conversion.
func GetSequences(f *File) ([]Record, error) {
	recs := make([]Record, f.Len())
	for i, e := range f.entries {
		s, err := DetectSequence(string(e.Sequence))
		if err != nil {
			return nil, fmt.Errorf("Sequence '%s': %s", e.Header, err)
		}
		recs[i] = Record{e.Header, s}
	}
	return recs, nil
}

// SequenceMap indexes records by their header.
func SequenceMap(recs []Record) map[string]*sequence.Sequence {
	m := make(map[string]*sequence.Sequence, len(recs))
	for _, r := range recs {
		m[r.Header] = r.Sequence
	}
	return m
}

// SetSequence stores a sequence under the given header, or DefaultHeader if
// header is empty. Only sequences with single letter alphabets can be
// stored.
func SetSequence(f *File, s *sequence.Sequence, header string) error {
	if header == "" {
		header = DefaultHeader
	}
	str, err := convertToString(s)
	if err != nil {
		return err
	}
	f.Set(header, str)
	return nil
}

// SetSequences stores all records in order. Nothing is stored if any
// sequence cannot be stored.
func SetSequences(f *File, recs []Record) error {
	strs := make([]string, len(recs))
	for i, r := range recs {
		var err error
		if strs[i], err = convertToString(r.Sequence); err != nil {
			return fmt.Errorf("Sequence '%s': %s", r.Header, err)
		}
	}
	for i, r := range recs {
		f.Set(r.Header, strs[i])
	}
	return nil
}

// GetAlignment reads every entry of the file as a row of an alignment.
// Every character in gapChars is treated as a gap in addition to '-'. If
// no gap characters are given, '_' is used.
//
// The score of the returned alignment is not set.
func GetAlignment(f *File, gapChars ...string) (*align.Alignment, error) {
	if f.Len() == 0 {
		return nil, ErrNoSequences
	}
	if len(gapChars) == 0 {
		gapChars = []string{"_"}
	}

	gapped := make([]string, f.Len())
	seqs := make([]*sequence.Sequence, f.Len())
	for i, e := range f.entries {
		s := string(e.Sequence)
		for _, c := range gapChars {
			s = strings.Replace(s, c, "-", -1)
		}
		gapped[i] = s

		var err error
		seqs[i], err = DetectSequence(strings.Replace(s, "-", "", -1))
		if err != nil {
			return nil, fmt.Errorf("Sequence '%s': %s", e.Header, err)
		}
	}
	trace, err := align.TraceFromStrings(gapped)
	if err != nil {
		return nil, err
	}
	return align.New(seqs, trace, nil)
}

// SetAlignment stores the gapped sequences of an alignment. The i'th
// sequence gets the i'th name.
func SetAlignment(f *File, a *align.Alignment, names []string) error {
	for i, s := range a.Sequences {
		if !s.IsLetter() {
			return fmt.Errorf("Sequence %d: %s", i, errNotLetter)
		}
	}
	gapped := a.GappedStrings()
	if len(gapped) != len(names) {
		return fmt.Errorf("Alignment has %d sequences, but %d names were "+
			"given.", len(gapped), len(names))
	}
	for i := range gapped {
		f.Set(names[i], gapped[i])
	}
	return nil
}

var errNotLetter = errors.New("Only sequences using single letter " +
	"alphabets can be stored in a FASTA file.")

// DetectSequence encodes a sequence string with the first alphabet that
// fits: unambiguous nucleotides, amino acids, ambiguous nucleotides. Lower
// case letters are accepted.
func DetectSequence(s string) (*sequence.Sequence, error) {
	s = strings.ToUpper(s)
	if code, err := sequence.NucleotideAlphabet.EncodeLetters(s); err == nil {
		return sequence.FromCode(sequence.NucleotideAlphabet, code)
	}
	if code, err := sequence.ProteinAlphabet.EncodeLetters(s); err == nil {
		return sequence.FromCode(sequence.ProteinAlphabet, code)
	}
	code, err := sequence.AmbiguousNucleotideAlphabet.EncodeLetters(s)
	if err != nil {
		return nil, errors.New("FASTA data cannot be converted either to a " +
			"nucleotide nor to a protein sequence.")
	}
	return sequence.FromCode(sequence.AmbiguousNucleotideAlphabet, code)
}

func convertToString(s *sequence.Sequence) (string, error) {
	if !s.IsLetter() {
		return "", errNotLetter
	}
	return s.String(), nil
}
