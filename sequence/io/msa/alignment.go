package msa

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/TuftsBCB/seq"

	"github.com/Dr-Moreb/biotite/sequence/align"
	"github.com/Dr-Moreb/biotite/sequence/io/fasta"
)

// Format is a multiple sequence alignment file format.
type Format int

const (
	FormatFasta Format = iota
	FormatA2M
	FormatA3M
	FormatStockholm
)

var formatNames = map[Format]string{
	FormatFasta:     "fasta",
	FormatA2M:       "a2m",
	FormatA3M:       "a3m",
	FormatStockholm: "stockholm",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat returns the format with the given name ("fasta", "a2m", "a3m"
// or "stockholm"). Common file suffixes ("fa", "fas", "sto", "sth") are
// accepted as well.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "fasta", "fa", "fas", "afa":
		return FormatFasta, nil
	case "a2m":
		return FormatA2M, nil
	case "a3m":
		return FormatA3M, nil
	case "stockholm", "sto", "sth":
		return FormatStockholm, nil
	}
	return 0, fmt.Errorf("Unknown alignment format '%s'.", name)
}

// FormatFromPath determines the format from the suffix of a file name.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// ReadMSA reads an MSA in the given format.
func ReadMSA(r io.Reader, format Format) (seq.MSA, error) {
	switch format {
	case FormatFasta:
		return ReadFasta(r)
	case FormatStockholm:
		return ReadStockholm(r)
	}
	return Read(r)
}

// WriteMSA writes an MSA in the given format.
func WriteMSA(w io.Writer, format Format, msa seq.MSA) error {
	switch format {
	case FormatFasta:
		return WriteFasta(w, msa)
	case FormatA2M:
		return WriteA2M(w, msa)
	case FormatA3M:
		return WriteA3M(w, msa)
	case FormatStockholm:
		return WriteStockholm(w, msa)
	}
	return fmt.Errorf("Unknown alignment format %s.", format)
}

// ReadAlignment reads an alignment in the given format and returns it
// together with the names of its sequences. The type of every sequence is
// detected the same way as for FASTA files.
func ReadAlignment(r io.Reader, format Format) (*align.Alignment, []string, error) {
	msa, err := ReadMSA(r, format)
	if err != nil {
		return nil, nil, err
	}
	return align.FromMSA(msa, fasta.DetectSequence)
}

// WriteAlignment writes an alignment in the given format. The i'th sequence
// gets the i'th name.
func WriteAlignment(
	w io.Writer,
	format Format,
	a *align.Alignment,
	names []string,
) error {
	msa, err := a.ToMSA(names)
	if err != nil {
		return err
	}
	return WriteMSA(w, format, msa)
}
