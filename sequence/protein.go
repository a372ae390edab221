package sequence

import (
	"fmt"
)

// AminoThreeToOne is a map from three letter amino acids to their
// corresponding single letter representation. Non standard residues that
// frequently show up in structure files are mapped to 'X'.
var AminoThreeToOne = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"ASX": 'B', "GLX": 'Z', "UNK": 'X', "MSE": 'M',
	"SEC": 'X', "PYL": 'X', "ACE": 'X', "NH2": 'X',
}

// AminoOneToThree is the reverse of AminoThreeToOne for the letters of
// ProteinAlphabet. It is created in this package's 'init' function.
var AminoOneToThree = map[byte]string{}

func init() {
	la, ga := ProteinAlphabet, ThreeLetterProteinAlphabet
	for code := 0; code < la.Len(); code++ {
		AminoOneToThree[la.letters[code]] = ga.symbols[code]
	}
}

// ThreeLetter returns the protein sequence encoded with three letter codes.
// The one and three letter alphabets share their codes, so no conversion
// of the code itself is necessary.
func (s *Sequence) ThreeLetter() (*Sequence, error) {
	if s.alphabet != Alphabet(ProteinAlphabet) {
		return nil, fmt.Errorf("Only one letter protein sequences can be "+
			"converted to three letter codes, but this sequence uses the "+
			"%s alphabet.", s.alphabet.Name())
	}
	code := make([]uint8, len(s.code))
	copy(code, s.code)
	return &Sequence{ThreeLetterProteinAlphabet, Protein, code}, nil
}

// OneLetter is the inverse of ThreeLetter.
func (s *Sequence) OneLetter() (*Sequence, error) {
	if s.alphabet != Alphabet(ThreeLetterProteinAlphabet) {
		return nil, fmt.Errorf("Only three letter protein sequences can be "+
			"converted to one letter codes, but this sequence uses the "+
			"%s alphabet.", s.alphabet.Name())
	}
	code := make([]uint8, len(s.code))
	copy(code, s.code)
	return &Sequence{ProteinAlphabet, Protein, code}, nil
}
