package sequence

import (
	"fmt"
	"strings"
)

// Kind describes what a sequence represents.
type Kind int

const (
	General Kind = iota
	Nucleotide
	Protein
)

func (k Kind) String() string {
	switch k {
	case General:
		return "general"
	case Nucleotide:
		return "nucleotide"
	case Protein:
		return "protein"
	}
	panic(fmt.Sprintf("BUG: Unknown sequence kind %d.", int(k)))
}

// Sequence is a list of symbols encoded with an alphabet.
//
// Sequence values should be created with one of the constructors in this
// package. The zero value is an empty general sequence without an alphabet.
type Sequence struct {
	alphabet Alphabet
	kind     Kind
	code     []uint8
}

// NewNucleotide creates a nucleotide sequence from a string of bases. Lower
// case letters are accepted. The unambiguous alphabet is used if every base
// is one of ACGT, otherwise the ambiguous IUPAC alphabet is tried.
func NewNucleotide(s string) (*Sequence, error) {
	s = strings.ToUpper(s)
	if code, err := NucleotideAlphabet.EncodeLetters(s); err == nil {
		return &Sequence{NucleotideAlphabet, Nucleotide, code}, nil
	}
	code, err := AmbiguousNucleotideAlphabet.EncodeLetters(s)
	if err != nil {
		return nil, err
	}
	return &Sequence{AmbiguousNucleotideAlphabet, Nucleotide, code}, nil
}

// NewProtein creates a protein sequence from one letter amino acid codes.
// Lower case letters are accepted. Selenocysteine (U) and pyrrolysine (O)
// are stored as cysteine and lysine.
func NewProtein(s string) (*Sequence, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case 'U', 'u':
			return 'C'
		case 'O', 'o':
			return 'K'
		}
		return r
	}, s)
	code, err := ProteinAlphabet.EncodeLetters(strings.ToUpper(s))
	if err != nil {
		return nil, err
	}
	return &Sequence{ProteinAlphabet, Protein, code}, nil
}

// NewSequence creates a sequence from an arbitrary alphabet and a list of
// symbols. If the alphabet is one of the predefined nucleotide or protein
// alphabets, the sequence gets the corresponding kind.
func NewSequence(alpha Alphabet, symbols []string) (*Sequence, error) {
	code := make([]uint8, len(symbols))
	for i, sym := range symbols {
		c, err := alpha.Code(sym)
		if err != nil {
			return nil, err
		}
		code[i] = c
	}
	return &Sequence{alpha, kindOf(alpha), code}, nil
}

// FromCode creates a sequence directly from a symbol code. The code slice is
// not copied. An error is returned if a code is out of range.
func FromCode(alpha Alphabet, code []uint8) (*Sequence, error) {
	for i, c := range code {
		if int(c) >= alpha.Len() {
			return nil, fmt.Errorf("Code %d at position %d is out of range "+
				"for the %s alphabet.", c, i, alpha.Name())
		}
	}
	return &Sequence{alpha, kindOf(alpha), code}, nil
}

func kindOf(alpha Alphabet) Kind {
	switch alpha {
	case Alphabet(NucleotideAlphabet), Alphabet(AmbiguousNucleotideAlphabet):
		return Nucleotide
	case Alphabet(ProteinAlphabet), Alphabet(ThreeLetterProteinAlphabet):
		return Protein
	}
	return General
}

// Alphabet returns the alphabet used to encode the sequence.
func (s *Sequence) Alphabet() Alphabet { return s.alphabet }

// Kind returns whether this is a nucleotide, protein or general sequence.
func (s *Sequence) Kind() Kind { return s.kind }

// Code returns the encoded symbols. The returned slice must not be modified.
func (s *Sequence) Code() []uint8 { return s.code }

// Len returns the number of symbols in the sequence.
func (s *Sequence) Len() int { return len(s.code) }

// Ambiguous returns true for nucleotide sequences using the IUPAC alphabet.
func (s *Sequence) Ambiguous() bool {
	return s.alphabet == Alphabet(AmbiguousNucleotideAlphabet)
}

// IsLetter returns true if every symbol of the sequence is a single letter.
func (s *Sequence) IsLetter() bool {
	_, ok := s.alphabet.(*LetterAlphabet)
	return ok
}

// Symbols returns the decoded symbols of the sequence.
func (s *Sequence) Symbols() []string {
	syms := make([]string, len(s.code))
	for i, c := range s.code {
		syms[i] = s.alphabet.Symbol(c)
	}
	return syms
}

// String returns the decoded sequence. Symbols of general alphabets are
// separated by a single space.
func (s *Sequence) String() string {
	if s.alphabet == nil {
		return ""
	}
	if la, ok := s.alphabet.(*LetterAlphabet); ok {
		return la.DecodeLetters(s.code)
	}
	return strings.Join(s.Symbols(), " ")
}

// Slice returns the subsequence [start, end). The code is copied.
func (s *Sequence) Slice(start, end int) *Sequence {
	if start < 0 || start > end || end > len(s.code) {
		panic(fmt.Sprintf("Invalid slice [%d, %d) of a sequence with "+
			"length %d.", start, end, len(s.code)))
	}
	code := make([]uint8, end-start)
	copy(code, s.code[start:end])
	return &Sequence{s.alphabet, s.kind, code}
}

// Concat returns a new sequence with the symbols of other appended. Both
// sequences must share the same alphabet.
func (s *Sequence) Concat(other *Sequence) (*Sequence, error) {
	if s.alphabet != other.alphabet {
		return nil, fmt.Errorf("Cannot concatenate a sequence using the %s "+
			"alphabet with one using the %s alphabet.",
			s.alphabet.Name(), other.alphabet.Name())
	}
	code := make([]uint8, 0, len(s.code)+len(other.code))
	code = append(code, s.code...)
	code = append(code, other.code...)
	return &Sequence{s.alphabet, s.kind, code}, nil
}

// Copy returns a deep copy of the sequence.
func (s *Sequence) Copy() *Sequence {
	return s.Slice(0, len(s.code))
}

// Equal returns true if both sequences use the same alphabet and symbols.
func (s *Sequence) Equal(other *Sequence) bool {
	if s.alphabet != other.alphabet || len(s.code) != len(other.code) {
		return false
	}
	for i := range s.code {
		if s.code[i] != other.code[i] {
			return false
		}
	}
	return true
}
