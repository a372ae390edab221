package sequence

import (
	"fmt"
	"strings"
)

// An Alphabet maps the symbols of a sequence to integer codes and back.
// Codes are always in the range [0, Len()).
type Alphabet interface {
	// Name is a short human readable name used in error messages.
	Name() string

	// Len returns the number of symbols in the alphabet.
	Len() int

	// Symbol returns the symbol for the given code. It panics if the code
	// is out of range.
	Symbol(code uint8) string

	// Code returns the code of the given symbol. If the symbol is not part
	// of the alphabet, an *AlphabetError is returned.
	Code(symbol string) (uint8, error)
}

// AlphabetError is returned whenever a symbol cannot be encoded with an
// alphabet.
type AlphabetError struct {
	Symbol   string
	Alphabet string
}

func (e *AlphabetError) Error() string {
	return fmt.Sprintf("Symbol '%s' is not in the %s alphabet.",
		e.Symbol, e.Alphabet)
}

// LetterAlphabet is an alphabet whose symbols are all single bytes.
// Encoding is case sensitive.
type LetterAlphabet struct {
	name    string
	letters []byte
	codes   [256]int16
}

// NewLetterAlphabet creates an alphabet from the letters given. The code of
// each letter is its position in the string. Duplicate letters panic.
func NewLetterAlphabet(name, letters string) *LetterAlphabet {
	a := &LetterAlphabet{
		name:    name,
		letters: []byte(letters),
	}
	for i := range a.codes {
		a.codes[i] = -1
	}
	for i, b := range a.letters {
		if a.codes[b] != -1 {
			panic(fmt.Sprintf("Letter '%c' appears twice in alphabet %s.",
				b, name))
		}
		a.codes[b] = int16(i)
	}
	return a
}

func (a *LetterAlphabet) Name() string { return a.name }

func (a *LetterAlphabet) Len() int { return len(a.letters) }

func (a *LetterAlphabet) Symbol(code uint8) string {
	return string(a.letters[code])
}

func (a *LetterAlphabet) Code(symbol string) (uint8, error) {
	if len(symbol) != 1 {
		return 0, &AlphabetError{Symbol: symbol, Alphabet: a.name}
	}
	return a.CodeLetter(symbol[0])
}

// CodeLetter returns the code of a single letter.
func (a *LetterAlphabet) CodeLetter(b byte) (uint8, error) {
	c := a.codes[b]
	if c < 0 {
		return 0, &AlphabetError{Symbol: string(b), Alphabet: a.name}
	}
	return uint8(c), nil
}

// Contains returns true if the letter is part of this alphabet.
func (a *LetterAlphabet) Contains(b byte) bool {
	return a.codes[b] >= 0
}

// Letters returns all letters of the alphabet in code order.
func (a *LetterAlphabet) Letters() string {
	return string(a.letters)
}

// EncodeLetters encodes every letter in s. The first letter that is not
// part of the alphabet stops encoding and is reported as an *AlphabetError.
func (a *LetterAlphabet) EncodeLetters(s string) ([]uint8, error) {
	code := make([]uint8, len(s))
	for i := 0; i < len(s); i++ {
		c, err := a.CodeLetter(s[i])
		if err != nil {
			return nil, err
		}
		code[i] = c
	}
	return code, nil
}

// DecodeLetters is the inverse of EncodeLetters.
func (a *LetterAlphabet) DecodeLetters(code []uint8) string {
	bs := make([]byte, len(code))
	for i, c := range code {
		bs[i] = a.letters[c]
	}
	return string(bs)
}

// GeneralAlphabet is an alphabet of arbitrary (multi character) symbols,
// like three letter amino acid codes. Sequences using a general alphabet
// cannot be stored in FASTA files.
type GeneralAlphabet struct {
	name    string
	symbols []string
	codes   map[string]uint8
}

// NewGeneralAlphabet creates an alphabet from the symbols given. There may
// be at most 256 symbols.
func NewGeneralAlphabet(name string, symbols ...string) *GeneralAlphabet {
	if len(symbols) > 256 {
		panic(fmt.Sprintf("Alphabet %s has %d symbols, but at most 256 "+
			"are allowed.", name, len(symbols)))
	}
	a := &GeneralAlphabet{
		name:    name,
		symbols: symbols,
		codes:   make(map[string]uint8, len(symbols)),
	}
	for i, sym := range symbols {
		a.codes[sym] = uint8(i)
	}
	return a
}

func (a *GeneralAlphabet) Name() string { return a.name }

func (a *GeneralAlphabet) Len() int { return len(a.symbols) }

func (a *GeneralAlphabet) Symbol(code uint8) string {
	return a.symbols[code]
}

func (a *GeneralAlphabet) Code(symbol string) (uint8, error) {
	c, ok := a.codes[symbol]
	if !ok {
		return 0, &AlphabetError{Symbol: symbol, Alphabet: a.name}
	}
	return c, nil
}

func (a *GeneralAlphabet) String() string {
	return fmt.Sprintf("%s(%s)", a.name, strings.Join(a.symbols, ","))
}

var (
	// NucleotideAlphabet contains the four unambiguous DNA bases.
	NucleotideAlphabet = NewLetterAlphabet("nucleotide", "ACGT")

	// AmbiguousNucleotideAlphabet contains the IUPAC nucleotide codes.
	AmbiguousNucleotideAlphabet = NewLetterAlphabet("ambiguous nucleotide",
		"ACGTRYWSMKHBVDN")

	// ProteinAlphabet contains the 20 standard amino acids, the ambiguous
	// codes B, Z and X and the stop signal '*'.
	ProteinAlphabet = NewLetterAlphabet("protein",
		"ACDEFGHIKLMNPQRSTVWYBZX*")

	// ThreeLetterProteinAlphabet mirrors ProteinAlphabet with three letter
	// codes. Its symbol order is identical to ProteinAlphabet.
	ThreeLetterProteinAlphabet = NewGeneralAlphabet("three letter protein",
		"ALA", "CYS", "ASP", "GLU", "PHE", "GLY", "HIS", "ILE", "LYS", "LEU",
		"MET", "ASN", "PRO", "GLN", "ARG", "SER", "THR", "VAL", "TRP", "TYR",
		"ASX", "GLX", "UNK", "STOP")
)
