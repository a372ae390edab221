package sequence

import (
	"fmt"
)

var complement [256]byte

func init() {
	for _, c := range [][2]byte{
		{'A', 'T'}, {'C', 'G'}, {'R', 'Y'}, {'S', 'S'}, {'W', 'W'},
		{'K', 'M'}, {'B', 'V'}, {'D', 'H'}, {'N', 'N'},
	} {
		complement[c[0]], complement[c[1]] = c[1], c[0]
	}
}

// Complement returns the complementary strand of a nucleotide sequence (not
// reversed). Ambiguous codes are complemented as well, e.g. R <-> Y.
func (s *Sequence) Complement() (*Sequence, error) {
	if s.kind != Nucleotide {
		return nil, fmt.Errorf("Only nucleotide sequences have a "+
			"complement, but this is a %s sequence.", s.kind)
	}
	la := s.alphabet.(*LetterAlphabet)
	code := make([]uint8, len(s.code))
	for i, c := range s.code {
		code[i], _ = la.CodeLetter(complement[la.letters[c]])
	}
	return &Sequence{s.alphabet, s.kind, code}, nil
}

// ReverseComplement returns the reverse complement of a nucleotide
// sequence. The complement is computed by biogo.
func (s *Sequence) ReverseComplement() (*Sequence, error) {
	if s.kind != Nucleotide {
		return nil, fmt.Errorf("Only nucleotide sequences have a reverse "+
			"complement, but this is a %s sequence.", s.kind)
	}
	bs, err := s.ToBiogo("")
	if err != nil {
		return nil, err
	}
	bs.RevComp()
	rc, err := FromBiogo(bs)
	if err != nil {
		return nil, err
	}

	// biogo knows a single redundant alphabet, so keep ours.
	if rc.alphabet != s.alphabet {
		return FromCode(s.alphabet, mustEncode(s.alphabet, rc.String()))
	}
	return rc, nil
}

func mustEncode(alpha Alphabet, s string) []uint8 {
	code, err := alpha.(*LetterAlphabet).EncodeLetters(s)
	if err != nil {
		panic(err)
	}
	return code
}

// standardCode is the standard genetic code. Stop codons translate to '*'.
var standardCode = map[string]byte{
	"ATA": 'I', "ATC": 'I', "ATT": 'I', "ATG": 'M',
	"ACA": 'T', "ACC": 'T', "ACG": 'T', "ACT": 'T',
	"AAC": 'N', "AAT": 'N', "AAA": 'K', "AAG": 'K',
	"AGC": 'S', "AGT": 'S', "AGA": 'R', "AGG": 'R',
	"CTA": 'L', "CTC": 'L', "CTG": 'L', "CTT": 'L',
	"CCA": 'P', "CCC": 'P', "CCG": 'P', "CCT": 'P',
	"CAC": 'H', "CAT": 'H', "CAA": 'Q', "CAG": 'Q',
	"CGA": 'R', "CGC": 'R', "CGG": 'R', "CGT": 'R',
	"GTA": 'V', "GTC": 'V', "GTG": 'V', "GTT": 'V',
	"GCA": 'A', "GCC": 'A', "GCG": 'A', "GCT": 'A',
	"GAC": 'D', "GAT": 'D', "GAA": 'E', "GAG": 'E',
	"GGA": 'G', "GGC": 'G', "GGG": 'G', "GGT": 'G',
	"TCA": 'S', "TCC": 'S', "TCG": 'S', "TCT": 'S',
	"TTC": 'F', "TTT": 'F', "TTA": 'L', "TTG": 'L',
	"TAC": 'Y', "TAT": 'Y', "TAA": '*', "TAG": '*',
	"TGC": 'C', "TGT": 'C', "TGA": '*', "TGG": 'W',
}

// Translate translates a nucleotide sequence into a protein sequence with
// the standard genetic code, starting at the first base. Trailing bases that
// do not form a complete codon are ignored. Codons containing ambiguous
// bases translate to 'X'.
func (s *Sequence) Translate() (*Sequence, error) {
	if s.kind != Nucleotide {
		return nil, fmt.Errorf("Only nucleotide sequences can be "+
			"translated, but this is a %s sequence.", s.kind)
	}
	bases := s.String()
	aminos := make([]byte, 0, len(bases)/3)
	for i := 0; i+3 <= len(bases); i += 3 {
		amino, ok := standardCode[bases[i:i+3]]
		if !ok {
			amino = 'X'
		}
		aminos = append(aminos, amino)
	}
	return NewProtein(string(aminos))
}
