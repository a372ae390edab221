package sequence

import (
	"fmt"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/feat"
	"github.com/biogo/biogo/seq/linear"
)

// ToBiogo converts a nucleotide or protein sequence into a biogo linear
// sequence, so that biogo's algorithms can be used on it.
func (s *Sequence) ToBiogo(id string) (*linear.Seq, error) {
	var alpha alphabet.Alphabet
	switch {
	case s.alphabet == Alphabet(NucleotideAlphabet):
		alpha = alphabet.DNA
	case s.alphabet == Alphabet(AmbiguousNucleotideAlphabet):
		alpha = alphabet.DNAredundant
	case s.alphabet == Alphabet(ProteinAlphabet):
		alpha = alphabet.Protein
	default:
		return nil, fmt.Errorf("Sequences using the %s alphabet have no "+
			"biogo equivalent.", s.alphabet.Name())
	}
	letters := alphabet.BytesToLetters([]byte(s.String()))
	return linear.NewSeq(id, letters, alpha), nil
}

// FromBiogo converts a biogo linear sequence back into a Sequence. Gaps are
// not allowed.
func FromBiogo(ls *linear.Seq) (*Sequence, error) {
	residues := string(alphabet.LettersToBytes(ls.Seq))
	if ls.Alphabet().Moltype() == feat.Protein {
		return NewProtein(residues)
	}
	return NewNucleotide(residues)
}
