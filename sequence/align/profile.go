package align

import (
	"fmt"
	"math"

	"github.com/Dr-Moreb/biotite/sequence"
)

// Profile holds symbol counts for every column of an alignment.
type Profile struct {
	Alphabet sequence.Alphabet

	// Counts[col][code] is the number of sequences with symbol 'code' in
	// column 'col'.
	Counts [][]int

	// Gaps[col] is the number of gaps in column 'col'.
	Gaps []int
}

// NewProfile counts the symbols of an alignment. All sequences must share
// the same alphabet.
func NewProfile(a *Alignment) (*Profile, error) {
	if len(a.Sequences) == 0 {
		return nil, fmt.Errorf("Cannot build a profile of an empty alignment.")
	}
	alpha := a.Sequences[0].Alphabet()
	for i, s := range a.Sequences {
		if s.Alphabet() != alpha {
			return nil, fmt.Errorf("Sequence %d uses the %s alphabet, but "+
				"sequence 0 uses the %s alphabet.",
				i, s.Alphabet().Name(), alpha.Name())
		}
	}

	p := &Profile{
		Alphabet: alpha,
		Counts:   make([][]int, len(a.Trace)),
		Gaps:     make([]int, len(a.Trace)),
	}
	for col, row := range a.Trace {
		p.Counts[col] = make([]int, alpha.Len())
		for i, pos := range row {
			if pos == Gap {
				p.Gaps[col]++
				continue
			}
			p.Counts[col][a.Sequences[i].Code()[pos]]++
		}
	}
	return p, nil
}

// Len returns the number of columns.
func (p *Profile) Len() int {
	return len(p.Counts)
}

// Conservation returns the information content (in bits) of every column,
// which is the height of the column in a sequence logo. Gaps are ignored,
// and a column consisting only of gaps has no information.
func (p *Profile) Conservation() []float64 {
	maxEntropy := math.Log2(float64(p.Alphabet.Len()))
	bits := make([]float64, len(p.Counts))
	for col, counts := range p.Counts {
		total := 0
		for _, c := range counts {
			total += c
		}
		if total == 0 {
			continue
		}
		entropy := 0.0
		for _, c := range counts {
			if c == 0 {
				continue
			}
			freq := float64(c) / float64(total)
			entropy -= freq * math.Log2(freq)
		}
		bits[col] = maxEntropy - entropy
	}
	return bits
}

// Consensus returns the most frequent symbol of every column. Ties are
// broken in favor of the symbol with the lower code. Columns without any
// symbol are written as '-'.
func (p *Profile) Consensus() string {
	out := make([]byte, 0, len(p.Counts))
	for _, counts := range p.Counts {
		best, bestCount := -1, 0
		for code, c := range counts {
			if c > bestCount {
				best, bestCount = code, c
			}
		}
		if best < 0 {
			out = append(out, '-')
			continue
		}
		out = append(out, p.Alphabet.Symbol(uint8(best))[0])
	}
	return string(out)
}
