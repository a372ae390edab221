// Package align provides the alignment type shared by the FASTA, MSA and
// application packages, and profiles computed from alignments.
package align

import (
	"fmt"
	"strings"

	"github.com/Dr-Moreb/biotite/sequence"
)

// Gap is the trace value of a gap.
const Gap = -1

// Alignment is a pairwise or multiple sequence alignment.
//
// The aligned sequences are stored without gaps. The trace has one row per
// alignment column and one entry per sequence: the position of the aligned
// symbol in its sequence, or Gap.
type Alignment struct {
	Sequences []*sequence.Sequence
	Trace     [][]int

	// Score is nil if the alignment was not scored (e.g. when read from a
	// file).
	Score *int
}

// New creates an alignment and checks that the trace is consistent with the
// sequences: every row has one entry per sequence, and the non gap positions
// of every sequence are strictly increasing and in range.
func New(seqs []*sequence.Sequence, trace [][]int, score *int) (*Alignment, error) {
	last := make([]int, len(seqs))
	for i := range last {
		last[i] = -1
	}
	for col, row := range trace {
		if len(row) != len(seqs) {
			return nil, fmt.Errorf("Trace column %d has %d entries, but "+
				"there are %d sequences.", col, len(row), len(seqs))
		}
		for i, pos := range row {
			if pos == Gap {
				continue
			}
			if pos <= last[i] || pos >= seqs[i].Len() {
				return nil, fmt.Errorf("Trace column %d has invalid position "+
					"%d for sequence %d (length %d).",
					col, pos, i, seqs[i].Len())
			}
			last[i] = pos
		}
	}
	return &Alignment{Sequences: seqs, Trace: trace, Score: score}, nil
}

// TraceFromStrings creates a trace from gapped sequence strings, where '-'
// denotes a gap. All strings must have the same length.
func TraceFromStrings(gapped []string) ([][]int, error) {
	if len(gapped) == 0 {
		return nil, nil
	}
	n := len(gapped[0])
	for i, s := range gapped {
		if len(s) != n {
			return nil, fmt.Errorf("Gapped sequence %d has length %d, but "+
				"other sequences have length %d.", i, len(s), n)
		}
	}

	trace := make([][]int, n)
	pos := make([]int, len(gapped))
	for col := 0; col < n; col++ {
		trace[col] = make([]int, len(gapped))
		for i, s := range gapped {
			if s[col] == '-' {
				trace[col][i] = Gap
			} else {
				trace[col][i] = pos[i]
				pos[i]++
			}
		}
	}
	return trace, nil
}

// Len returns the number of alignment columns.
func (a *Alignment) Len() int {
	return len(a.Trace)
}

// GappedStrings returns one string per sequence with gaps written as '-'.
// Every symbol must be a single letter, otherwise its first byte is used.
func (a *Alignment) GappedStrings() []string {
	symbols := make([][]string, len(a.Sequences))
	for i, s := range a.Sequences {
		symbols[i] = s.Symbols()
	}
	rows := make([]strings.Builder, len(a.Sequences))
	for _, col := range a.Trace {
		for i, pos := range col {
			if pos == Gap {
				rows[i].WriteByte('-')
			} else {
				rows[i].WriteString(symbols[i][pos])
			}
		}
	}
	out := make([]string, len(rows))
	for i := range rows {
		out[i] = rows[i].String()
	}
	return out
}

// String returns the gapped sequences, one per line.
func (a *Alignment) String() string {
	return strings.Join(a.GappedStrings(), "\n")
}

// Columns returns the sub alignment of the columns [start, end). The
// sequences are shared, the trace is copied.
func (a *Alignment) Columns(start, end int) *Alignment {
	trace := make([][]int, end-start)
	for i := range trace {
		trace[i] = append([]int(nil), a.Trace[start+i]...)
	}
	return &Alignment{Sequences: a.Sequences, Trace: trace}
}

// Reorder returns an alignment whose i'th sequence is the order[i]'th
// sequence of this alignment.
func (a *Alignment) Reorder(order []int) (*Alignment, error) {
	if len(order) != len(a.Sequences) {
		return nil, fmt.Errorf("Order has %d entries, but the alignment has "+
			"%d sequences.", len(order), len(a.Sequences))
	}
	seen := make([]bool, len(order))
	seqs := make([]*sequence.Sequence, len(order))
	for i, o := range order {
		if o < 0 || o >= len(order) || seen[o] {
			return nil, fmt.Errorf("Order %v is not a permutation.", order)
		}
		seen[o] = true
		seqs[i] = a.Sequences[o]
	}
	trace := make([][]int, len(a.Trace))
	for col, row := range a.Trace {
		trace[col] = make([]int, len(order))
		for i, o := range order {
			trace[col][i] = row[o]
		}
	}
	return &Alignment{Sequences: seqs, Trace: trace, Score: a.Score}, nil
}

// Identity returns the fraction of columns without gaps in which all
// sequences have the same symbol, relative to the number of columns without
// gaps. An alignment without such columns has identity 0.
func (a *Alignment) Identity() float64 {
	var ungapped, identical int
COLUMNS:
	for _, col := range a.Trace {
		for _, pos := range col {
			if pos == Gap {
				continue COLUMNS
			}
		}
		ungapped++
		first := a.Sequences[0].Code()[col[0]]
		same := true
		for i := 1; i < len(col); i++ {
			if a.Sequences[i].Code()[col[i]] != first {
				same = false
				break
			}
		}
		if same {
			identical++
		}
	}
	if ungapped == 0 {
		return 0
	}
	return float64(identical) / float64(ungapped)
}
