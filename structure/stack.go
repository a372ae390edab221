package structure

import (
	"fmt"

	"github.com/Dr-Moreb/biotite/sequence"
)

// AtomArrayStack holds several models of the same atoms.
type AtomArrayStack struct {
	// Atoms holds the annotations of every atom. The coordinates stored in
	// it are those of the first model.
	Atoms AtomArray

	// Models[m][i] is the position of atom i in model m.
	Models [][]Coord

	// Box is the unit cell, if known.
	Box *Box
}

// NewStack creates a stack from the atom arrays of its models. Every model
// must have the same atoms with the same annotations in the same order.
func NewStack(models ...AtomArray) (*AtomArrayStack, error) {
	if len(models) == 0 {
		return nil, fmt.Errorf("A stack needs at least one model.")
	}
	first := models[0]
	s := &AtomArrayStack{Atoms: first}
	for m, model := range models {
		if len(model) != len(first) {
			return nil, fmt.Errorf("Model %d has %d atoms, but model 1 has "+
				"%d atoms.", m+1, len(model), len(first))
		}
		for i := range model {
			if !model[i].SameAnnotation(first[i]) {
				return nil, fmt.Errorf("Atom %d of model %d (%s) differs "+
					"from model 1 (%s).", i+1, m+1, model[i], first[i])
			}
		}
		s.Models = append(s.Models, model.Coords())
	}
	return s, nil
}

// Stack returns a stack with this array as its only model.
func (arr AtomArray) Stack() *AtomArrayStack {
	return &AtomArrayStack{Atoms: arr, Models: [][]Coord{arr.Coords()}}
}

// Len returns the number of models.
func (s *AtomArrayStack) Len() int {
	return len(s.Models)
}

// AtomCount returns the number of atoms per model.
func (s *AtomArrayStack) AtomCount() int {
	return len(s.Atoms)
}

// Model returns the atoms of model i (starting at 0).
func (s *AtomArrayStack) Model(i int) AtomArray {
	arr := make(AtomArray, len(s.Atoms))
	copy(arr, s.Atoms)
	for j := range arr {
		arr[j].Coord = s.Models[i][j]
	}
	return arr
}

// Array returns the first model.
func (s *AtomArrayStack) Array() AtomArray {
	return s.Model(0)
}

// AddModel appends a model. The coordinates must have one entry per atom.
func (s *AtomArrayStack) AddModel(coords []Coord) error {
	if len(coords) != len(s.Atoms) {
		return fmt.Errorf("Model has %d coordinates, but the stack has %d "+
			"atoms.", len(coords), len(s.Atoms))
	}
	s.Models = append(s.Models, coords)
	return nil
}

// WithCoords returns a stack that uses the annotations of s and the given
// models. This is how trajectories are combined with a template structure.
func (s *AtomArrayStack) WithCoords(models [][]Coord) (*AtomArrayStack, error) {
	out := &AtomArrayStack{Atoms: s.Atoms, Box: s.Box}
	for _, m := range models {
		if err := out.AddModel(m); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ChainSequence returns the one letter protein sequence of a chain, built
// from its residues (hetero residues excluded). Residues without a one
// letter code become 'X'.
func (arr AtomArray) ChainSequence(chain string) (*sequence.Sequence, error) {
	var letters []byte
	for _, r := range arr.Chain(chain).Residues() {
		if r.Hetero {
			continue
		}
		if l, ok := sequence.AminoThreeToOne[r.ResName]; ok {
			letters = append(letters, l)
		} else {
			letters = append(letters, 'X')
		}
	}
	if len(letters) == 0 {
		return nil, fmt.Errorf("Chain '%s' has no polymer residues.", chain)
	}
	return sequence.NewProtein(string(letters))
}
