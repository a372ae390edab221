package structure

import (
	"fmt"
)

// CAlphas returns the carbon-alpha atoms of the polymer residues of a chain
// whose residue IDs are in the inclusive range start-end.
func (arr AtomArray) CAlphas(chain string, start, end int) AtomArray {
	return arr.Filter(func(a Atom) bool {
		return a.ChainID == chain && !a.Hetero && a.AtomName == "CA" &&
			a.ResID >= start && a.ResID <= end
	})
}

// ChainRMSD computes the RMSD between two residue ranges, each taken from a
// chain of a structure. Only carbon-alpha atoms are used.
//
// An error is returned if a range does not select any carbon-alpha atoms,
// or if the ranges select a different number of them.
func ChainRMSD(arr1 AtomArray, chain1 string, start1, end1 int,
	arr2 AtomArray, chain2 string, start2, end2 int) (float64, error) {

	ca1 := arr1.CAlphas(chain1, start1, end1)
	if len(ca1) == 0 {
		return 0, fmt.Errorf("The range '%d-%d' of chain '%s' does not "+
			"contain any carbon-alpha atoms.", start1, end1, chain1)
	}
	ca2 := arr2.CAlphas(chain2, start2, end2)
	if len(ca2) == 0 {
		return 0, fmt.Errorf("The range '%d-%d' of chain '%s' does not "+
			"contain any carbon-alpha atoms.", start2, end2, chain2)
	}

	// Missing carbon-alpha atoms make the ranges incomparable.
	if len(ca1) != len(ca2) {
		return 0, fmt.Errorf("The range '%d-%d' (%d carbon-alpha atoms of "+
			"chain '%s') does not correspond to the same number of atoms as "+
			"the range '%d-%d' (%d carbon-alpha atoms of chain '%s').",
			start1, end1, len(ca1), chain1, start2, end2, len(ca2), chain2)
	}
	return RMSD(ca1, ca2)
}
