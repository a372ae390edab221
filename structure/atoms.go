// Package structure provides atom based representations of macromolecular
// structures.
//
// An AtomArray is a flat list of atoms, each carrying its annotations (chain,
// residue, atom name, element) and coordinates. An AtomArrayStack holds
// several models of the same atoms, which is how NMR ensembles and
// trajectories are represented: the annotations are shared, only the
// coordinates differ between models.
//
// The file formats are implemented in the sub packages of structure/io.
package structure

import (
	"fmt"
	"math"

	tstruct "github.com/TuftsBCB/structure"
)

// Coord is a point in space, in Ångström.
type Coord = tstruct.Coords

// Atom is a single atom with its annotations.
type Atom struct {
	ChainID  string
	ResID    int
	InsCode  string
	ResName  string
	Hetero   bool
	AtomName string
	Element  string
	Coord    Coord
}

// SameAnnotation returns true if both atoms have identical annotations.
// Coordinates are not compared.
func (a Atom) SameAnnotation(b Atom) bool {
	a.Coord, b.Coord = Coord{}, Coord{}
	return a == b
}

func (a Atom) String() string {
	het := ""
	if a.Hetero {
		het = " (hetero)"
	}
	return fmt.Sprintf("%s %d%s %s %s %s%s (%0.3f, %0.3f, %0.3f)",
		a.ChainID, a.ResID, a.InsCode, a.ResName, a.AtomName, a.Element, het,
		a.Coord.X, a.Coord.Y, a.Coord.Z)
}

// Box is a unit cell given by its three box vectors.
type Box [3]Coord

// BoxFromLengths returns an orthorhombic box.
func BoxFromLengths(x, y, z float64) Box {
	return Box{{X: x}, {Y: y}, {Z: z}}
}

// Lengths returns the length of each box vector.
func (b Box) Lengths() (float64, float64, float64) {
	return norm(b[0]), norm(b[1]), norm(b[2])
}

// Angles returns the angles alpha (between b and c), beta (between a and c)
// and gamma (between a and b) in degrees.
func (b Box) Angles() (float64, float64, float64) {
	angle := func(u, v Coord) float64 {
		cos := dot(u, v) / (norm(u) * norm(v))
		return math.Acos(math.Max(-1, math.Min(1, cos))) * 180 / math.Pi
	}
	return angle(b[1], b[2]), angle(b[0], b[2]), angle(b[0], b[1])
}

// BoxFromParameters builds box vectors from lengths and angles (in degrees),
// with the first vector on the x axis and the second one in the xy plane.
func BoxFromParameters(a, b, c, alpha, beta, gamma float64) Box {
	rad := math.Pi / 180
	ca, cb, cg := math.Cos(alpha*rad), math.Cos(beta*rad), math.Cos(gamma*rad)
	sg := math.Sin(gamma * rad)
	cx := c * cb
	cy := c * (ca - cb*cg) / sg
	cz := math.Sqrt(math.Max(0, c*c-cx*cx-cy*cy))
	return Box{
		{X: a},
		{X: b * cg, Y: b * sg},
		{X: cx, Y: cy, Z: cz},
	}
}

// AtomArray is a list of atoms, usually the atoms of one model.
type AtomArray []Atom

// Coords returns the coordinates of all atoms.
func (arr AtomArray) Coords() []Coord {
	coords := make([]Coord, len(arr))
	for i, a := range arr {
		coords[i] = a.Coord
	}
	return coords
}

// Filter returns the atoms for which keep returns true.
func (arr AtomArray) Filter(keep func(a Atom) bool) AtomArray {
	var out AtomArray
	for _, a := range arr {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

// Chains returns the chain identifiers in order of first appearance.
func (arr AtomArray) Chains() []string {
	var chains []string
	seen := make(map[string]bool)
	for _, a := range arr {
		if !seen[a.ChainID] {
			seen[a.ChainID] = true
			chains = append(chains, a.ChainID)
		}
	}
	return chains
}

// Chain returns the atoms of the given chain.
func (arr AtomArray) Chain(id string) AtomArray {
	return arr.Filter(func(a Atom) bool { return a.ChainID == id })
}

// Residue is a contiguous group of atoms sharing chain, residue number and
// insertion code.
type Residue struct {
	ChainID string
	ResID   int
	InsCode string
	ResName string
	Hetero  bool
	Atoms   AtomArray
}

// Residues groups consecutive atoms into residues.
func (arr AtomArray) Residues() []Residue {
	var residues []Residue
	for i, a := range arr {
		if i == 0 || !sameResidue(arr[i-1], a) {
			residues = append(residues, Residue{
				ChainID: a.ChainID,
				ResID:   a.ResID,
				InsCode: a.InsCode,
				ResName: a.ResName,
				Hetero:  a.Hetero,
			})
		}
		r := &residues[len(residues)-1]
		r.Atoms = append(r.Atoms, a)
	}
	return residues
}

func sameResidue(a, b Atom) bool {
	return a.ChainID == b.ChainID && a.ResID == b.ResID &&
		a.InsCode == b.InsCode && a.ResName == b.ResName
}

// Centroid returns the mean of all coordinates.
func (arr AtomArray) Centroid() Coord {
	var c Coord
	if len(arr) == 0 {
		return c
	}
	for _, a := range arr {
		c.X += a.Coord.X
		c.Y += a.Coord.Y
		c.Z += a.Coord.Z
	}
	n := float64(len(arr))
	return Coord{X: c.X / n, Y: c.Y / n, Z: c.Z / n}
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Coord) float64 {
	return norm(Coord{X: a.X - b.X, Y: a.Y - b.Y, Z: a.Z - b.Z})
}

// RMSD returns the root mean square deviation of two atom arrays of equal
// length after optimal superimposition.
func RMSD(a, b AtomArray) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("Cannot compute the RMSD of %d and %d atoms.",
			len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("Cannot compute the RMSD of zero atoms.")
	}
	return tstruct.RMSD(a.Coords(), b.Coords()), nil
}

func dot(u, v Coord) float64 {
	return u.X*v.X + u.Y*v.Y + u.Z*v.Z
}

func norm(u Coord) float64 {
	return math.Sqrt(dot(u, u))
}
