// Package gro reads and writes GROMACS GRO files.
//
// GRO coordinates are in nanometers; they are converted to and from Ångström.
// The format has no chain identifiers, so all atoms read from a GRO file
// have an empty chain ID. Every frame in a file becomes a model.
package gro

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/Dr-Moreb/biotite/structure"
)

var (
	ef = fmt.Errorf
	sf = fmt.Sprintf
)

const nmToAngstrom = 10

// ReadFile reads all frames in the GRO file at the path given. If the path
// ends in ".gz", it is decompressed first.
func ReadFile(fp string) (*structure.AtomArrayStack, error) {
	f, err := os.Open(fp)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(fp, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		r = gz
	}
	s, err := Read(r)
	if err != nil {
		return nil, ef("Could not read GRO file '%s': %s", fp, err)
	}
	return s, nil
}

// Read reads every frame of the GRO data given. The box of the first frame
// becomes the box of the stack.
func Read(r io.Reader) (*structure.AtomArrayStack, error) {
	scanner := bufio.NewScanner(r)
	lineNum := 0
	next := func() ([]byte, bool) {
		if !scanner.Scan() {
			return nil, false
		}
		lineNum++
		return scanner.Bytes(), true
	}

	var models []structure.AtomArray
	var box *structure.Box
	for {
		title, ok := next()
		if !ok {
			break
		}
		line, ok := next()
		if !ok {
			if len(bytes.TrimSpace(title)) == 0 {
				break
			}
			return nil, ef("Error on line %d: Missing atom count.", lineNum+1)
		}
		n, err := strconv.Atoi(string(bytes.TrimSpace(line)))
		if err != nil {
			return nil, ef("Error on line %d: Invalid atom count: %s",
				lineNum, err)
		}
		model := make(structure.AtomArray, 0, n)
		for i := 0; i < n; i++ {
			line, ok := next()
			if !ok {
				return nil, ef("Expected %d atoms, but the data ended after %d.",
					n, i)
			}
			atom, err := parseAtom(line)
			if err != nil {
				return nil, ef("Error on line %d: %s", lineNum, err)
			}
			model = append(model, atom)
		}
		line, ok = next()
		if !ok {
			return nil, ef("Error on line %d: Missing box vectors.", lineNum+1)
		}
		b, err := parseBox(line)
		if err != nil {
			return nil, ef("Error on line %d: %s", lineNum, err)
		}
		if box == nil {
			box = b
		}
		models = append(models, model)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, ef("The data given does not contain any frames.")
	}
	s, err := structure.NewStack(models...)
	if err != nil {
		return nil, err
	}
	s.Box = box
	return s, nil
}

func parseAtom(line []byte) (structure.Atom, error) {
	var atom structure.Atom
	if len(line) < 44 {
		return atom, ef("Atom line is too short (%d characters).", len(line))
	}
	resID, err := strconv.Atoi(cols(line, 1, 5))
	if err != nil {
		return atom, ef("Invalid residue number: %s", err)
	}
	atom.ResID = resID
	atom.ResName = cols(line, 6, 10)
	atom.AtomName = cols(line, 11, 15)
	atom.Element = guessElement(atom.AtomName)

	var xyz [3]float64
	for i := range xyz {
		start := 21 + 8*i
		v, err := strconv.ParseFloat(cols(line, start, start+7), 64)
		if err != nil {
			return atom, ef("Invalid coordinate: %s", err)
		}
		xyz[i] = v * nmToAngstrom
	}
	atom.Coord = structure.Coord{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	return atom, nil
}

// parseBox reads the three (orthorhombic) or nine (triclinic) values of a
// box line: v1(x) v2(y) v3(z) v1(y) v1(z) v2(x) v2(z) v3(x) v3(y).
func parseBox(line []byte) (*structure.Box, error) {
	fields := strings.Fields(string(line))
	if len(fields) != 3 && len(fields) != 9 {
		return nil, ef("Expected 3 or 9 box values, got %d.", len(fields))
	}
	vals := make([]float64, 9)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, ef("Invalid box value: %s", err)
		}
		vals[i] = v * nmToAngstrom
	}
	if vals[0] == 0 && vals[1] == 0 && vals[2] == 0 {
		return nil, nil
	}
	return &structure.Box{
		{X: vals[0], Y: vals[3], Z: vals[4]},
		{X: vals[5], Y: vals[1], Z: vals[6]},
		{X: vals[7], Y: vals[8], Z: vals[2]},
	}, nil
}

func cols(line []byte, start, end int) string {
	rs, re := start-1, end
	if rs >= len(line) {
		return ""
	}
	if re > len(line) {
		re = len(line)
	}
	return string(bytes.TrimSpace(line[rs:re]))
}

// guessElement takes the leading letter of the atom name.
func guessElement(name string) string {
	name = strings.TrimLeftFunc(name, unicode.IsDigit)
	if name == "" {
		return ""
	}
	return name[:1]
}

// WriteFile writes the stack to the file at the path given, gzip compressed
// if the path ends in ".gz".
func WriteFile(fp string, s *structure.AtomArrayStack) error {
	f, err := os.Create(fp)
	if err != nil {
		return err
	}
	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(fp, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}
	if err := Write(w, s); err != nil {
		f.Close()
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

// Write writes every model of the stack as a frame. Residue and atom numbers
// wrap around at 100000.
func Write(w io.Writer, s *structure.AtomArrayStack) error {
	buf := bufio.NewWriter(w)
	var err error
	pf := func(format string, v ...interface{}) {
		if err != nil {
			return
		}
		_, err = buf.WriteString(sf(format, v...))
	}

	for m := 0; m < s.Len(); m++ {
		pf("Generated by biotite, model %d\n", m+1)
		pf("%d\n", s.AtomCount())
		for i, a := range s.Model(m) {
			pf("%5d%-5s%5s%5d%8.3f%8.3f%8.3f\n",
				a.ResID%100000, trunc(a.ResName, 5), trunc(a.AtomName, 5),
				(i+1)%100000, a.Coord.X/nmToAngstrom, a.Coord.Y/nmToAngstrom,
				a.Coord.Z/nmToAngstrom)
		}
		if s.Box == nil {
			pf("%10.5f%10.5f%10.5f\n", 0.0, 0.0, 0.0)
			continue
		}
		b := *s.Box
		pf("%10.5f%10.5f%10.5f", b[0].X/nmToAngstrom, b[1].Y/nmToAngstrom,
			b[2].Z/nmToAngstrom)
		if b[0].Y != 0 || b[0].Z != 0 || b[1].X != 0 || b[1].Z != 0 ||
			b[2].X != 0 || b[2].Y != 0 {
			for _, v := range []float64{b[0].Y, b[0].Z, b[1].X, b[1].Z,
				b[2].X, b[2].Y} {
				pf("%10.5f", v/nmToAngstrom)
			}
		}
		pf("\n")
	}
	if err != nil {
		return err
	}
	return buf.Flush()
}

func trunc(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
