// Package pdb reads and writes the coordinate section of PDB files.
//
// Only ATOM, HETATM, MODEL, ENDMDL and CRYST1 records are interpreted. When
// an atom has alternate locations, the first one is kept.
package pdb

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

type parser struct {
	lineNum int
	line    []byte
	models  []structure.AtomArray
	altLocs map[altKey]byte
	box     *structure.Box
}

type altKey struct {
	chain, insCode, atomName string
	resID                    int
}

// ReadFile reads the structure in the PDB file at the path given. If the
// path ends in ".gz", it is decompressed first.
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
		return nil, ef("Could not read PDB file '%s': %s", fp, err)
	}
	return s, nil
}

// Read reads every model in the PDB data given. All models must contain the
// same atoms.
func Read(r io.Reader) (*structure.AtomArrayStack, error) {
	p := &parser{altLocs: make(map[altKey]byte)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1000), 1<<20)
	for scanner.Scan() {
		p.lineNum++
		p.line = scanner.Bytes()
		if err := p.parseLine(); err != nil {
			return nil, ef("Error on line %d: %s", p.lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// Models without atoms (e.g. a trailing MODEL record) are dropped.
	var models []structure.AtomArray
	for _, m := range p.models {
		if len(m) > 0 {
			models = append(models, m)
		}
	}
	if len(models) == 0 {
		return nil, ef("The data given does not contain any ATOM or " +
			"HETATM records.")
	}
	s, err := structure.NewStack(models...)
	if err != nil {
		return nil, err
	}
	s.Box = p.box
	return s, nil
}

func (p *parser) parseLine() error {
	switch p.cols(1, 6) {
	case "MODEL":
		if _, err := p.atoi(11, 14); err != nil {
			return ef("Invalid model number: %s", err)
		}
		p.models = append(p.models, nil)
		p.altLocs = make(map[altKey]byte)
	case "CRYST1":
		return p.parseCryst()
	case "ATOM", "HETATM":
		return p.parseAtom()
	}
	return nil
}

func (p *parser) parseCryst() error {
	var params [6]float64
	ranges := [6][2]int{{7, 15}, {16, 24}, {25, 33}, {34, 40}, {41, 47}, {48, 54}}
	for i, r := range ranges {
		v, err := p.atof(r[0], r[1])
		if err != nil {
			return ef("Invalid CRYST1 record: %s", err)
		}
		params[i] = v
	}
	// Structures without a unit cell use a 1 Å cube.
	if params[0] == 1 && params[1] == 1 && params[2] == 1 {
		return nil
	}
	box := structure.BoxFromParameters(params[0], params[1], params[2],
		params[3], params[4], params[5])
	p.box = &box
	return nil
}

func (p *parser) parseAtom() error {
	if len(p.models) == 0 {
		p.models = append(p.models, nil)
	}
	atom := structure.Atom{
		Hetero:   p.cols(1, 6) == "HETATM",
		AtomName: p.cols(13, 16),
		ResName:  p.cols(18, 20),
		ChainID:  p.cols(22, 22),
		InsCode:  p.cols(27, 27),
		Element:  p.cols(77, 78),
	}
	var err error
	if atom.ResID, err = p.atoi(23, 26); err != nil {
		return ef("Invalid residue number: %s", err)
	}

	// Only the first alternate location of each atom is kept.
	if alt := p.at(17); alt != ' ' && alt != 0 {
		key := altKey{atom.ChainID, atom.InsCode, atom.AtomName, atom.ResID}
		if first, ok := p.altLocs[key]; ok && first != alt {
			return nil
		}
		p.altLocs[key] = alt
	}

	if atom.Coord.X, err = p.atof(31, 38); err != nil {
		return ef("Invalid x coordinate: %s", err)
	}
	if atom.Coord.Y, err = p.atof(39, 46); err != nil {
		return ef("Invalid y coordinate: %s", err)
	}
	if atom.Coord.Z, err = p.atof(47, 54); err != nil {
		return ef("Invalid z coordinate: %s", err)
	}
	if atom.Element == "" {
		atom.Element = guessElement(atom.AtomName)
	}

	last := len(p.models) - 1
	p.models[last] = append(p.models[last], atom)
	return nil
}

// guessElement takes the leading letter of an atom name, for files that
// leave the element columns empty.
func guessElement(name string) string {
	name = strings.TrimLeftFunc(name, unicode.IsDigit)
	if name == "" {
		return ""
	}
	return name[:1]
}

func (p *parser) atoi(start, end int) (int, error) {
	return strconv.Atoi(p.cols(start, end))
}

func (p *parser) atof(start, end int) (float64, error) {
	return strconv.ParseFloat(p.cols(start, end), 64)
}

// cols returns the trimmed text in the 1-based, inclusive column range given.
func (p *parser) cols(start, end int) string {
	rs, re := start-1, end
	if rs >= len(p.line) || rs < 0 {
		return ""
	}
	if re > len(p.line) {
		re = len(p.line)
	}
	if re < rs {
		return ""
	}
	return string(bytes.TrimSpace(p.line[rs:re]))
}

func (p *parser) at(column int) byte {
	i := column - 1
	if i < 0 || i >= len(p.line) {
		return 0
	}
	return p.line[i]
}
