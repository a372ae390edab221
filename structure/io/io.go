// Package io loads and saves structures, choosing the file format from the
// file name.
//
// Supported suffixes are ".pdb", ".ent", ".cif", ".pdbx" and ".gro", each
// optionally followed by ".gz".
package io

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Dr-Moreb/biotite/structure"
	"github.com/Dr-Moreb/biotite/structure/io/gro"
	"github.com/Dr-Moreb/biotite/structure/io/pdb"
	"github.com/Dr-Moreb/biotite/structure/io/pdbx"
)

// ErrUnknownFormat is returned (wrapped) for files whose format cannot be
// read or written.
var ErrUnknownFormat = errors.New("unknown structure file format")

// Format is a structure file format.
type Format string

const (
	FormatPDB  Format = "pdb"
	FormatPDBx Format = "pdbx"
	FormatGRO  Format = "gro"
)

// binary formats that are recognized, but not supported.
var binaryFormats = map[string]bool{
	"mmtf": true, "npz": true, "trr": true, "xtc": true, "tng": true,
}

// FormatFromPath returns the format of the file at the path given.
func FormatFromPath(fp string) (Format, error) {
	name := strings.ToLower(filepath.Base(fp))
	name = strings.TrimSuffix(name, ".gz")
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	switch ext {
	case "pdb", "ent":
		return FormatPDB, nil
	case "cif", "pdbx", "mmcif":
		return FormatPDBx, nil
	case "gro":
		return FormatGRO, nil
	}
	if binaryFormats[ext] {
		return "", fmt.Errorf("%w: '%s' files are not supported",
			ErrUnknownFormat, ext)
	}
	return "", fmt.Errorf("%w: '%s'", ErrUnknownFormat, fp)
}

// Load reads the structure at the path given.
//
// If template is not nil, the file only provides coordinates: it must have
// the same number of atoms as the template, and the annotations (and box, if
// the file has none) are taken from the template.
func Load(fp string, template *structure.AtomArrayStack) (*structure.AtomArrayStack, error) {
	format, err := FormatFromPath(fp)
	if err != nil {
		return nil, err
	}
	var s *structure.AtomArrayStack
	switch format {
	case FormatPDB:
		s, err = pdb.ReadFile(fp)
	case FormatPDBx:
		s, err = pdbx.ReadFile(fp)
	case FormatGRO:
		s, err = gro.ReadFile(fp)
	}
	if err != nil {
		return nil, err
	}
	if template == nil {
		return s, nil
	}

	if s.AtomCount() != template.AtomCount() {
		return nil, fmt.Errorf("The file '%s' has %d atoms, but the template "+
			"has %d atoms.", fp, s.AtomCount(), template.AtomCount())
	}
	out, err := template.WithCoords(s.Models)
	if err != nil {
		return nil, err
	}
	if s.Box != nil {
		out.Box = s.Box
	}
	return out, nil
}

// Save writes the stack to the path given. For PDBx files, the data block is
// named after the file.
func Save(fp string, s *structure.AtomArrayStack) error {
	format, err := FormatFromPath(fp)
	if err != nil {
		return err
	}
	switch format {
	case FormatPDB:
		return pdb.WriteFile(fp, s)
	case FormatPDBx:
		return pdbx.WriteFile(fp, blockName(fp), s)
	case FormatGRO:
		return gro.WriteFile(fp, s)
	}
	return fmt.Errorf("%w: '%s'", ErrUnknownFormat, fp)
}

func blockName(fp string) string {
	name := strings.TrimSuffix(filepath.Base(fp), ".gz")
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return '_'
		}
		return r
	}, name)
	if name == "" {
		return "structure"
	}
	return name
}
