// Package pdbx reads and writes the atom_site category of PDBx/mmCIF files.
//
// Reading is built on the CIF parser in github.com/BurntSushi/cif. Chains and
// residue numbers are taken from the author fields (auth_asym_id and
// auth_seq_id) when present, so that they match those of the PDB format.
package pdbx

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/cif"

	"github.com/Dr-Moreb/biotite/structure"
)

var (
	ef = fmt.Errorf
	sf = fmt.Sprintf
)

// ReadFile reads the single entry in the PDBx/mmCIF file at the path given.
// If the path ends in ".gz", it is decompressed first.
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
		return nil, ef("Could not read PDBx file '%s': %s", fp, err)
	}
	return s, nil
}

// Read reads exactly one entry from the reader given. If there are 0 data
// blocks or more than 1, an error is returned.
func Read(r io.Reader) (*structure.AtomArrayStack, error) {
	cf, err := cif.Read(r)
	if err != nil {
		return nil, err
	}
	if len(cf.Blocks) != 1 {
		return nil, ef("Expected one data block but got %d.", len(cf.Blocks))
	}
	var block *cif.DataBlock
	for _, b := range cf.Blocks {
		block = b
	}
	return ReadDataBlock(block)
}

// ReadDataBlock converts the atom_site category of a data block into a
// stack with one model per distinct pdbx_PDB_model_num.
func ReadDataBlock(b *cif.DataBlock) (*structure.AtomArrayStack, error) {
	loop := asLoop(b, "atom_site.cartn_x")
	xs, ys, zs := column(loop, "atom_site.cartn_x"),
		column(loop, "atom_site.cartn_y"), column(loop, "atom_site.cartn_z")
	if xs == nil || ys == nil || zs == nil {
		return nil, ef("The given PDBx/mmCIF data has no ATOM/HETATM records.")
	}
	n := len(xs)
	groups := columnOr(loop, n, "atom_site.group_pdb")
	names := columnOr(loop, n, "atom_site.auth_atom_id", "atom_site.label_atom_id")
	comps := columnOr(loop, n, "atom_site.auth_comp_id", "atom_site.label_comp_id")
	chains := columnOr(loop, n, "atom_site.auth_asym_id", "atom_site.label_asym_id")
	seqids := columnOr(loop, n, "atom_site.auth_seq_id", "atom_site.label_seq_id")
	inscodes := columnOr(loop, n, "atom_site.pdbx_pdb_ins_code")
	elements := columnOr(loop, n, "atom_site.type_symbol")
	altids := columnOr(loop, n, "atom_site.label_alt_id")
	modelids := columnOr(loop, n, "atom_site.pdbx_pdb_model_num")

	var order []string
	models := make(map[string]structure.AtomArray)
	firstAlt := make(map[string]string)
	for i := 0; i < n; i++ {
		atom := structure.Atom{
			ChainID:  chains[i],
			InsCode:  inscodes[i],
			ResName:  comps[i],
			Hetero:   groups[i] == "HETATM",
			AtomName: names[i],
			Element:  elements[i],
		}
		if seqids[i] != "" {
			id, err := strconv.Atoi(seqids[i])
			if err != nil {
				return nil, ef("Invalid residue number '%s' in row %d.",
					seqids[i], i+1)
			}
			atom.ResID = id
		}
		var err error
		if atom.Coord.X, err = parseFloat(xs[i]); err != nil {
			return nil, ef("Invalid x coordinate in row %d: %s", i+1, err)
		}
		if atom.Coord.Y, err = parseFloat(ys[i]); err != nil {
			return nil, ef("Invalid y coordinate in row %d: %s", i+1, err)
		}
		if atom.Coord.Z, err = parseFloat(zs[i]); err != nil {
			return nil, ef("Invalid z coordinate in row %d: %s", i+1, err)
		}

		mid := modelids[i]
		if alt := altids[i]; alt != "" {
			key := sf("%s|%s|%s|%d|%s", mid, atom.ChainID, atom.InsCode,
				atom.ResID, atom.AtomName)
			if first, ok := firstAlt[key]; ok && first != alt {
				continue
			}
			firstAlt[key] = alt
		}
		if _, ok := models[mid]; !ok {
			order = append(order, mid)
		}
		models[mid] = append(models[mid], atom)
	}

	arrays := make([]structure.AtomArray, len(order))
	for i, mid := range order {
		arrays[i] = models[mid]
	}
	s, err := structure.NewStack(arrays...)
	if err != nil {
		return nil, err
	}
	s.Box, err = readCell(b)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func readCell(b *cif.DataBlock) (*structure.Box, error) {
	tags := []string{"cell.length_a", "cell.length_b", "cell.length_c",
		"cell.angle_alpha", "cell.angle_beta", "cell.angle_gamma"}
	var params [6]float64
	for i, tag := range tags {
		v, ok := b.Items[tag]
		if !ok {
			return nil, nil
		}
		raw := rawString(v.Raw())
		if raw == "" {
			return nil, nil
		}
		f, err := parseFloat(raw)
		if err != nil {
			return nil, ef("Invalid value for '%s': %s", tag, err)
		}
		params[i] = f
	}
	if params[0] == 0 || (params[0] == 1 && params[1] == 1 && params[2] == 1) {
		return nil, nil
	}
	box := structure.BoxFromParameters(params[0], params[1], params[2],
		params[3], params[4], params[5])
	return &box, nil
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// value returns the data value tagged by "key". If it does not exist, then
// an empty string is returned (wrapped in a cif.Value).
func value(b *cif.DataBlock, key string) cif.Value {
	if v, ok := b.Items[key]; ok {
		return v
	}
	return cif.AsValue("")
}

// asLoop retrieves the loop containing the data tag "key". If there is no
// such loop, the items of the category are turned into a loop with a single
// row. (A file with a single atom has no atom_site loop.)
func asLoop(b *cif.DataBlock, key string) *cif.Loop {
	if loop, ok := b.Loops[key]; ok {
		return loop
	}
	category := key[:strings.Index(key, ".")+1]
	loop := &cif.Loop{Columns: make(map[string]int)}
	for tag := range b.Items {
		if !strings.HasPrefix(tag, category) {
			continue
		}
		loop.Columns[tag] = len(loop.Values)
		switch v := value(b, tag).Raw().(type) {
		case int:
			loop.Values = append(loop.Values, cif.AsValues([]int{v}))
		case float64:
			loop.Values = append(loop.Values, cif.AsValues([]float64{v}))
		default:
			loop.Values = append(loop.Values,
				cif.AsValues([]string{rawString(v)}))
		}
	}
	return loop
}

// column returns the values of a loop column as strings, whatever type the
// CIF reader inferred for it. Unknown (?) and inapplicable (.) values become
// empty strings. If the column does not exist, nil is returned.
func column(loop *cif.Loop, tag string) []string {
	i, ok := loop.Columns[tag]
	if !ok || i >= len(loop.Values) {
		return nil
	}
	vals := loop.Values[i]
	if strs := vals.Strings(); strs != nil {
		out := make([]string, len(strs))
		for j, s := range strs {
			if s != "?" && s != "." {
				out[j] = s
			}
		}
		return out
	}
	if ints := vals.Ints(); ints != nil {
		out := make([]string, len(ints))
		for j, v := range ints {
			out[j] = strconv.Itoa(v)
		}
		return out
	}
	if floats := vals.Floats(); floats != nil {
		out := make([]string, len(floats))
		for j, v := range floats {
			out[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		return out
	}
	return nil
}

// columnOr returns the first of the given columns that exists, or n empty
// strings if none does.
func columnOr(loop *cif.Loop, n int, tags ...string) []string {
	for _, tag := range tags {
		if vals := column(loop, tag); vals != nil && len(vals) == n {
			return vals
		}
	}
	return make([]string, n)
}

func rawString(v interface{}) string {
	switch v := v.(type) {
	case string:
		if v == "?" || v == "." {
			return ""
		}
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return ""
}
