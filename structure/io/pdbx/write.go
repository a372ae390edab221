package pdbx

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/cif"

	"github.com/Dr-Moreb/biotite/structure"
)

var atomSiteTags = []string{
	"group_PDB", "id", "type_symbol", "label_atom_id", "label_alt_id",
	"label_comp_id", "label_asym_id", "label_seq_id", "pdbx_PDB_ins_code",
	"Cartn_x", "Cartn_y", "Cartn_z", "auth_seq_id", "auth_comp_id",
	"auth_asym_id", "auth_atom_id", "pdbx_PDB_model_num",
}

// WriteFile writes the stack as a PDBx/mmCIF entry to the file at the path
// given, gzip compressed if the path ends in ".gz".
func WriteFile(fp, id string, s *structure.AtomArrayStack) error {
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
	if err := Write(w, id, s); err != nil {
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

// Write writes the stack as a single data block named id. Every model is
// written to the same atom_site loop, distinguished by pdbx_PDB_model_num.
func Write(w io.Writer, id string, s *structure.AtomArrayStack) error {
	block, err := DataBlock(id, s)
	if err != nil {
		return err
	}
	cf := &cif.CIF{
		Version: "CIF_1.1",
		Blocks:  map[string]*cif.DataBlock{strings.ToLower(id): block},
	}

	// cif.Write drops the errors of the underlying writer.
	sw := &stickyWriter{w: bufio.NewWriter(w)}
	if err := cf.Write(sw); err != nil {
		return err
	}
	if sw.err != nil {
		return sw.err
	}
	return sw.w.Flush()
}

// DataBlock converts the stack into a data block named id with an atom_site
// loop and, if the stack has a box, the _cell items.
func DataBlock(id string, s *structure.AtomArrayStack) (*cif.DataBlock, error) {
	if id == "" || strings.ContainsAny(id, " \t\n") {
		return nil, ef("Invalid data block name '%s'.", id)
	}
	if s.AtomCount() == 0 {
		return nil, ef("A structure without atoms cannot be written.")
	}
	block := &cif.DataBlock{
		Block: cif.Block{
			Name:  id,
			Items: map[string]cif.Value{"entry.id": cif.AsValue(id)},
			Loops: make(map[string]*cif.Loop),
		},
		Frames: make(map[string]*cif.SaveFrame),
	}
	if s.Box != nil {
		a, b, c := s.Box.Lengths()
		alpha, beta, gamma := s.Box.Angles()
		cell := map[string]float64{
			"cell.length_a": a, "cell.length_b": b, "cell.length_c": c,
			"cell.angle_alpha": alpha, "cell.angle_beta": beta,
			"cell.angle_gamma": gamma,
		}
		for tag, v := range cell {
			block.Items[tag] = cif.AsValue(v)
		}
	}

	loop, err := atomSiteLoop(s)
	if err != nil {
		return nil, err
	}
	for tag := range loop.Columns {
		block.Loops[tag] = loop
	}
	return block, nil
}

func atomSiteLoop(s *structure.AtomArrayStack) (*cif.Loop, error) {
	n := s.Len() * s.AtomCount()
	var (
		groups, elements, names, altids = make([]string, 0, n),
			make([]string, 0, n), make([]string, 0, n), make([]string, 0, n)
		comps, chains, inscodes = make([]string, 0, n),
			make([]string, 0, n), make([]string, 0, n)
		serials, resids, modelnums = make([]int, 0, n), make([]int, 0, n),
			make([]int, 0, n)
		xs, ys, zs = make([]float64, 0, n), make([]float64, 0, n),
			make([]float64, 0, n)
	)
	for m := 0; m < s.Len(); m++ {
		for _, a := range s.Model(m) {
			for _, field := range []string{a.Element, a.AtomName, a.ResName,
				a.ChainID, a.InsCode} {
				if err := checkPrintable(field); err != nil {
					return nil, ef("Atom %d of model %d: %s", len(serials)+1,
						m+1, err)
				}
			}
			group := "ATOM"
			if a.Hetero {
				group = "HETATM"
			}
			groups = append(groups, group)
			serials = append(serials, len(serials)+1)
			elements = append(elements, orOmitted(a.Element))
			names = append(names, orOmitted(a.AtomName))
			altids = append(altids, ".")
			comps = append(comps, orOmitted(a.ResName))
			chains = append(chains, orOmitted(a.ChainID))
			resids = append(resids, a.ResID)
			inscodes = append(inscodes, orUnknown(a.InsCode))
			xs = append(xs, a.Coord.X)
			ys = append(ys, a.Coord.Y)
			zs = append(zs, a.Coord.Z)
			modelnums = append(modelnums, m+1)
		}
	}

	columns := map[string]cif.ValueLoop{
		"group_PDB":          cif.AsValues(groups),
		"id":                 cif.AsValues(serials),
		"type_symbol":        cif.AsValues(elements),
		"label_atom_id":      cif.AsValues(names),
		"label_alt_id":       cif.AsValues(altids),
		"label_comp_id":      cif.AsValues(comps),
		"label_asym_id":      cif.AsValues(chains),
		"label_seq_id":       cif.AsValues(resids),
		"pdbx_PDB_ins_code":  cif.AsValues(inscodes),
		"Cartn_x":            cif.AsValues(xs),
		"Cartn_y":            cif.AsValues(ys),
		"Cartn_z":            cif.AsValues(zs),
		"auth_seq_id":        cif.AsValues(resids),
		"auth_comp_id":       cif.AsValues(comps),
		"auth_asym_id":       cif.AsValues(chains),
		"auth_atom_id":       cif.AsValues(names),
		"pdbx_PDB_model_num": cif.AsValues(modelnums),
	}
	loop := &cif.Loop{Columns: make(map[string]int, len(atomSiteTags))}
	for i, tag := range atomSiteTags {
		loop.Columns["atom_site."+tag] = i
		loop.Values = append(loop.Values, columns[tag])
	}
	return loop, nil
}

// checkPrintable rejects values the CIF 1.1 syntax cannot hold in a single
// line.
func checkPrintable(v string) error {
	for _, r := range v {
		if r < ' ' || r > '~' {
			return ef("The value %q contains the character %q, which cannot "+
				"be written to a CIF file.", v, r)
		}
	}
	return nil
}

func orOmitted(s string) string {
	if s == "" {
		return "."
	}
	return s
}

func orUnknown(s string) string {
	if s == "" {
		return "?"
	}
	return s
}

// stickyWriter keeps the first error of w and ignores all writes after it.
type stickyWriter struct {
	w   *bufio.Writer
	err error
}

func (sw *stickyWriter) Write(p []byte) (int, error) {
	if sw.err != nil {
		return 0, sw.err
	}
	n, err := sw.w.Write(p)
	sw.err = err
	return n, err
}
