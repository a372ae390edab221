package pdb

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strings"

	"github.com/Dr-Moreb/biotite/structure"
)

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

// Write writes all models of the stack in PDB format. MODEL records are only
// written if there is more than one model.
func Write(w io.Writer, s *structure.AtomArrayStack) error {
	for _, a := range s.Atoms {
		if len(a.ChainID) > 1 {
			return ef("Chain ID '%s' does not fit into a PDB file.", a.ChainID)
		}
		if len(a.AtomName) > 4 || len(a.ResName) > 3 || len(a.InsCode) > 1 {
			return ef("Atom '%s' does not fit into a PDB file.", a)
		}
		if a.ResID < -999 || a.ResID > 9999 {
			return ef("Residue number %d does not fit into a PDB file.",
				a.ResID)
		}
	}

	buf := bufio.NewWriter(w)
	var err error
	pf := func(format string, v ...interface{}) {
		if err != nil {
			return
		}
		_, err = buf.WriteString(sf(format, v...))
	}

	if s.Box != nil {
		a, b, c := s.Box.Lengths()
		alpha, beta, gamma := s.Box.Angles()
		pf("CRYST1%9.3f%9.3f%9.3f%7.2f%7.2f%7.2f P 1           1\n",
			a, b, c, alpha, beta, gamma)
	}
	multi := s.Len() > 1
	for m := 0; m < s.Len(); m++ {
		if multi {
			pf("MODEL     %4d\n", m+1)
		}
		for i, a := range s.Model(m) {
			record := "ATOM"
			if a.Hetero {
				record = "HETATM"
			}
			pf("%-6s%5d %-4s %3s %1s%4d%1s   %8.3f%8.3f%8.3f%6.2f%6.2f"+
				"          %2s\n",
				record, (i+1)%100000, atomName(a), a.ResName, a.ChainID,
				a.ResID, a.InsCode, a.Coord.X, a.Coord.Y, a.Coord.Z,
				1.0, 0.0, a.Element)
		}
		if multi {
			pf("ENDMDL\n")
		}
	}
	pf("END\n")
	if err != nil {
		return err
	}
	return buf.Flush()
}

// atomName aligns the atom name: names with a one letter element start in
// column 14.
func atomName(a structure.Atom) string {
	if len(a.AtomName) < 4 && len(a.Element) <= 1 {
		return " " + a.AtomName
	}
	return a.AtomName
}
