package msa

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/TuftsBCB/seq"
)

var ef = fmt.Errorf

// ReadStockholm reads an MSA from a Stockholm formatted file. Markup lines
// ("#=GF", "#=GS", ...) are ignored. Interleaved files, where the rows of an
// alignment are split over several blocks, are joined in the order in which
// the names first appear.
func ReadStockholm(r io.Reader) (seq.MSA, error) {
	return readStockholm(r, false)
}

// ReadStockholmTrusted is the same as ReadStockholm, except it does not check
// if each residue is valid. This may be faster.
func ReadStockholmTrusted(r io.Reader) (seq.MSA, error) {
	return readStockholm(r, true)
}

// WriteStockholm writes the given MSA to the writer in the Stockholm format.
// This does not write any features. It only creates a minimal valid Stockholm
// file with the header (and version) along with the sequences (names and
// residues).
func WriteStockholm(w io.Writer, msa seq.MSA) error {
	var err error
	pf := func(format string, v ...interface{}) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, v...)
	}

	width := 0
	for _, s := range msa.Entries {
		if len(s.Name) > width {
			width = len(s.Name)
		}
	}
	pf("# STOCKHOLM 1.0\n")
	for row := 0; row < len(msa.Entries) && err == nil; row++ {
		s := msa.GetA2M(row)
		pf("%-*s %s\n", width, s.Name, s.Residues)
	}
	pf("//\n")
	return err
}

func readStockholm(r io.Reader, trusted bool) (seq.MSA, error) {
	var names []string
	rows := make(map[string][]seq.Residue)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1<<24)
	lineNum := 0
	if scanner.Scan() {
		lineNum++
		first := bytes.ToLower(bytes.Trim(scanner.Bytes(), " #"))
		if !bytes.Equal([]byte("stockholm 1.0"), first) {
			return seq.MSA{}, ef("First line does not contain 'STOCKHOLM 1.0'.")
		}
	}
	for scanner.Scan() {
		lineNum++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		if bytes.HasPrefix(line, []byte("//")) {
			break
		}

		pieces := bytes.Fields(line)
		if len(pieces) < 2 {
			return seq.MSA{}, ef("Error on line %d: expected a name and "+
				"residues.", lineNum)
		}
		residues, err := asResidues(pieces[len(pieces)-1], trusted)
		if err != nil {
			return seq.MSA{}, ef("Error on line %d: %s", lineNum, err)
		}
		name := string(bytes.Join(pieces[0:len(pieces)-1], []byte(" ")))
		if _, ok := rows[name]; !ok {
			names = append(names, name)
		}
		rows[name] = append(rows[name], residues...)
	}
	if err := scanner.Err(); err != nil {
		return seq.MSA{}, err
	}

	msa := seq.NewMSA()
	for _, name := range names {
		s := seq.Sequence{Name: name, Residues: rows[name]}
		if err := add(&msa, s); err != nil {
			return seq.MSA{}, err
		}
	}
	return msa, nil
}

func asResidues(brs []byte, trusted bool) ([]seq.Residue, error) {
	rs := make([]seq.Residue, 0, len(brs))
	for _, b := range brs {
		if trusted {
			rs = append(rs, seq.Residue(b))
			continue
		}
		bNew, ok := translateStockholm(b)
		if !ok {
			return nil, ef("Invalid Stockholm residue '%c'.", b)
		}
		rs = append(rs, bNew)
	}
	return rs, nil
}

func translateStockholm(b byte) (seq.Residue, bool) {
	switch {
	case b >= 'a' && b <= 'z':
		return seq.Residue(b), true
	case b >= 'A' && b <= 'Z':
		return seq.Residue(b), true
	case b == '-':
		return '-', true
	case b == '.':
		return '.', true
	}
	return 0, false
}
