package genbank

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/Dr-Moreb/biotite/sequence"
)

const lineWidth = 79

// Write writes a single record, terminated by "//".
func Write(w io.Writer, rec *Record) error {
	buf := bufio.NewWriter(w)
	var err error
	pf := func(format string, v ...interface{}) {
		if err != nil {
			return
		}
		_, err = buf.WriteString(sf(format, v...))
	}

	// header row
	locus := rec.Locus
	if locus.Name == "" {
		locus.Name = "."
	}
	length := locus.Length
	if rec.Sequence != nil {
		length = rec.Sequence.Len()
	}
	unit := "bp"
	if locus.Protein || (rec.Sequence != nil && rec.Sequence.Kind() == sequence.Protein) {
		unit = "aa"
	}
	topology := "linear"
	if locus.Circular {
		topology = "circular"
	}
	pf("LOCUS       %-16s %11d %s    %-6s  %-8s %-3s %s\n",
		locus.Name, length, unit, locus.MolType, topology, locus.Division,
		locus.Date)

	for _, f := range rec.Fields {
		lines := f.Lines
		if len(lines) == 0 {
			lines = []string{f.Content}
		}
		for i, l := range lines {
			switch {
			case i > 0:
				pf("%s%s\n", strings.Repeat(" ", fieldIndent), l)
			case f.Sub:
				pf("  %-10s%s\n", f.Name, l)
			default:
				pf("%-12s%s\n", f.Name, l)
			}
		}
	}

	// feature rows
	if len(rec.Features) > 0 {
		pf("FEATURES             Location/Qualifiers\n")
	}
	indent := strings.Repeat(" ", featureIndent-1)
	for _, f := range rec.Features {
		loc := FormatLocations(f.Locations)
		for i, l := range wrap(loc, lineWidth-len(indent), ",", false) {
			if i == 0 {
				pf("     %-15s%s\n", f.Key, l)
			} else {
				pf("%s%s\n", indent, l)
			}
		}
		for _, q := range f.Qualifiers {
			text := "/" + q.Key
			if q.Value != "" {
				text += "=" + formatValue(q.Key, q.Value)
			}
			hard := q.Key == "translation"
			for _, l := range wrap(text, lineWidth-len(indent), " ", hard) {
				pf("%s%s\n", indent, l)
			}
		}
	}

	// origin row
	if rec.Sequence != nil {
		seq := strings.ToLower(rec.Sequence.String())
		pf("ORIGIN\n")
		for i := 0; i < len(seq); i += 60 {
			n := strconv.Itoa(i + 1)
			pf("%s%s", strings.Repeat(" ", 9-len(n)), n)
			for s := i; s < i+60 && s < len(seq); s += 10 {
				e := s + 10
				if e > len(seq) {
					e = len(seq)
				}
				pf(" %s", seq[s:e])
			}
			pf("\n")
		}
	}
	pf("//\n")
	if err != nil {
		return err
	}
	return buf.Flush()
}

// WriteMulti writes several records to the same output.
func WriteMulti(w io.Writer, recs []*Record) error {
	for _, rec := range recs {
		if err := Write(w, rec); err != nil {
			return err
		}
	}
	return nil
}

// formatValue quotes qualifier values unless they are numbers or one of the
// few qualifiers whose values are never quoted.
func formatValue(key, value string) string {
	if _, err := strconv.Atoi(value); err == nil {
		return value
	}
	switch key {
	case "codon_start", "transl_table", "number", "citation":
		return value
	}
	return `"` + strings.Replace(value, `"`, `""`, -1) + `"`
}

// wrap splits text into lines of at most width characters. Lines are broken
// after sep if possible (the separator is dropped if it is a space), or at
// exactly width characters if hard is set or there is no separator.
func wrap(text string, width int, sep string, hard bool) []string {
	var lines []string
	for len(text) > width {
		cut := width
		next := width
		if !hard {
			if i := strings.LastIndex(text[:width], sep); i > 0 {
				cut, next = i, i+1
				if sep != " " {
					cut = i + 1
				}
			}
		}
		lines = append(lines, text[:cut])
		text = text[next:]
	}
	return append(lines, text)
}
