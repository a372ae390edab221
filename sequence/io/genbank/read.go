package genbank

import (
	"bufio"
	"compress/gzip"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Dr-Moreb/biotite/sequence"
)

const (
	fieldIndent   = 12
	featureIndent = 21
)

type section int

const (
	sectionHeader section = iota
	sectionFeatures
	sectionOrigin
)

// A Reader reads records from concatenated GenBank or GenPept input.
//
// It is NOT safe to call Read from multiple goroutines.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, 1<<24)
	return &Reader{scanner: scanner}
}

// ReadMulti reads all records of the input.
func ReadMulti(r io.Reader) ([]*Record, error) {
	return NewReader(r).ReadAll()
}

// ReadFile reads all records of the file at path. Files ending in ".gz" are
// decompressed.
func ReadFile(path string) ([]*Record, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	var r io.Reader = fp
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(fp)
		if err != nil {
			return nil, ef("Could not read '%s': %s", path, err)
		}
		defer gz.Close()
		r = gz
	}
	recs, err := ReadMulti(r)
	if err != nil {
		return nil, ef("Could not read '%s': %s", path, err)
	}
	return recs, nil
}

// ReadAll reads records until the end of the input. An input without any
// record is an error.
func (r *Reader) ReadAll() ([]*Record, error) {
	var recs []*Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	if len(recs) == 0 {
		return nil, ef("Input does not contain any GenBank records.")
	}
	return recs, nil
}

// pendingFeature collects the lines of a feature until it is complete.
type pendingFeature struct {
	key      string
	location string
	quals    []string
	line     int
}

// Read reads the next record. io.EOF is returned if there are no more
// records. A record that is not terminated by "//" is still returned.
func (r *Reader) Read() (*Record, error) {
	rec := &Record{}
	sec := sectionHeader
	seen := false
	var feat *pendingFeature
	var residues strings.Builder

	finishFeature := func() error {
		if feat == nil {
			return nil
		}
		f, err := feat.build()
		if err == errRemote {
			feat = nil
			return nil
		}
		if err != nil {
			return ef("Error on line %d: %s", feat.line, err)
		}
		rec.Features = append(rec.Features, f)
		feat = nil
		return nil
	}

	for r.scanner.Scan() {
		r.line++
		line := strings.TrimRight(r.scanner.Text(), " \t\r")
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if line == "//" {
			if err := finishFeature(); err != nil {
				return nil, err
			}
			return rec, r.finish(rec, residues.String())
		}
		seen = true

		if line[0] != ' ' {
			if err := finishFeature(); err != nil {
				return nil, err
			}
			name, content := splitField(line)
			switch name {
			case "LOCUS":
				locus, err := parseLocus(content)
				if err != nil {
					return nil, ef("Error on line %d: %s", r.line, err)
				}
				rec.Locus = locus
				sec = sectionHeader
				continue
			case "FEATURES":
				sec = sectionFeatures
				continue
			case "ORIGIN":
				sec = sectionOrigin
				continue
			}
			sec = sectionHeader
			rec.Fields = append(rec.Fields, Field{
				Name:    name,
				Lines:   []string{content},
				Content: content,
			})
			continue
		}

		switch sec {
		case sectionHeader:
			name, content := splitField(line)
			if name != "" {
				rec.Fields = append(rec.Fields, Field{
					Name:    name,
					Sub:     true,
					Lines:   []string{content},
					Content: content,
				})
				continue
			}
			if len(rec.Fields) == 0 {
				return nil, ef("Error on line %d: continuation line without "+
					"a field.", r.line)
			}
			f := &rec.Fields[len(rec.Fields)-1]
			f.Lines = append(f.Lines, content)
			f.Content += " " + content
		case sectionFeatures:
			if len(line) <= featureIndent-1 {
				return nil, ef("Error on line %d: truncated feature line.",
					r.line)
			}
			key := strings.TrimSpace(line[:featureIndent-1])
			text := strings.TrimSpace(line[featureIndent-1:])
			switch {
			case key != "":
				if err := finishFeature(); err != nil {
					return nil, err
				}
				feat = &pendingFeature{key: key, location: text, line: r.line}
			case feat == nil:
				return nil, ef("Error on line %d: qualifier without a "+
					"feature.", r.line)
			case strings.HasPrefix(text, "/"):
				feat.quals = append(feat.quals, text[1:])
			case len(feat.quals) == 0:
				feat.location += text
			default:
				last := len(feat.quals) - 1
				if strings.HasPrefix(feat.quals[last], "translation=") {
					feat.quals[last] += text
				} else {
					feat.quals[last] += " " + text
				}
			}
		case sectionOrigin:
			for _, c := range line {
				if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
					residues.WriteRune(c)
				}
			}
		}
	}
	if err := r.scanner.Err(); err != nil {
		return nil, err
	}
	if !seen {
		return nil, io.EOF
	}
	if err := finishFeature(); err != nil {
		return nil, err
	}
	return rec, r.finish(rec, residues.String())
}

func (r *Reader) finish(rec *Record, residues string) error {
	if len(residues) == 0 {
		return nil
	}
	var err error
	if rec.Locus.Protein {
		rec.Sequence, err = sequence.NewProtein(residues)
	} else {
		rec.Sequence, err = sequence.NewNucleotide(residues)
	}
	if err != nil {
		return ef("Sequence of record '%s': %s", rec.Locus.Name, err)
	}
	return nil
}

// splitField splits a header line into the field name (the first columns)
// and its content.
func splitField(line string) (string, string) {
	if len(line) <= fieldIndent {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			return "", ""
		}
		return fields[0], strings.TrimSpace(strings.Join(fields[1:], " "))
	}
	return strings.TrimSpace(line[:fieldIndent]),
		strings.TrimSpace(line[fieldIndent:])
}

func (p *pendingFeature) build() (Feature, error) {
	locs, err := ParseLocations(p.location)
	if err != nil {
		return Feature{}, err
	}
	f := Feature{Key: p.key, Locations: locs}
	for _, q := range p.quals {
		f.Qualifiers = append(f.Qualifiers, parseQualifier(q))
	}
	return f, nil
}

func parseQualifier(q string) Qualifier {
	pieces := strings.SplitN(q, "=", 2)
	if len(pieces) == 1 {
		return Qualifier{Key: pieces[0]}
	}
	value := pieces[1]
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = strings.Replace(value[1:len(value)-1], `""`, `"`, -1)
	}
	return Qualifier{Key: pieces[0], Value: value}
}

// parseLocus parses the content of a LOCUS line, e.g.
// "NC_000913  4641652 bp  DNA  circular CON 09-MAR-2022".
func parseLocus(content string) (Locus, error) {
	fields := strings.Fields(content)
	if len(fields) < 3 {
		return Locus{}, ef("Invalid LOCUS line '%s'.", content)
	}
	locus := Locus{Name: fields[0]}
	length, err := strconv.Atoi(fields[1])
	if err != nil {
		return Locus{}, ef("Invalid sequence length '%s'.", fields[1])
	}
	locus.Length = length
	switch fields[2] {
	case "aa":
		locus.Protein = true
	case "bp":
	default:
		return Locus{}, ef("Unknown length unit '%s'.", fields[2])
	}

	seenTopology := false
	for _, f := range fields[3:] {
		switch {
		case f == "linear":
			seenTopology = true
		case f == "circular":
			locus.Circular = true
			seenTopology = true
		case isDate(f):
			locus.Date = f
		case seenTopology && locus.Division == "":
			locus.Division = f
		case locus.MolType == "":
			locus.MolType = f
		}
	}
	return locus, nil
}

// isDate matches dates like "09-MAR-2022".
func isDate(s string) bool {
	return len(s) == 11 && s[2] == '-' && s[6] == '-'
}
