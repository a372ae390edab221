// Package genbank reads and writes GenBank and GenPept flat files.
//
// A file may contain several concatenated records, each terminated by a
// "//" line, as returned by the NCBI EFetch service. Every record is parsed
// into its header fields, its features (with locations and qualifiers) and
// its sequence.
package genbank

import (
	"fmt"
	"strings"

	"github.com/Dr-Moreb/biotite/sequence"
)

var (
	ef = fmt.Errorf
	sf = fmt.Sprintf
)

// Locus holds the contents of the LOCUS line.
type Locus struct {
	Name     string
	Length   int
	Protein  bool // the length is given in "aa" instead of "bp"
	MolType  string
	Circular bool
	Division string
	Date     string
}

// Field is a top level field of a record, such as "KEYWORDS". Sub fields
// (e.g. "ORGANISM" of "SOURCE") follow their parent field with Sub set to
// true.
type Field struct {
	Name string
	Sub  bool

	// Lines holds the content of the field line and its continuation lines
	// without indentation.
	Lines []string

	// Content is Lines joined with a single space.
	Content string
}

// Qualifier is a "/key=value" line of a feature. Flags without a value (such
// as "/pseudo") have an empty Value.
type Qualifier struct {
	Key   string
	Value string
}

// Feature is an entry of the FEATURES table.
type Feature struct {
	Key        string
	Locations  []Location
	Qualifiers []Qualifier
}

// Qual returns the value of the first qualifier with the given key.
func (f Feature) Qual(key string) (string, bool) {
	for _, q := range f.Qualifiers {
		if q.Key == key {
			return q.Value, true
		}
	}
	return "", false
}

// Record is a single GenBank or GenPept entry.
type Record struct {
	Locus    Locus
	Fields   []Field
	Features []Feature
	Sequence *sequence.Sequence
}

// Field returns the content of the first field with the given name.
func (r *Record) Field(name string) (string, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Content, true
		}
	}
	return "", false
}

func (r *Record) field(name string) string {
	s, _ := r.Field(name)
	return s
}

// Definition returns the DEFINITION field, without the trailing period.
func (r *Record) Definition() string {
	return strings.TrimSuffix(r.field("DEFINITION"), ".")
}

// Accession returns the primary accession of the record.
func (r *Record) Accession() string {
	fields := strings.Fields(r.field("ACCESSION"))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Version returns the VERSION field, e.g. "P0A7C2.2".
func (r *Record) Version() string {
	fields := strings.Fields(r.field("VERSION"))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Source returns the SOURCE field (the common species name).
func (r *Record) Source() string {
	return strings.TrimSuffix(r.field("SOURCE"), ".")
}

// Organism returns the scientific name of the ORGANISM sub field. The
// taxonomic lineage on the following lines is not included.
func (r *Record) Organism() string {
	for _, f := range r.Fields {
		if f.Name == "ORGANISM" && f.Sub && len(f.Lines) > 0 {
			return f.Lines[0]
		}
	}
	return ""
}

// FeaturesWithKey returns the features whose key is one of keys.
func (r *Record) FeaturesWithKey(keys ...string) []Feature {
	var feats []Feature
	for _, f := range r.Features {
		for _, k := range keys {
			if f.Key == k {
				feats = append(feats, f)
				break
			}
		}
	}
	return feats
}

// Slice returns the part of the record's sequence that the feature covers.
// The parts of a multi location feature are concatenated. Parts on the
// reverse strand of a nucleotide sequence are reverse complemented. A part
// between two adjacent bases ("5^6") covers no residues, so a feature made
// only of such parts yields an empty sequence.
func (r *Record) Slice(f Feature) (*sequence.Sequence, error) {
	if r.Sequence == nil {
		return nil, ef("Record '%s' has no sequence.", r.Locus.Name)
	}
	if len(f.Locations) == 0 {
		return nil, ef("Feature '%s' has no location.", f.Key)
	}

	var out *sequence.Sequence
	for _, loc := range f.Locations {
		if loc.First < 1 || loc.Last > r.Sequence.Len() {
			return nil, ef("Location %s is outside of the sequence "+
				"(length %d).", loc, r.Sequence.Len())
		}
		part := r.Sequence.Slice(loc.First-1, loc.First-1+loc.Len())
		if loc.Strand == Reverse && part.Kind() == sequence.Nucleotide &&
			part.Len() > 0 {
			var err error
			if part, err = part.ReverseComplement(); err != nil {
				return nil, err
			}
		}
		if out == nil {
			out = part
			continue
		}
		joined, err := out.Concat(part)
		if err != nil {
			return nil, err
		}
		out = joined
	}
	return out, nil
}
