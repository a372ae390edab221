// Package conservation measures how well the DNA-binding site of the LexA
// repressor is conserved across bacterial species.
//
// The pipeline searches UniProtKB/Swiss-Prot entries of the lexA gene with
// Entrez, downloads them as GenPept, picks one DNA-binding site per species,
// aligns the sites with Clustal Omega and computes the information content
// of every alignment column.
package conservation

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/Dr-Moreb/biotite/application/msa"
	"github.com/Dr-Moreb/biotite/database/entrez"
	"github.com/Dr-Moreb/biotite/sequence"
	"github.com/Dr-Moreb/biotite/sequence/align"
	"github.com/Dr-Moreb/biotite/sequence/io/genbank"
)

// Log receives progress messages of Run.
var Log = log.New(io.Discard, "", 0)

// Site is the DNA-binding site of a single species.
type Site struct {
	Species  string // abbreviated, e.g. "E. coli"
	Record   string // accession of the GenPept record
	Sequence *sequence.Sequence
}

// Aligner computes a multiple alignment of protein sequences. The returned
// alignment lists the sequences in input order.
type Aligner func(ctx context.Context, seqs []*sequence.Sequence) (*align.Alignment, error)

// ClustalOmega returns an Aligner running the Clustal Omega executable.
func ClustalOmega(binary string) Aligner {
	return func(ctx context.Context, seqs []*sequence.Sequence) (*align.Alignment, error) {
		a, _, err := msa.Align(ctx, msa.ClustalOmega, binary, seqs)
		return a, err
	}
}

// Result is the outcome of the pipeline.
type Result struct {
	Sites        []Site
	Alignment    *align.Alignment
	Conservation []float64 // bits per alignment column
	Consensus    string
}

// Query returns the Entrez query for Swiss-Prot entries of the lexA gene.
func Query() entrez.Query {
	gene, err := entrez.NewSimpleQuery("lexA", "Gene Name")
	if err != nil {
		panic(err)
	}
	db, err := entrez.NewSimpleQuery("srcdb_swiss-prot", "Properties")
	if err != nil {
		panic(err)
	}
	return entrez.And(gene, db)
}

// Abbreviate shortens a species name to the first letter of the genus and
// the species epithet, e.g. "Escherichia coli K-12" to "E. coli". Square
// brackets, as used for reclassified genera, are removed.
func Abbreviate(species string) (string, error) {
	species = strings.NewReplacer("[", "", "]", "").Replace(species)
	fields := strings.Fields(species)
	if len(fields) < 2 {
		return "", fmt.Errorf("Cannot abbreviate species name '%s'.", species)
	}
	return fmt.Sprintf("%c. %s", []rune(fields[0])[0], fields[1]), nil
}

// Download searches Entrez for at most number lexA entries and reads the
// GenPept records.
func Download(ctx context.Context, c *entrez.Client, number int) ([]*genbank.Record, error) {
	uids, err := c.Search(ctx, Query(), "protein", number)
	if err != nil {
		return nil, err
	}
	if len(uids) == 0 {
		return nil, fmt.Errorf("The search '%s' returned no entries.", Query())
	}
	Log.Printf("Found %d entries.", len(uids))
	body, err := c.FetchContent(ctx, uids, "protein", "gp", "text")
	if err != nil {
		return nil, err
	}
	return genbank.ReadMulti(strings.NewReader(string(body)))
}

// BindingSite returns the last "Site" feature of the record whose site type
// is "DNA binding".
func BindingSite(rec *genbank.Record) (genbank.Feature, bool) {
	var found genbank.Feature
	ok := false
	for _, f := range rec.FeaturesWithKey("Site") {
		if t, has := f.Qual("site_type"); has && t == "DNA binding" {
			found, ok = f, true
		}
	}
	return found, ok
}

// SelectSites extracts the DNA-binding site of every record. Only the first
// record of each species is used, and records without a binding site or
// without a species name that can be abbreviated are skipped.
func SelectSites(recs []*genbank.Record) ([]Site, error) {
	var sites []Site
	listed := make(map[string]bool)
	for _, rec := range recs {
		species, err := Abbreviate(rec.Source())
		if err != nil {
			Log.Printf("Skipping %s: %s", rec.Accession(), err)
			continue
		}
		if listed[species] {
			continue
		}
		f, ok := BindingSite(rec)
		if !ok {
			continue
		}
		s, err := rec.Slice(f)
		if err != nil {
			return nil, fmt.Errorf("Binding site of %s: %s", rec.Accession(), err)
		}
		sites = append(sites, Site{
			Species:  species,
			Record:   rec.Accession(),
			Sequence: s,
		})
		listed[species] = true
	}
	return sites, nil
}

// Analyze aligns the binding sites and computes the conservation of the
// alignment columns.
func Analyze(ctx context.Context, sites []Site, aligner Aligner) (*Result, error) {
	if len(sites) < 2 {
		return nil, fmt.Errorf("At least 2 binding sites are required, "+
			"but %d were found.", len(sites))
	}
	seqs := make([]*sequence.Sequence, len(sites))
	for i, s := range sites {
		seqs[i] = s.Sequence
	}
	a, err := aligner(ctx, seqs)
	if err != nil {
		return nil, err
	}
	prof, err := align.NewProfile(a)
	if err != nil {
		return nil, err
	}
	return &Result{
		Sites:        sites,
		Alignment:    a,
		Conservation: prof.Conservation(),
		Consensus:    prof.Consensus(),
	}, nil
}

// Run executes the whole pipeline.
func Run(ctx context.Context, c *entrez.Client, number int, aligner Aligner) (*Result, error) {
	recs, err := Download(ctx, c, number)
	if err != nil {
		return nil, err
	}
	sites, err := SelectSites(recs)
	if err != nil {
		return nil, err
	}
	Log.Printf("Aligning %d binding sites of %d records.", len(sites), len(recs))
	return Analyze(ctx, sites, aligner)
}

// Write prints the labelled alignment followed by the consensus and the
// conservation of each column.
func (r *Result) Write(w io.Writer) error {
	width := 0
	for _, s := range r.Sites {
		if len(s.Species) > width {
			width = len(s.Species)
		}
	}
	var err error
	pf := func(format string, v ...interface{}) {
		if err != nil {
			return
		}
		_, err = fmt.Fprintf(w, format, v...)
	}
	for i, row := range r.Alignment.GappedStrings() {
		pf("%-*s  %s\n", width, r.Sites[i].Species, row)
	}
	pf("%-*s  %s\n\n", width, "consensus", r.Consensus)
	pf("column  symbol  bits\n")
	for i, bits := range r.Conservation {
		pf("%6d  %6c  %.3f\n", i+1, r.Consensus[i], bits)
	}
	return err
}
