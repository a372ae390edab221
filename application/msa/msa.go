// Package msa runs multiple sequence alignment programs (MUSCLE, MAFFT and
// Clustal Omega) on sequences and reads back the alignment.
//
// The input sequences are written to a FASTA file with the headers "0", "1",
// ... so that the output can be mapped back to the input order, whatever
// order the program writes its result in.
package msa

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Dr-Moreb/biotite/application"
	"github.com/Dr-Moreb/biotite/sequence"
	"github.com/Dr-Moreb/biotite/sequence/align"
	"github.com/Dr-Moreb/biotite/sequence/io/fasta"
	"github.com/Dr-Moreb/biotite/sequence/io/newick"
)

var ef = fmt.Errorf

// Program is an alignment program.
type Program int

const (
	// Muscle is MUSCLE 3 (-in/-out).
	Muscle Program = iota
	// Muscle5 is MUSCLE 5 (-align/-output).
	Muscle5
	Mafft
	ClustalOmega
)

func (p Program) String() string {
	switch p {
	case Muscle:
		return "muscle"
	case Muscle5:
		return "muscle5"
	case Mafft:
		return "mafft"
	case ClustalOmega:
		return "clustalo"
	}
	return fmt.Sprintf("Program(%d)", int(p))
}

// ParseProgram returns the program with the name given (as returned by
// Program.String).
func ParseProgram(name string) (Program, error) {
	for _, p := range []Program{Muscle, Muscle5, Mafft, ClustalOmega} {
		if p.String() == name {
			return p, nil
		}
	}
	return 0, ef("Unknown alignment program '%s'.", name)
}

// DefaultBinary is the executable name of the program.
func (p Program) DefaultBinary() string {
	if p == Muscle5 {
		return "muscle"
	}
	return p.String()
}

// App aligns sequences with an external program. Its life cycle is that of
// application.LocalApp: Start, then Join (or Cancel).
type App struct {
	program Program
	binary  string
	seqs    []*sequence.Sequence
	kind    sequence.Kind

	// WriteGuideTree makes Clustal Omega write its guide tree, which is then
	// available from App.GuideTree. It has no effect for other programs.
	WriteGuideTree bool

	dir      string
	inPath   string
	outPath  string
	treePath string
	local    *application.LocalApp

	alignment *align.Alignment
	order     []int
	tree      *newick.Tree
}

// New creates an alignment application for at least two sequences of the
// same kind (all nucleotide or all protein). If binary is empty, the
// program's default executable name is used.
func New(prog Program, binary string, seqs []*sequence.Sequence) (*App, error) {
	if len(seqs) < 2 {
		return nil, ef("At least two sequences are required for an "+
			"alignment, but %d were given.", len(seqs))
	}
	kind := seqs[0].Kind()
	for i, s := range seqs {
		if s.Kind() != sequence.Nucleotide && s.Kind() != sequence.Protein {
			return nil, ef("Sequence %d is neither a nucleotide nor a "+
				"protein sequence.", i)
		}
		if s.Kind() != kind {
			return nil, ef("Sequence %d is a %s sequence, but sequence 0 is "+
				"a %s sequence.", i, s.Kind(), kind)
		}
	}
	if binary == "" {
		binary = prog.DefaultBinary()
	}
	return &App{program: prog, binary: binary, seqs: seqs, kind: kind}, nil
}

// Program returns the program this application runs.
func (app *App) Program() Program {
	return app.program
}

// State returns the life cycle state of the application.
func (app *App) State() application.State {
	if app.local == nil {
		return application.Created
	}
	return app.local.State()
}

// Start writes the input file and runs the program.
func (app *App) Start(ctx context.Context) error {
	if app.local != nil {
		return &application.StateError{Op: "start", Current: app.State(),
			Allowed: []application.State{application.Created}}
	}
	dir, err := os.MkdirTemp("", "biotite-msa-")
	if err != nil {
		return err
	}
	app.dir = dir
	app.inPath = filepath.Join(dir, "in.fa")
	app.outPath = filepath.Join(dir, "out.fa")
	app.treePath = filepath.Join(dir, "tree.dnd")

	in := fasta.NewFile()
	for i, s := range app.seqs {
		in.Set(strconv.Itoa(i), s.String())
	}
	if err := in.WriteFile(app.inPath); err != nil {
		app.cleanUp()
		return err
	}

	app.local = application.NewLocalApp(app.binary, app.args()...)
	if err := app.local.Start(ctx); err != nil {
		app.cleanUp()
		app.local = nil
		return err
	}
	return nil
}

func (app *App) args() []string {
	switch app.program {
	case Muscle:
		return []string{"-quiet", "-in", app.inPath, "-out", app.outPath}
	case Muscle5:
		return []string{"-align", app.inPath, "-output", app.outPath}
	case Mafft:
		return []string{"--quiet", "--reorder", "--auto", app.inPath}
	case ClustalOmega:
		seqType := "Protein"
		if app.kind == sequence.Nucleotide {
			seqType = "DNA"
		}
		args := []string{
			"--in", app.inPath,
			"--out", app.outPath,
			"--force",
			"--output-order=tree-order",
			"--seqtype", seqType,
		}
		if app.WriteGuideTree {
			args = append(args, "--guidetree-out", app.treePath)
		}
		return args
	}
	panic(fmt.Sprintf("unknown program %d", app.program))
}

// Join waits for the program and reads its output.
func (app *App) Join() error {
	if app.local == nil {
		return &application.StateError{Op: "join", Current: application.Created,
			Allowed: []application.State{application.Running,
				application.Finished}}
	}
	defer app.cleanUp()
	if err := app.local.Join(); err != nil {
		return err
	}

	var out []byte
	var err error
	if app.program == Mafft {
		stdout, err := app.local.Stdout()
		if err != nil {
			return err
		}
		out = []byte(stdout)
	} else {
		out, err = os.ReadFile(app.outPath)
		if err != nil {
			return ef("Could not read the output of %s: %s", app.program, err)
		}
	}
	app.alignment, app.order, err = parseOutput(out, app.seqs)
	if err != nil {
		return ef("Could not parse the output of %s: %s", app.program, err)
	}

	if app.program == ClustalOmega && app.WriteGuideTree {
		f, err := os.Open(app.treePath)
		if err != nil {
			return ef("Could not read the guide tree: %s", err)
		}
		defer f.Close()
		app.tree, _, err = newick.ReadGuideTree(f, len(app.seqs))
		if err != nil {
			return ef("Could not parse the guide tree: %s", err)
		}
	}
	return nil
}

// Cancel stops the program.
func (app *App) Cancel() error {
	if app.local == nil {
		return &application.StateError{Op: "cancel",
			Current: application.Created,
			Allowed: []application.State{application.Running,
				application.Finished}}
	}
	defer app.cleanUp()
	return app.local.Cancel()
}

func (app *App) cleanUp() {
	if app.dir != "" {
		os.RemoveAll(app.dir)
		app.dir = ""
	}
}

func (app *App) requireJoined() error {
	if s := app.State(); s != application.Joined || app.alignment == nil {
		return &application.StateError{Op: "get the results of", Current: s,
			Allowed: []application.State{application.Joined}}
	}
	return nil
}

// Alignment returns the alignment, with the sequences in input order.
func (app *App) Alignment() (*align.Alignment, error) {
	if err := app.requireJoined(); err != nil {
		return nil, err
	}
	return app.alignment, nil
}

// Order returns the input indices in the order the program wrote them,
// which is the order of the leaves of its guide tree.
func (app *App) Order() ([]int, error) {
	if err := app.requireJoined(); err != nil {
		return nil, err
	}
	return app.order, nil
}

// GuideTree returns the guide tree written by Clustal Omega. Its leaf labels
// are input indices, each of which occurs once.
func (app *App) GuideTree() (*newick.Tree, error) {
	if err := app.requireJoined(); err != nil {
		return nil, err
	}
	if app.tree == nil {
		return nil, ef("No guide tree is available from %s.", app.program)
	}
	return app.tree, nil
}

// parseOutput reads an aligned FASTA output with index headers into an
// alignment of the input sequences and the output order.
func parseOutput(out []byte, seqs []*sequence.Sequence) (*align.Alignment, []int, error) {
	f, err := fasta.Read(bytes.NewReader(out))
	if err != nil {
		return nil, nil, err
	}
	if f.Len() != len(seqs) {
		return nil, nil, ef("Expected %d sequences, but got %d.",
			len(seqs), f.Len())
	}

	order := make([]int, 0, len(seqs))
	gapped := make([]string, len(seqs))
	for _, header := range f.Headers() {
		i, err := strconv.Atoi(header)
		if err != nil || i < 0 || i >= len(seqs) || gapped[i] != "" {
			return nil, nil, ef("Unexpected sequence header '%s'.", header)
		}
		s, _ := f.Get(header)
		gapped[i] = s
		order = append(order, i)
	}

	trace, err := align.TraceFromStrings(gapped)
	if err != nil {
		return nil, nil, err
	}
	a, err := align.New(seqs, trace, nil)
	if err != nil {
		return nil, nil, err
	}
	return a, order, nil
}

// Align runs the program on the sequences and returns the alignment in
// input order, together with the output order.
func Align(ctx context.Context, prog Program, binary string,
	seqs []*sequence.Sequence) (*align.Alignment, []int, error) {

	app, err := New(prog, binary, seqs)
	if err != nil {
		return nil, nil, err
	}
	if err := app.Start(ctx); err != nil {
		return nil, nil, err
	}
	if err := app.Join(); err != nil {
		return nil, nil, err
	}
	return app.alignment, app.order, nil
}
