package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Dr-Moreb/biotite/application/msa"
	"github.com/Dr-Moreb/biotite/config"
	"github.com/Dr-Moreb/biotite/sequence"
	"github.com/Dr-Moreb/biotite/sequence/align"
	"github.com/Dr-Moreb/biotite/sequence/io/fasta"
	msaio "github.com/Dr-Moreb/biotite/sequence/io/msa"
)

var (
	alignProgram string
	alignFormat  string
	alignTree    string
	alignOrdered bool
)

// alignCmd runs an external multiple sequence alignment program
var alignCmd = &cobra.Command{
	Use:   "align [in] [out]",
	Short: "Align the sequences of a FASTA file",
	Long: `Align the sequences of a FASTA file with MUSCLE, MAFFT or Clustal Omega.

The executable of each program is taken from the apps settings and the run
is aborted after apps.timeout. The output format follows the suffix of the
output file (aligned FASTA, A2M, A3M or Stockholm) unless --format is given.
By default the sequences keep the order of the input file; with --ordered
they are written in the order chosen by the program.`,
	Args:    cobra.ExactArgs(2),
	Example: "  biotite align --program clustalo --tree guide.dnd sites.fasta sites.sto",
	RunE:    alignExec,
}

func alignExec(cmd *cobra.Command, args []string) error {
	c, err := settings()
	if err != nil {
		return err
	}
	prog, err := msa.ParseProgram(alignProgram)
	if err != nil {
		return err
	}
	format, err := alignOutputFormat(args[1])
	if err != nil {
		return err
	}

	in, err := fasta.ReadFile(args[0])
	if err != nil {
		return err
	}
	recs, err := fasta.GetSequences(in)
	if err != nil {
		return err
	}
	seqs := make([]*sequence.Sequence, len(recs))
	names := make([]string, len(recs))
	for i, rec := range recs {
		seqs[i], names[i] = rec.Sequence, rec.Header
	}

	app, err := msa.New(prog, programBinary(c, prog), seqs)
	if err != nil {
		return err
	}
	app.WriteGuideTree = alignTree != ""

	ctx := cmd.Context()
	timeout, _ := c.Timeout()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if err := app.Start(ctx); err != nil {
		return err
	}
	if err := app.Join(); err != nil {
		return err
	}

	a, _ := app.Alignment()
	if alignOrdered {
		order, _ := app.Order()
		if a, names, err = reorder(a, names, order); err != nil {
			return err
		}
	}
	if err := writeAlignment(args[1], format, a, names); err != nil {
		return err
	}
	if alignTree != "" && prog == msa.ClustalOmega {
		return writeGuideTree(app, alignTree, recs)
	}
	return nil
}

func alignOutputFormat(path string) (msaio.Format, error) {
	if alignFormat != "" {
		return msaio.ParseFormat(alignFormat)
	}
	return msaio.FormatFromPath(path)
}

// programBinary returns the configured executable of a program.
func programBinary(c config.Config, prog msa.Program) string {
	switch prog {
	case msa.Muscle, msa.Muscle5:
		return c.Apps.Muscle
	case msa.Mafft:
		return c.Apps.Mafft
	case msa.ClustalOmega:
		return c.Apps.ClustalO
	}
	return ""
}

func reorder(a *align.Alignment, names []string, order []int) (*align.Alignment, []string, error) {
	ordered, err := a.Reorder(order)
	if err != nil {
		return nil, nil, err
	}
	onames := make([]string, len(order))
	for i, j := range order {
		onames[i] = names[j]
	}
	return ordered, onames, nil
}

func writeAlignment(path string, format msaio.Format, a *align.Alignment, names []string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return msaio.WriteAlignment(f, format, a, names)
}

// writeGuideTree writes the guide tree with the input headers as leaf labels.
func writeGuideTree(app *msa.App, path string, recs []fasta.Record) error {
	tree, err := app.GuideTree()
	if err != nil {
		return err
	}
	indices, err := tree.LeafIndices()
	if err != nil {
		return err
	}
	for i, leaf := range tree.Leaves() {
		leaf.Label = recs[indices[i]].Header
	}
	return os.WriteFile(path, []byte(tree.Newick()+"\n"), 0644)
}

func init() {
	alignCmd.Flags().StringVarP(&alignProgram, "program", "p", "clustalo",
		"alignment program (muscle, muscle5, mafft or clustalo)")
	alignCmd.Flags().StringVarP(&alignFormat, "format", "f", "",
		"output format (fasta, a2m, a3m or stockholm)")
	alignCmd.Flags().StringVar(&alignTree, "tree", "",
		"write the Clustal Omega guide tree to this file")
	alignCmd.Flags().BoolVar(&alignOrdered, "ordered", false,
		"write the sequences in the order of the program output")
	alignCmd.Flags().String("timeout", "",
		"maximum run time of the program, e.g. 30s")

	viper.BindPFlag("apps.timeout", alignCmd.Flags().Lookup("timeout"))

	RootCmd.AddCommand(alignCmd)
}
