package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Dr-Moreb/biotite/sequence/io/fasta"
)

var fastaHeaders []string

// fastaCmd groups the FASTA subcommands
var fastaCmd = &cobra.Command{
	Use:   "fasta",
	Short: "Inspect and convert FASTA files",
}

// fastaInfoCmd lists the sequences of a FASTA file
var fastaInfoCmd = &cobra.Command{
	Use:     "info [file]",
	Short:   "List the sequences of a FASTA file with their type and length",
	Args:    cobra.ExactArgs(1),
	Example: "  biotite fasta info lexa.fasta",
	RunE:    fastaInfo,
}

// fastaConvertCmd rewrites a FASTA file
var fastaConvertCmd = &cobra.Command{
	Use:   "convert [in] [out]",
	Short: "Validate and rewrite a FASTA file",
	Long: `Validate and rewrite a FASTA file.

Every sequence is converted to a nucleotide or protein sequence, so invalid
symbols are reported. The output is written in upper case and wrapped at
fasta.columns characters. Files ending in ".gz" are read and written
compressed.`,
	Args:    cobra.ExactArgs(2),
	Example: "  biotite fasta convert --header P0A7C2 lexa.fasta.gz ecoli.fasta",
	RunE:    fastaConvert,
}

func fastaInfo(cmd *cobra.Command, args []string) error {
	f, err := fasta.ReadFile(args[0])
	if err != nil {
		return err
	}
	recs, err := fasta.GetSequences(f)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, rec := range recs {
		fmt.Fprintf(out, "%s\t%s\t%d\n",
			rec.Header, rec.Sequence.Kind(), rec.Sequence.Len())
	}
	return nil
}

func fastaConvert(cmd *cobra.Command, args []string) error {
	c, err := settings()
	if err != nil {
		return err
	}
	in, err := fasta.ReadFile(args[0])
	if err != nil {
		return err
	}

	var recs []fasta.Record
	if len(fastaHeaders) == 0 {
		if recs, err = fasta.GetSequences(in); err != nil {
			return err
		}
	} else {
		for _, h := range fastaHeaders {
			s, err := fasta.GetSequence(in, h)
			if err != nil {
				return err
			}
			recs = append(recs, fasta.Record{Header: h, Sequence: s})
		}
	}

	out := fasta.NewFile()
	out.Columns = c.Fasta.Columns
	if err := fasta.SetSequences(out, recs); err != nil {
		return err
	}
	return out.WriteFile(args[1])
}

func init() {
	fastaConvertCmd.Flags().StringSliceVar(&fastaHeaders, "header", nil,
		"only convert the sequences with these headers")
	fastaConvertCmd.Flags().Int("columns", fasta.DefaultColumns,
		"line width of the written sequences")
	viper.BindPFlag("fasta.columns", fastaConvertCmd.Flags().Lookup("columns"))

	fastaCmd.AddCommand(fastaInfoCmd)
	fastaCmd.AddCommand(fastaConvertCmd)

	RootCmd.AddCommand(fastaCmd)
}
