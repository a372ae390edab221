package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Dr-Moreb/biotite/internal/conservation"
	"github.com/Dr-Moreb/biotite/sequence"
	"github.com/Dr-Moreb/biotite/sequence/align"
)

var conservationNumber int

// conservationCmd runs the LexA binding site pipeline
var conservationCmd = &cobra.Command{
	Use:   "conservation",
	Short: "Report the conservation of the LexA DNA-binding site",
	Long: `Report the conservation of the LexA DNA-binding site.

The lexA entries of UniProtKB/Swiss-Prot are downloaded from NCBI Entrez as
GenPept records. The DNA-binding site of one record per species is aligned
with Clustal Omega (apps.clustalo) and the information content of every
alignment column is reported in bits, together with the consensus.`,
	Args:    cobra.NoArgs,
	Example: "  biotite conservation --number 100",
	RunE:    conservationExec,
}

func conservationExec(cmd *cobra.Command, args []string) error {
	c, err := settings()
	if err != nil {
		return err
	}
	timeout, _ := c.Timeout()
	clustalo := conservation.ClustalOmega(c.Apps.ClustalO)
	aligner := func(ctx context.Context, seqs []*sequence.Sequence) (*align.Alignment, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return clustalo(ctx, seqs)
	}

	res, err := conservation.Run(cmd.Context(), entrezClient(c),
		conservationNumber, aligner)
	if err != nil {
		return err
	}
	return res.Write(cmd.OutOrStdout())
}

func init() {
	conservationCmd.Flags().IntVarP(&conservationNumber, "number", "n", 200,
		"maximum number of Entrez records")

	RootCmd.AddCommand(conservationCmd)
}
