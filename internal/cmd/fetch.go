package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Dr-Moreb/biotite/config"
	"github.com/Dr-Moreb/biotite/database/entrez"
	"github.com/Dr-Moreb/biotite/database/rcsb"
)

var (
	fetchDir       string
	fetchOverwrite bool

	entrezField   string
	entrezDB      string
	entrezRetType string
	entrezRetMode string
	entrezNumber  int
	entrezSingle  string
	entrezSuffix  string
	entrezUIDs    bool

	rcsbFormat string
)

// fetchCmd groups the download subcommands
var fetchCmd = &cobra.Command{
	Use:     "fetch",
	Short:   "Download entries from NCBI Entrez or the RCSB PDB",
	Aliases: []string{"download"},
}

// fetchEntrezCmd searches Entrez and downloads the hits
var fetchEntrezCmd = &cobra.Command{
	Use:   "entrez [term]...",
	Short: "Search an Entrez database and download the matching records",
	Long: `Search an Entrez database and download the matching records.

The terms are combined with AND, each restricted to --field if given.
With --uids the arguments are taken as UIDs and no search is done.
Records are written to one file per UID in --dir, or concatenated into the
file given with --single.`,
	Args: cobra.MinimumNArgs(1),
	Example: `  biotite fetch entrez --field "Gene Name" --db protein --rettype gp lexA
  biotite fetch entrez --uids --single hits.fasta 1360035651 1347012573`,
	RunE: fetchEntrez,
}

// fetchRCSBCmd downloads PDB entries
var fetchRCSBCmd = &cobra.Command{
	Use:     "rcsb [pdb id]...",
	Short:   "Download structure files from the RCSB PDB",
	Args:    cobra.MinimumNArgs(1),
	Example: "  biotite fetch rcsb --format cif 1l2y 1aki",
	RunE:    fetchRCSB,
}

// entrezClient returns a client for the configured Entrez service.
func entrezClient(c config.Config) *entrez.Client {
	client := entrez.NewClient()
	client.URL = c.Entrez.URL
	client.APIKey = c.Entrez.APIKey
	client.Email = c.Entrez.Email
	client.Tool = c.Entrez.Tool
	return client
}

// entrezQuery combines terms with AND.
func entrezQuery(terms []string, field string) (entrez.Query, error) {
	var q entrez.Query
	for _, term := range terms {
		sq, err := entrez.NewSimpleQuery(term, field)
		if err != nil {
			return nil, err
		}
		if q == nil {
			q = sq
		} else {
			q = entrez.And(q, sq)
		}
	}
	return q, nil
}

func fetchEntrez(cmd *cobra.Command, args []string) error {
	c, err := settings()
	if err != nil {
		return err
	}
	client := entrezClient(c)
	ctx := cmd.Context()

	uids := args
	if !entrezUIDs {
		q, err := entrezQuery(args, entrezField)
		if err != nil {
			return err
		}
		if uids, err = client.Search(ctx, q, entrezDB, entrezNumber); err != nil {
			return err
		}
		if len(uids) == 0 {
			return fmt.Errorf("No entries match '%s'.", q)
		}
	}

	out := cmd.OutOrStdout()
	if entrezSingle != "" {
		path, err := client.FetchSingleFile(ctx, uids, entrezSingle, entrezDB,
			entrezRetType, entrezRetMode, fetchOverwrite)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, path)
		return nil
	}
	suffix := entrezSuffix
	if suffix == "" {
		suffix = entrezRetType
	}
	paths, err := client.Fetch(ctx, uids, fetchDir, suffix, entrezDB,
		entrezRetType, entrezRetMode, fetchOverwrite)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, strings.Join(paths, "\n"))
	return nil
}

func fetchRCSB(cmd *cobra.Command, args []string) error {
	c, err := settings()
	if err != nil {
		return err
	}
	client := rcsb.NewClient()
	client.URL = c.RCSB.URL
	paths, err := client.Fetch(cmd.Context(), args, rcsbFormat, fetchDir,
		fetchOverwrite)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(paths, "\n"))
	return nil
}

func init() {
	fetchCmd.PersistentFlags().StringVarP(&fetchDir, "dir", "d", ".",
		"directory of the downloaded files")
	fetchCmd.PersistentFlags().BoolVar(&fetchOverwrite, "overwrite", false,
		"download files that already exist")

	fetchEntrezCmd.Flags().StringVar(&entrezField, "field", "",
		"Entrez field of the search terms, e.g. \"Gene Name\"")
	fetchEntrezCmd.Flags().StringVar(&entrezDB, "db", "protein",
		"Entrez database")
	fetchEntrezCmd.Flags().StringVar(&entrezRetType, "rettype", "fasta",
		"record format, e.g. fasta, gb or gp")
	fetchEntrezCmd.Flags().StringVar(&entrezRetMode, "retmode", "text",
		"retrieval mode, e.g. text or xml")
	fetchEntrezCmd.Flags().IntVarP(&entrezNumber, "number", "n", 20,
		"maximum number of search hits")
	fetchEntrezCmd.Flags().StringVar(&entrezSingle, "single", "",
		"write all records into this file")
	fetchEntrezCmd.Flags().StringVar(&entrezSuffix, "suffix", "",
		"file suffix (default is the record format)")
	fetchEntrezCmd.Flags().BoolVar(&entrezUIDs, "uids", false,
		"the arguments are UIDs instead of search terms")
	fetchEntrezCmd.Flags().String("api-key", "", "NCBI API key")
	fetchEntrezCmd.Flags().String("email", "", "contact address sent to NCBI")

	viper.BindPFlag("entrez.api-key", fetchEntrezCmd.Flags().Lookup("api-key"))
	viper.BindPFlag("entrez.email", fetchEntrezCmd.Flags().Lookup("email"))

	fetchRCSBCmd.Flags().StringVarP(&rcsbFormat, "format", "f", rcsb.FormatPDB,
		"file format (pdb or cif)")

	fetchCmd.AddCommand(fetchEntrezCmd)
	fetchCmd.AddCommand(fetchRCSBCmd)

	RootCmd.AddCommand(fetchCmd)
}
