// Package cmd is for command line interactions with biotite
package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Dr-Moreb/biotite/application"
	"github.com/Dr-Moreb/biotite/config"
	"github.com/Dr-Moreb/biotite/internal/conservation"
)

// configFile is the path of the settings file given with --config.
var configFile string

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "biotite",
	Short: "Read, convert and analyze biological sequences and structures",
	Long: `Read, convert and analyze biological sequences and structures.

biotite converts FASTA, alignment and structure files, runs multiple sequence
alignment programs (MUSCLE, MAFFT, Clustal Omega), downloads entries from
NCBI Entrez and the RCSB PDB and analyzes the conservation of the LexA
DNA-binding site.

Settings are read from a TOML file (--config, or ~/.biotite.toml); see
'biotite config' for all keys and their values.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := readConfig(); err != nil {
			return err
		}
		if viper.GetBool("verbose") {
			logger := log.New(cmd.ErrOrStderr(), "", 0)
			application.Log = logger
			conservation.Log = logger
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := RootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}

func init() {
	config.SetDefaults(viper.GetViper())
	viper.SetEnvPrefix("biotite")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	RootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"settings file (default is ./biotite.toml or $HOME/.biotite.toml)")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"log the progress of external programs and downloads")

	viper.BindPFlag("verbose", RootCmd.PersistentFlags().Lookup("verbose"))
}

// readConfig merges the settings file into Viper. Without --config, the
// first of ./biotite.toml and ~/.biotite.toml is read, if any.
func readConfig() error {
	viper.SetConfigType("toml")
	if configFile != "" {
		viper.SetConfigFile(configFile)
		return viper.ReadInConfig()
	}
	candidates := []string{"biotite.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".biotite.toml"))
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		viper.SetConfigFile(path)
		return viper.ReadInConfig()
	}
	return nil
}

// settings returns the merged settings of defaults, settings file and flags.
func settings() (config.Config, error) {
	return config.New(viper.GetViper())
}
