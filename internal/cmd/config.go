package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Dr-Moreb/biotite/config"
)

var configDefaults bool

// configCmd prints the settings
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the settings as TOML",
	Long: `Print the settings as TOML.

The output merges the built-in defaults, the settings file and the flags of
this invocation. It can be saved as ~/.biotite.toml and edited from there.`,
	Args:    cobra.NoArgs,
	Example: "  biotite config --defaults > ~/.biotite.toml",
	RunE: func(cmd *cobra.Command, args []string) error {
		if configDefaults {
			return config.Default().Write(cmd.OutOrStdout())
		}
		c, err := settings()
		if err != nil {
			return err
		}
		return c.Write(cmd.OutOrStdout())
	},
}

func init() {
	configCmd.Flags().BoolVar(&configDefaults, "defaults", false,
		"print the built-in settings, ignoring the settings file")

	RootCmd.AddCommand(configCmd)
}
