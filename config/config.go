// Package config holds the settings of the biotite command, unmarshalled from
// Viper (see internal/cmd) or read from a TOML file.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// AppsConfig names the executables of the external alignment programs.
type AppsConfig struct {
	Muscle   string `mapstructure:"muscle" toml:"muscle"`
	Mafft    string `mapstructure:"mafft" toml:"mafft"`
	ClustalO string `mapstructure:"clustalo" toml:"clustalo"`

	// maximum run time of a program, as a duration string ("10m")
	Timeout string `mapstructure:"timeout" toml:"timeout"`
}

// EntrezConfig is the access to the NCBI E-utilities.
type EntrezConfig struct {
	URL    string `mapstructure:"url" toml:"url"`
	APIKey string `mapstructure:"api-key" toml:"api-key"`
	Email  string `mapstructure:"email" toml:"email"`
	Tool   string `mapstructure:"tool" toml:"tool"`
}

// RCSBConfig is the access to the RCSB file server.
type RCSBConfig struct {
	URL string `mapstructure:"url" toml:"url"`
}

// FastaConfig is for writing FASTA files.
type FastaConfig struct {
	// line width of written sequences
	Columns int `mapstructure:"columns" toml:"columns"`
}

// Config is the root-level settings struct.
type Config struct {
	Apps    AppsConfig   `mapstructure:"apps" toml:"apps"`
	Entrez  EntrezConfig `mapstructure:"entrez" toml:"entrez"`
	RCSB    RCSBConfig   `mapstructure:"rcsb" toml:"rcsb"`
	Fasta   FastaConfig  `mapstructure:"fasta" toml:"fasta"`
	Verbose bool         `mapstructure:"verbose" toml:"verbose"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Apps: AppsConfig{
			Muscle:   "muscle",
			Mafft:    "mafft",
			ClustalO: "clustalo",
			Timeout:  "10m",
		},
		Entrez: EntrezConfig{
			URL:  "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/",
			Tool: "biotite",
		},
		RCSB:  RCSBConfig{URL: "https://files.rcsb.org/download/"},
		Fasta: FastaConfig{Columns: 80},
	}
}

// SetDefaults registers the built-in settings as Viper defaults.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("apps.muscle", d.Apps.Muscle)
	v.SetDefault("apps.mafft", d.Apps.Mafft)
	v.SetDefault("apps.clustalo", d.Apps.ClustalO)
	v.SetDefault("apps.timeout", d.Apps.Timeout)
	v.SetDefault("entrez.url", d.Entrez.URL)
	v.SetDefault("entrez.api-key", d.Entrez.APIKey)
	v.SetDefault("entrez.email", d.Entrez.Email)
	v.SetDefault("entrez.tool", d.Entrez.Tool)
	v.SetDefault("rcsb.url", d.RCSB.URL)
	v.SetDefault("fasta.columns", d.Fasta.Columns)
	v.SetDefault("verbose", d.Verbose)
}

// New returns the settings held by Viper.
func New(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("unable to decode settings: %v", err)
	}
	return c, c.Validate()
}

// Load reads settings from TOML. Settings missing from the input keep their
// built-in values.
func Load(r io.Reader) (Config, error) {
	c := Default()
	if _, err := toml.NewDecoder(r).Decode(&c); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// Validate checks settings that cannot be checked by their type.
func (c Config) Validate() error {
	if _, err := c.Timeout(); err != nil {
		return err
	}
	if c.Fasta.Columns <= 0 {
		return fmt.Errorf("fasta.columns must be positive, but is %d.",
			c.Fasta.Columns)
	}
	return nil
}

// Timeout returns the maximum run time of the external programs. Zero means
// no limit.
func (c Config) Timeout() (time.Duration, error) {
	if c.Apps.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Apps.Timeout)
	if err != nil {
		return 0, fmt.Errorf("Invalid apps.timeout '%s': %s",
			c.Apps.Timeout, err)
	}
	return d, nil
}

// Write writes the settings as TOML.
func (c Config) Write(w io.Writer) error {
	encoder := toml.NewEncoder(w)
	if err := encoder.Encode(c); err != nil {
		return err
	}
	return nil
}
