// Package cli implements the documentor command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/documentor-dev/documentor/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "documentor",
	Short: "Documentation Q&A over your own corpus",
	Long: `Documentor ingests documentation from URLs, files, and raw text,
and answers natural-language questions about it using retrieval-augmented
generation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "documentor.toml", "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion overrides the reported version, for build-time injection.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
