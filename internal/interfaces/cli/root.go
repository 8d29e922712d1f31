// Package cli implements the mossctl command tree: a one-shot analyze
// command for local files and a serve command that runs the API server.
package cli

import (
	"github.com/spf13/cobra"
)

var cfgFile string

// NewRootCommand assembles the command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "mossctl",
		Short:         "Mössbauer spectrum analysis service",
		Long:          "mossctl fits Mössbauer spectra, classifies iron sites, and serves the analysis REST API.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (YAML); defaults to environment-only configuration")

	root.AddCommand(newAnalyzeCommand())
	root.AddCommand(newServeCommand())
	return root
}
