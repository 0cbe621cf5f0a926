package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-sparserestore/internal/config"
	"github.com/deploymenttheory/go-sparserestore/pkg/app"
)

var (
	// Global output flags
	verbose      bool
	quiet        bool
	outputFormat string
	configDir    string
)

var rootCmd = &cobra.Command{
	Use:   "sparserestore",
	Short: "Assemble synthetic iOS backup archives and restore them to a device",
	Long: `sparserestore builds minimal iOS backup archives that carry only the
files you ask for, then hands them to a backup transfer tool as a system
restore.

Commands:
  restore     Restore files onto a connected device
  build       Assemble an archive directory without touching a device
  inspect     Decode and print a Manifest.mbdb
  classify    Show which backup domain a path belongs to`,
	Version:       "0.1.0-dev",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output except errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "directory to search first for sparserestore.yaml")
}

// newContext builds the application context from the global flags
func newContext() *app.Context {
	ctx := app.NewContext()
	ctx.OutputFormat = outputFormat
	ctx.Verbose = verbose
	ctx.Quiet = quiet
	if verbose && !quiet {
		ctx.SetProgress(func(message string, percent int) {
			fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", percent, message)
		})
	}
	return ctx
}

// loadConfig reads configuration, searching --config first when given
func loadConfig() (*config.Config, error) {
	if configDir != "" {
		return config.Load(configDir)
	}
	return config.Load()
}
