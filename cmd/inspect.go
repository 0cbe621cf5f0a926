package cmd

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-sparserestore/pkg/app/inspect"
)

var (
	inspectDomain     string
	inspectPathPrefix string
	inspectLenient    bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [manifest-or-archive]",
	Short: "Decode a Manifest.mbdb and print its records",
	Long: `Decode a Manifest.mbdb, or the manifest inside an archive directory, and
print its records.

Examples:
  # Show every record of a built archive
  sparserestore inspect ./archive

  # Only records of one domain, as JSON
  sparserestore inspect ./archive/Manifest.mbdb --domain HomeDomain -o json`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectDomain, "domain", "", "only show records of this domain")
	inspectCmd.Flags().StringVar(&inspectPathPrefix, "prefix", "", "only show records whose path has this prefix")
	inspectCmd.Flags().BoolVar(&inspectLenient, "lenient", false, "decode as far as possible instead of failing on a damaged manifest")
}

func runInspect(cmd *cobra.Command, manifestPath string) error {
	ctx := newContext()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lenient := cfg.LenientDecode
	if cmd.Flags().Changed("lenient") {
		lenient = inspectLenient
	}

	response, err := inspect.Handle(ctx, afero.NewOsFs(), &inspect.Request{
		ManifestPath: manifestPath,
		Domain:       inspectDomain,
		PathPrefix:   inspectPathPrefix,
		Lenient:      lenient,
	})
	if err != nil {
		return err
	}

	return inspect.FormatOutput(os.Stdout, response, ctx.OutputFormat)
}
