package cmd

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-sparserestore/internal/services"
	"github.com/deploymenttheory/go-sparserestore/pkg/app/restore"
)

var (
	buildOutputDir string
	buildBundle    string
)

var buildCmd = &cobra.Command{
	Use:   "build [request-file]",
	Short: "Assemble an archive directory from a request file",
	Long: `Expand a request file and write the resulting archive to a directory,
without running any transfer tool.

Examples:
  # Write the archive to ./archive
  sparserestore build requests.yaml --out ./archive

  # Also produce a compressed bundle
  sparserestore build requests.yaml --out ./archive --bundle archive.tar.zst`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(args[0])
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildOutputDir, "out", "", "archive output directory")
	buildCmd.Flags().StringVar(&buildBundle, "bundle", "", "also write the archive as a zstd tarball")
	_ = buildCmd.MarkFlagRequired("out")
}

func runBuild(requestFile string) error {
	ctx := newContext()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fs := afero.NewOsFs()
	reqs, err := restore.LoadRequests(fs, requestFile, cfg)
	if err != nil {
		return err
	}

	svc := services.NewRestoreService(services.NewExecRunner(), fs, cfg, ctx.Logger())
	response, err := restore.HandleBuild(ctx, fs, svc, &restore.BuildRequest{
		Requests:   reqs,
		OutputDir:  buildOutputDir,
		BundlePath: buildBundle,
	})
	if ferr := restore.FormatOutput(os.Stdout, response, ctx.OutputFormat); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
