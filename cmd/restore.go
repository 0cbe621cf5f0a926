package cmd

import (
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/deploymenttheory/go-sparserestore/internal/services"
	"github.com/deploymenttheory/go-sparserestore/pkg/app/restore"
)

var (
	// Device selection
	restoreUDID       string
	restoreBackupTool string

	// Pipeline steps
	restoreReboot        bool
	restoreSkipReference bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore [request-file]",
	Short: "Restore the files in a request file onto a connected device",
	Long: `Expand a request file into a synthetic backup archive and apply it to a
device as a system restore. The archive lives in a temporary directory that
is removed when the command exits.

Examples:
  # Restore onto the only connected device
  sparserestore restore requests.yaml

  # Target a device and restart it afterwards
  sparserestore restore requests.yaml --udid 00008030-001A2B3C4D5E --reboot`,

	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRestore(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(restoreCmd)

	restoreCmd.Flags().StringVar(&restoreUDID, "udid", "", "target device UDID")
	restoreCmd.Flags().StringVar(&restoreBackupTool, "backup-tool", "", "backup transfer tool executable")
	restoreCmd.Flags().BoolVar(&restoreReboot, "reboot", false, "restart the device after a successful restore")
	restoreCmd.Flags().BoolVar(&restoreSkipReference, "skip-reference", false, "skip the reference backup and its application metadata")
}

func runRestore(cmd *cobra.Command, requestFile string) error {
	ctx := newContext()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if restoreUDID != "" {
		cfg.UDID = restoreUDID
	}
	if restoreBackupTool != "" {
		cfg.BackupTool = restoreBackupTool
	}
	reboot := cfg.RebootAfterRestore
	if cmd.Flags().Changed("reboot") {
		reboot = restoreReboot
	}

	fs := afero.NewOsFs()
	reqs, err := restore.LoadRequests(fs, requestFile, cfg)
	if err != nil {
		return err
	}

	svc := services.NewRestoreService(services.NewExecRunner(), fs, cfg, ctx.Logger())
	response, err := restore.Handle(ctx, svc, &restore.Request{
		Requests:            reqs,
		SkipReferenceBackup: restoreSkipReference,
		Reboot:              reboot,
		Timeout:             cfg.RestoreTimeout,
	})
	if ferr := restore.FormatOutput(os.Stdout, response, ctx.OutputFormat); ferr != nil && err == nil {
		err = ferr
	}
	return err
}
