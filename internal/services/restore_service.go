package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/deploymenttheory/go-sparserestore/internal/backup"
	"github.com/deploymenttheory/go-sparserestore/internal/config"
	"github.com/deploymenttheory/go-sparserestore/internal/restore"
)

// errManifestNotFound is wrapped in a ManifestError when the reference
// backup produced no Manifest.plist.
var errManifestNotFound = errors.New("Manifest.plist not found")

// RestoreOptions selects the optional steps of a restore.
type RestoreOptions struct {
	// SkipReferenceBackup skips the empty reference backup. No application
	// metadata is copied into Manifest.plist.
	SkipReferenceBackup bool
	// Reboot restarts the device after a successful restore.
	Reboot bool
}

// RestoreResult is the outcome of a successful restore.
type RestoreResult struct {
	Entries  int
	Stdout   string
	Stderr   string
	Rebooted bool
}

// RestoreService runs the expand, assemble and hand-off pipeline. It is
// not safe for concurrent use.
type RestoreService struct {
	runner ToolRunner
	fs     afero.Fs
	config *config.Config
	logger *slog.Logger
}

// NewRestoreService creates a service. A nil logger discards log output.
func NewRestoreService(runner ToolRunner, fs afero.Fs, cfg *config.Config, logger *slog.Logger) *RestoreService {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &RestoreService{
		runner: runner,
		fs:     fs,
		config: cfg,
		logger: logger,
	}
}

// Assemble expands reqs and writes the archive into dir.
func (s *RestoreService) Assemble(reqs []restore.Request, dir string, applications map[string]interface{}) (int, error) {
	entries, err := restore.ExpandAll(reqs)
	if err != nil {
		return 0, fmt.Errorf("failed to expand requests: %w", err)
	}
	s.logger.Debug("expanded restore requests", "requests", len(reqs), "entries", len(entries))

	b := &backup.Backup{
		Entries:        entries,
		Applications:   applications,
		DomainsVersion: s.config.DomainsVersion,
	}
	if err := b.WriteToDirectory(s.fs, dir); err != nil {
		return 0, fmt.Errorf("failed to assemble archive: %w", err)
	}
	for _, e := range entries {
		s.logger.Debug("archived entry", "domain", e.Domain(), "path", e.Path())
	}
	s.logger.Info("assembled archive", "dir", dir, "entries", len(entries))

	return len(entries), nil
}

// Restore assembles reqs into a temporary archive and applies it to the
// device. The archive and the reference backup are removed on every exit
// path. The first failure aborts the remaining steps.
func (s *RestoreService) Restore(ctx context.Context, reqs []restore.Request, opts RestoreOptions) (*RestoreResult, error) {
	var applications map[string]interface{}
	if !opts.SkipReferenceBackup {
		apps, err := s.referenceApplications(ctx)
		if err != nil {
			return nil, err
		}
		applications = apps
	}

	result := &RestoreResult{}
	err := withTempDir(s.fs, s.config.TempDir, "sparserestore-", func(dir string) error {
		count, err := s.Assemble(reqs, dir, applications)
		if err != nil {
			return err
		}
		result.Entries = count

		args := []string{"restore", "--system", dir}
		s.logger.Info("restoring archive", "dir", dir)
		res, err := s.run(ctx, s.config.BackupTool, args)
		if err != nil {
			return err
		}
		if !res.Success && !s.completed(res.Stdout) {
			return s.processError(s.config.BackupTool, args, res)
		}
		result.Stdout = res.Stdout
		result.Stderr = res.Stderr
		return nil
	})
	if err != nil {
		return nil, err
	}

	if opts.Reboot {
		if err := s.Reboot(ctx); err != nil {
			return nil, err
		}
		result.Rebooted = true
	}

	return result, nil
}

// Reboot restarts the device through the diagnostics tool.
func (s *RestoreService) Reboot(ctx context.Context) error {
	args := []string{"restart"}
	s.logger.Info("restarting device")
	res, err := s.run(ctx, s.config.DiagnosticsTool, args)
	if err != nil {
		return err
	}
	if !res.Success {
		return s.processError(s.config.DiagnosticsTool, args, res)
	}
	return nil
}

// referenceApplications creates an empty full backup and returns the
// Applications dict of its Manifest.plist, which may be empty.
func (s *RestoreService) referenceApplications(ctx context.Context) (map[string]interface{}, error) {
	var applications map[string]interface{}

	err := withTempDir(s.fs, s.config.TempDir, "sparserestore-ref-", func(dir string) error {
		args := []string{"backup", "--full", "--system", dir}
		s.logger.Info("creating reference backup", "dir", dir)
		res, err := s.run(ctx, s.config.BackupTool, args)
		if err != nil {
			return err
		}
		if !res.Success {
			return s.processError(s.config.BackupTool, args, res)
		}

		manifest, err := s.readReferenceManifest(dir)
		if err != nil {
			return err
		}
		applications = manifest.Applications
		s.logger.Debug("read reference manifest", "applications", len(applications))
		return nil
	})

	return applications, err
}

// readReferenceManifest finds the first Manifest.plist under dir. The tool
// usually nests it in a per-device subdirectory.
func (s *RestoreService) readReferenceManifest(dir string) (*backup.Manifest, error) {
	var found string
	err := afero.Walk(s.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && info.Name() == backup.ManifestPlist {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil && !errors.Is(err, filepath.SkipAll) {
		return nil, &ManifestError{Path: dir, Err: err}
	}
	if found == "" {
		return nil, &ManifestError{Path: dir, Err: errManifestNotFound}
	}

	data, err := afero.ReadFile(s.fs, found)
	if err != nil {
		return nil, &ManifestError{Path: found, Err: err}
	}
	manifest, err := backup.ParseManifest(data)
	if err != nil {
		return nil, &ManifestError{Path: found, Err: err}
	}
	return manifest, nil
}

func (s *RestoreService) run(ctx context.Context, tool string, args []string) (ToolResult, error) {
	full := args
	if s.config.UDID != "" {
		full = append([]string{"-u", s.config.UDID}, args...)
	}
	res, err := s.runner.Run(ctx, tool, full...)
	if err != nil {
		return res, err
	}
	s.logger.Debug("tool finished", "tool", tool, "args", strings.Join(full, " "), "success", res.Success)
	return res, nil
}

// completed reports whether stdout carries the restore completion phrase.
// The restore tool can exit nonzero after a restore that did apply.
func (s *RestoreService) completed(stdout string) bool {
	return s.config.CompletionPhrase != "" && strings.Contains(stdout, s.config.CompletionPhrase)
}

func (s *RestoreService) processError(tool string, args []string, res ToolResult) error {
	err := &ProcessError{
		Tool:     tool,
		Args:     args,
		ExitCode: res.ExitCode,
		Stdout:   res.Stdout,
		Stderr:   res.Stderr,
	}
	s.logger.Error("tool failed", "tool", tool, "exit_code", res.ExitCode, "stderr", strings.TrimSpace(res.Stderr))
	return err
}
