package services

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"howett.net/plist"

	"github.com/deploymenttheory/go-sparserestore/internal/backup"
	"github.com/deploymenttheory/go-sparserestore/internal/config"
	"github.com/deploymenttheory/go-sparserestore/internal/parsers/mbdb"
	"github.com/deploymenttheory/go-sparserestore/internal/restore"
)

type call struct {
	tool string
	args []string
}

// fakeRunner records invocations and answers from a per-verb script.
type fakeRunner struct {
	fs        afero.Fs
	calls     []call
	results   map[string]ToolResult
	runErr    error
	onBackup  func(dir string) error
	onRestore func(dir string)
}

func (f *fakeRunner) Run(ctx context.Context, tool string, args ...string) (ToolResult, error) {
	f.calls = append(f.calls, call{tool: tool, args: args})
	if f.runErr != nil {
		return ToolResult{}, f.runErr
	}

	verb := verbOf(args)
	dir := args[len(args)-1]
	switch verb {
	case "backup":
		if f.onBackup != nil {
			if err := f.onBackup(dir); err != nil {
				return ToolResult{}, err
			}
		}
	case "restore":
		if f.onRestore != nil {
			f.onRestore(dir)
		}
	}

	if res, ok := f.results[verb]; ok {
		return res, nil
	}
	return ToolResult{Success: true}, nil
}

func verbOf(args []string) string {
	for i := 0; i < len(args); i++ {
		if args[i] == "-u" {
			i++
			continue
		}
		return args[i]
	}
	return ""
}

func writeReferenceManifest(fs afero.Fs, apps map[string]interface{}) func(dir string) error {
	return func(dir string) error {
		m := map[string]interface{}{"Version": "10.0"}
		if apps != nil {
			m["Applications"] = apps
		}
		data, err := plist.Marshal(m, plist.BinaryFormat)
		if err != nil {
			return err
		}
		device := filepath.Join(dir, "00008030-TEST")
		if err := fs.MkdirAll(device, 0o755); err != nil {
			return err
		}
		return afero.WriteFile(fs, filepath.Join(device, backup.ManifestPlist), data, 0o644)
	}
}

func sampleRequests() []restore.Request {
	return []restore.Request{
		restore.NewRequest("Library/Preferences/com.example.plist", []byte("<plist/>")),
	}
}

func TestRestoreFullPipeline(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := config.Default()
	cfg.UDID = "00008030-TEST"

	apps := map[string]interface{}{
		"com.example.app": map[string]interface{}{"CFBundleIdentifier": "com.example.app"},
	}

	var restoredManifest []byte
	var restoredPlist []byte
	runner := &fakeRunner{
		fs:       fs,
		onBackup: writeReferenceManifest(fs, apps),
		onRestore: func(dir string) {
			restoredManifest, _ = afero.ReadFile(fs, filepath.Join(dir, backup.ManifestMbdb))
			restoredPlist, _ = afero.ReadFile(fs, filepath.Join(dir, backup.ManifestPlist))
		},
	}

	svc := NewRestoreService(runner, fs, cfg, nil)
	result, err := svc.Restore(context.Background(), sampleRequests(), RestoreOptions{Reboot: true})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Entries)
	assert.True(t, result.Rebooted)

	require.Len(t, runner.calls, 3)
	backupCall, restoreCall, rebootCall := runner.calls[0], runner.calls[1], runner.calls[2]

	assert.Equal(t, "idevicebackup2", backupCall.tool)
	assert.Equal(t, []string{"-u", "00008030-TEST", "backup", "--full", "--system"}, backupCall.args[:5])
	assert.Equal(t, "idevicebackup2", restoreCall.tool)
	assert.Equal(t, []string{"-u", "00008030-TEST", "restore", "--system"}, restoreCall.args[:4])
	assert.Equal(t, "idevicediagnostics", rebootCall.tool)
	assert.Equal(t, []string{"-u", "00008030-TEST", "restart"}, rebootCall.args)

	manifest, err := mbdb.Decode(restoredManifest)
	require.NoError(t, err)
	assert.Len(t, manifest.Records, 3)

	parsed, err := backup.ParseManifest(restoredPlist)
	require.NoError(t, err)
	assert.Contains(t, parsed.Applications, "com.example.app")

	for _, c := range runner.calls[:2] {
		dir := c.args[len(c.args)-1]
		exists, err := afero.Exists(fs, dir)
		require.NoError(t, err)
		assert.False(t, exists, "temporary directory %s must be removed", dir)
	}
}

func TestRestoreSkipReferenceBackup(t *testing.T) {
	fs := afero.NewMemMapFs()
	runner := &fakeRunner{fs: fs}

	svc := NewRestoreService(runner, fs, config.Default(), nil)
	_, err := svc.Restore(context.Background(), sampleRequests(), RestoreOptions{SkipReferenceBackup: true})
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "restore", runner.calls[0].args[0])
}

func TestRestoreCompletionPhraseLeniency(t *testing.T) {
	fs := afero.NewMemMapFs()
	runner := &fakeRunner{
		fs: fs,
		results: map[string]ToolResult{
			"restore": {Success: false, ExitCode: 1, Stdout: "...\nRestore Successful.\n", Stderr: "ErrorCode 104"},
		},
	}

	svc := NewRestoreService(runner, fs, config.Default(), nil)
	result, err := svc.Restore(context.Background(), sampleRequests(), RestoreOptions{SkipReferenceBackup: true})
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "Restore Successful")
}

func TestRestoreProcessFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	var archiveDir string
	runner := &fakeRunner{
		fs:        fs,
		onRestore: func(dir string) { archiveDir = dir },
		results: map[string]ToolResult{
			"restore": {Success: false, ExitCode: 1, Stderr: "ERROR: device locked\n"},
		},
	}

	svc := NewRestoreService(runner, fs, config.Default(), nil)
	_, err := svc.Restore(context.Background(), sampleRequests(), RestoreOptions{SkipReferenceBackup: true, Reboot: true})
	require.Error(t, err)

	var procErr *ProcessError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, 1, procErr.ExitCode)
	assert.Contains(t, procErr.Error(), "device locked")

	require.Len(t, runner.calls, 1, "no reboot after a failed restore")
	exists, err := afero.Exists(fs, archiveDir)
	require.NoError(t, err)
	assert.False(t, exists, "archive directory must be removed on failure")
}

func TestRestoreMissingReferenceManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	runner := &fakeRunner{fs: fs}

	svc := NewRestoreService(runner, fs, config.Default(), nil)
	_, err := svc.Restore(context.Background(), sampleRequests(), RestoreOptions{})
	require.Error(t, err)

	var manifestErr *ManifestError
	require.True(t, errors.As(err, &manifestErr))
	assert.ErrorIs(t, err, errManifestNotFound)
	assert.Len(t, runner.calls, 1, "restore must not run without a reference manifest")
}

func TestRestoreUnparsableReferenceManifest(t *testing.T) {
	fs := afero.NewMemMapFs()
	runner := &fakeRunner{
		fs: fs,
		onBackup: func(dir string) error {
			return afero.WriteFile(fs, filepath.Join(dir, backup.ManifestPlist), []byte("bplist00 truncated"), 0o644)
		},
	}

	svc := NewRestoreService(runner, fs, config.Default(), nil)
	_, err := svc.Restore(context.Background(), sampleRequests(), RestoreOptions{})

	var manifestErr *ManifestError
	require.True(t, errors.As(err, &manifestErr))
	assert.True(t, strings.HasSuffix(manifestErr.Path, backup.ManifestPlist))
}

func TestRestoreReferenceBackupFailure(t *testing.T) {
	fs := afero.NewMemMapFs()
	runner := &fakeRunner{
		fs: fs,
		results: map[string]ToolResult{
			"backup": {Success: false, ExitCode: 255, Stderr: "No device found."},
		},
	}

	svc := NewRestoreService(runner, fs, config.Default(), nil)
	_, err := svc.Restore(context.Background(), sampleRequests(), RestoreOptions{})

	var procErr *ProcessError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, []string{"backup", "--full", "--system"}, procErr.Args[:3])
}

func TestRestoreRunnerError(t *testing.T) {
	fs := afero.NewMemMapFs()
	boom := errors.New("executable not found")
	runner := &fakeRunner{fs: fs, runErr: boom}

	svc := NewRestoreService(runner, fs, config.Default(), nil)
	_, err := svc.Restore(context.Background(), sampleRequests(), RestoreOptions{SkipReferenceBackup: true})
	assert.ErrorIs(t, err, boom)
}

func TestRestoreInvalidRequest(t *testing.T) {
	fs := afero.NewMemMapFs()
	runner := &fakeRunner{fs: fs}

	svc := NewRestoreService(runner, fs, config.Default(), nil)
	_, err := svc.Restore(context.Background(), []restore.Request{restore.NewRequest("", nil)}, RestoreOptions{SkipReferenceBackup: true})
	assert.ErrorIs(t, err, restore.ErrEmptyPath)
	assert.Empty(t, runner.calls)
}

func TestWithTempDirRemovesOnPanic(t *testing.T) {
	fs := afero.NewMemMapFs()
	var dir string

	assert.Panics(t, func() {
		_ = withTempDir(fs, "/tmp", "x-", func(d string) error {
			dir = d
			panic("boom")
		})
	})

	exists, err := afero.Exists(fs, dir)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestBundleDirectory(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out", 0o755))

	svc := NewRestoreService(&fakeRunner{fs: fs}, fs, config.Default(), nil)
	_, err := svc.Assemble(sampleRequests(), "/out", nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, BundleDirectory(fs, "/out", &buf))

	dec, err := zstd.NewReader(&buf)
	require.NoError(t, err)
	defer dec.Close()

	tr := tar.NewReader(dec)
	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		names = append(names, hdr.Name)
	}

	assert.Len(t, names, 6)
	assert.Contains(t, names, backup.ManifestMbdb)
	assert.Contains(t, names, backup.StatusPlist)
	assert.Contains(t, names, backup.BlobName("Library", "Library/Preferences/com.example.plist"))
}
