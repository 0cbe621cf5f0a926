package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "idevicebackup2", cfg.BackupTool)
	assert.Equal(t, "idevicediagnostics", cfg.DiagnosticsTool)
	assert.Equal(t, uint32(501), cfg.DefaultOwner)
	assert.Equal(t, uint32(501), cfg.DefaultGroup)
	assert.Equal(t, uint16(0o644), cfg.DefaultMode)
	assert.Equal(t, "Restore Successful", cfg.CompletionPhrase)
	assert.Equal(t, "20.0", cfg.DomainsVersion)
	assert.False(t, cfg.LenientDecode)
	assert.Zero(t, cfg.RestoreTimeout, "restores are unbounded unless configured")
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`backup_tool: /opt/bin/idevicebackup2
udid: 00008030-001A
lenient_decode: true
default_owner: 0
restore_timeout: 45m
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sparserestore.yaml"), content, 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/opt/bin/idevicebackup2", cfg.BackupTool)
	assert.Equal(t, "00008030-001A", cfg.UDID)
	assert.True(t, cfg.LenientDecode)
	assert.Equal(t, uint32(0), cfg.DefaultOwner)
	assert.Equal(t, uint32(501), cfg.DefaultGroup, "unset keys keep defaults")
	assert.Equal(t, 45*time.Minute, cfg.RestoreTimeout)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("SPARSERESTORE_UDID", "from-env")
	t.Setenv("SPARSERESTORE_REBOOT_AFTER_RESTORE", "true")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.UDID)
	assert.True(t, cfg.RebootAfterRestore)
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sparserestore.yaml"), []byte("backup_tool: [unterminated"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.BackupTool = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.DefaultMode = 0o170644
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.RestoreTimeout = -time.Second
	assert.Error(t, cfg.Validate())
}
