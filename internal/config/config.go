package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds settings for archive assembly and the transfer tools.
type Config struct {
	BackupTool         string `mapstructure:"backup_tool"`
	DiagnosticsTool    string `mapstructure:"diagnostics_tool"`
	UDID               string `mapstructure:"udid"`
	DefaultOwner       uint32 `mapstructure:"default_owner"`
	DefaultGroup       uint32 `mapstructure:"default_group"`
	DefaultMode        uint16 `mapstructure:"default_mode"`
	LenientDecode      bool   `mapstructure:"lenient_decode"`
	RebootAfterRestore bool   `mapstructure:"reboot_after_restore"`
	CompletionPhrase   string `mapstructure:"completion_phrase"`
	TempDir            string `mapstructure:"temp_dir"`
	DomainsVersion     string `mapstructure:"domains_version"`

	// RestoreTimeout bounds the whole restore command. Zero means no limit.
	RestoreTimeout time.Duration `mapstructure:"restore_timeout"`
}

// Validate checks the settings that have no usable fallback.
func (c *Config) Validate() error {
	if c.BackupTool == "" {
		return errors.New("backup_tool must be set")
	}
	if c.DefaultMode > 0o7777 {
		return fmt.Errorf("default_mode %#o has bits outside the permission mask", c.DefaultMode)
	}
	if c.RestoreTimeout < 0 {
		return fmt.Errorf("restore_timeout %s must not be negative", c.RestoreTimeout)
	}
	return nil
}

// Load reads configuration from the first sparserestore.yaml found in the
// given paths or the standard search paths, then applies SPARSERESTORE_*
// environment overrides. A missing file is not an error.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("sparserestore")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.sparserestore")
	v.AddConfigPath("/etc/sparserestore")

	setDefaults(v)

	v.SetEnvPrefix("SPARSERESTORE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Default returns the built-in configuration without reading any file.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// Defaults are plain scalars; decoding cannot fail.
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backup_tool", "idevicebackup2")
	v.SetDefault("diagnostics_tool", "idevicediagnostics")
	v.SetDefault("udid", "")
	v.SetDefault("default_owner", 501)
	v.SetDefault("default_group", 501)
	v.SetDefault("default_mode", 0o644)
	v.SetDefault("lenient_decode", false)
	v.SetDefault("reboot_after_restore", false)
	v.SetDefault("completion_phrase", "Restore Successful")
	v.SetDefault("temp_dir", "")
	v.SetDefault("domains_version", "20.0")
	v.SetDefault("restore_timeout", time.Duration(0))
}
