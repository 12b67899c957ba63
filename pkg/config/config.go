// Package config loads goalpost settings from defaults, an optional
// goalpost.yaml, and GOALPOST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/stefanpenner/goalpost/pkg/autoexport"
	"github.com/stefanpenner/goalpost/pkg/pager"
)

const (
	KeyDataDir        = "data_dir"
	KeyExportDir      = "export_dir"
	KeyPageSize       = "page_size"
	KeyAutoExportDays = "auto_export_days"
	KeyLogLevel       = "log_level"

	// EnvDir overrides the data directory, like the --dir flag.
	EnvDir = "GOALPOST_DIR"
	// EnvConfigPath adds a directory to search for goalpost.yaml.
	EnvConfigPath = "GOALPOST_CONFIG_PATH"
)

// Config holds resolved settings. Paths are absolute with ~ expanded.
type Config struct {
	DataDir        string
	ExportDir      string
	PageSize       int
	AutoExportDays int
	LogLevel       string

	// File is the config file that was read, if any.
	File string
}

// Load resolves the configuration. dirOverride, when set, wins over every
// other source of the data directory.
func Load(dirOverride string) (*Config, error) {
	v := viper.New()
	v.SetDefault(KeyDataDir, DefaultDataDir())
	v.SetDefault(KeyExportDir, "")
	v.SetDefault(KeyPageSize, pager.DefaultPageSize)
	v.SetDefault(KeyAutoExportDays, autoexport.DefaultDays)
	v.SetDefault(KeyLogLevel, "info")

	v.SetConfigName(AppName) // .yaml is implicit
	v.SetEnvPrefix("GOALPOST")
	v.AutomaticEnv()
	if err := v.BindEnv(KeyDataDir, EnvDir); err != nil {
		return nil, err
	}

	if override := os.Getenv(EnvConfigPath); override != "" {
		v.AddConfigPath(override)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, AppName))
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if dirOverride != "" {
		v.Set(KeyDataDir, dirOverride)
	}

	dataDir, err := expand(v.GetString(KeyDataDir))
	if err != nil {
		return nil, err
	}
	exportDir := v.GetString(KeyExportDir)
	if exportDir == "" {
		exportDir = filepath.Join(dataDir, "exports")
	}
	if exportDir, err = expand(exportDir); err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:        dataDir,
		ExportDir:      exportDir,
		PageSize:       v.GetInt(KeyPageSize),
		AutoExportDays: v.GetInt(KeyAutoExportDays),
		LogLevel:       v.GetString(KeyLogLevel),
		File:           v.ConfigFileUsed(),
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %d", KeyPageSize, cfg.PageSize)
	}
	if cfg.AutoExportDays <= 0 {
		return nil, fmt.Errorf("%s must be positive, got %d", KeyAutoExportDays, cfg.AutoExportDays)
	}
	return cfg, nil
}

// LogFile is where the application log is written.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, AppName+".log")
}

// StoreDir is the key-value store directory.
func (c *Config) StoreDir() string {
	return filepath.Join(c.DataDir, "store")
}

func expand(path string) (string, error) {
	p, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", path, err)
	}
	return filepath.Abs(p)
}
