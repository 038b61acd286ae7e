// Package config provides configuration management for slsah using Viper.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/thoreinstein/slsah/internal/paths"
)

// AppName is the application name used for config file naming.
const AppName = paths.AppName

// EnvPrefix prefixes every environment override, e.g. SLSAH_API_KEY.
const EnvPrefix = "SLSAH"

// Configuration keys.
const (
	KeyAPIKey          = "api_key"
	KeySteamID         = "steam_id"
	KeyLanguage        = "language"
	KeySteamDir        = "steam_dir"
	KeyStatsDir        = "stats_dir"
	KeySLSsteamConfig  = "slssteam_config"
	KeyCacheFile       = "cache_file"
	KeyGoldbergDir     = "goldberg_dir"
	KeyStatsTemplate   = "stats_template"
	KeyBackupRetention = "backup_retention"
	KeyJobs            = "jobs"
)

// Keys lists every configuration key in display order.
var Keys = []string{
	KeyAPIKey,
	KeySteamID,
	KeyLanguage,
	KeySteamDir,
	KeyStatsDir,
	KeySLSsteamConfig,
	KeyCacheFile,
	KeyGoldbergDir,
	KeyStatsTemplate,
	KeyBackupRetention,
	KeyJobs,
}

// Config represents the slsah configuration. Path fields left empty are
// derived from SteamDir by [Config.Resolve].
type Config struct {
	APIKey          string `mapstructure:"api_key" yaml:"api_key"`
	SteamID         string `mapstructure:"steam_id" yaml:"steam_id"`
	Language        string `mapstructure:"language" yaml:"language"`
	SteamDir        string `mapstructure:"steam_dir" yaml:"steam_dir"`
	StatsDir        string `mapstructure:"stats_dir" yaml:"stats_dir"`
	SLSsteamConfig  string `mapstructure:"slssteam_config" yaml:"slssteam_config"`
	CacheFile       string `mapstructure:"cache_file" yaml:"cache_file"`
	GoldbergDir     string `mapstructure:"goldberg_dir" yaml:"goldberg_dir"`
	StatsTemplate   string `mapstructure:"stats_template" yaml:"stats_template"`
	BackupRetention int    `mapstructure:"backup_retention" yaml:"backup_retention"`
	Jobs            int    `mapstructure:"jobs" yaml:"jobs"`
}

// ConfigDir returns the directory searched for config.yaml.
// SLSAH_CONFIG_DIR overrides the XDG default.
func ConfigDir() string {
	if dir := os.Getenv(EnvPrefix + "_CONFIG_DIR"); dir != "" {
		return dir
	}
	return paths.ConfigDir()
}

// DefaultConfigPath returns the config file written by "config set".
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
// Any state from a previous Init is discarded.
func Init() {
	viper.Reset()

	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(ConfigDir())

	// Environment variable support
	viper.SetEnvPrefix(EnvPrefix)
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault(KeyLanguage, "english")
	viper.SetDefault(KeySteamDir, paths.SteamDir())
	viper.SetDefault(KeySLSsteamConfig, paths.SLSsteamConfigPath())
	viper.SetDefault(KeyCacheFile, paths.AppInfoCachePath())
	viper.SetDefault(KeyBackupRetention, 10)
	viper.SetDefault(KeyJobs, 1)

	// Keys without a default still need registering so AutomaticEnv
	// reaches them through Unmarshal.
	for _, key := range []string{KeyAPIKey, KeySteamID, KeyStatsDir, KeyGoldbergDir, KeyStatsTemplate} {
		viper.SetDefault(key, "")
	}
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		switch {
		case !isNotFound(err):
			// Real read error (parsing, permissions, etc)
			return nil, errors.Wrap(err, "reading config file")
		case path != "":
			// If user specified a path, this is an error
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		}
		// Otherwise (implicit load), it's fine to use defaults
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if cfg.SteamID != "" {
		id, err := ParseSteamID(cfg.SteamID)
		if err != nil {
			return nil, errors.Wrap(err, "validating config")
		}
		cfg.SteamID = id.String()
	}
	cfg.Resolve()

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], "validating config")
	}

	return &cfg, nil
}

// Resolve fills empty path fields from SteamDir and the XDG defaults.
func (c *Config) Resolve() {
	if c.SteamDir == "" {
		c.SteamDir = paths.SteamDir()
	}
	if c.StatsDir == "" {
		c.StatsDir = paths.StatsDir(c.SteamDir)
	}
	if c.GoldbergDir == "" {
		c.GoldbergDir = paths.GoldbergDir(c.SteamDir)
	}
	if c.StatsTemplate == "" {
		c.StatsTemplate = paths.StatsTemplatePath(c.StatsDir)
	}
	if c.SLSsteamConfig == "" {
		c.SLSsteamConfig = paths.SLSsteamConfigPath()
	}
	if c.CacheFile == "" {
		c.CacheFile = paths.AppInfoCachePath()
	}
	if c.Language == "" {
		c.Language = "english"
	}
}

// LibraryManifest returns the libraryfolders.vdf path under SteamDir.
func (c *Config) LibraryManifest() string {
	return paths.LibraryFoldersPath(c.SteamDir)
}

// BackupDir returns where SLSsteam config backups are kept.
func (c *Config) BackupDir() string {
	return paths.BackupDir(c.SLSsteamConfig)
}

// HasCredentials reports whether both the API key and Steam ID are set.
func (c *Config) HasCredentials() bool {
	return c.APIKey != "" && c.SteamID != ""
}

// Set stores value under key and writes it to the config file at path,
// creating the file if needed. Only keys already in the file and the new
// one are written; defaults stay implicit. The value is validated against
// the effective configuration before anything is written.
func Set(path, key, value string) error {
	if !isKey(key) {
		return errors.Wrapf(ErrUnknownKey, "%q", key)
	}

	var typed any = value
	switch key {
	case KeySteamID:
		if value != "" {
			id, err := ParseSteamID(value)
			if err != nil {
				return err
			}
			typed = id.String()
		}
	case KeyBackupRetention, KeyJobs:
		n, err := strconv.Atoi(value)
		if err != nil {
			return errors.Wrapf(ErrInvalidNumber, "%s: %q", key, value)
		}
		typed = n
	}

	viper.Set(key, typed)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return errors.Wrapf(err, "invalid value for %s", key)
	}
	cfg.Resolve()
	if errs := Validate(&cfg); len(errs) > 0 {
		return errs[0]
	}

	file := viper.New()
	file.SetConfigFile(path)
	file.SetConfigType("yaml")
	if err := file.ReadInConfig(); err != nil && !isNotFound(err) {
		return errors.Wrap(err, "reading config file")
	}
	file.Set(key, typed)

	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := file.WriteConfigAs(path); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	// The file holds the API key.
	return os.Chmod(path, 0o600)
}

func isKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}
