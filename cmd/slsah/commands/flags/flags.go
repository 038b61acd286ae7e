// Package flags provides shared state for CLI commands.
// This package exists to avoid import cycles between the root command
// and noun subpackages (schema, apps, backup, etc.).
package flags

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/internal/backup"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/config"
	"github.com/thoreinstein/slsah/internal/errors"
)

// AnnotationConfigOptional marks a command that runs even when the
// configuration failed to load, so the user can inspect and repair it.
const AnnotationConfigOptional = "slsah/config-optional"

var (
	configFile string
	loaded     *config.Config
	loadErr    error
)

// ConfigFile returns the value of the --config flag.
func ConfigFile() string {
	return configFile
}

// ConfigFileVar returns the --config flag target for the root command.
func ConfigFileVar() *string {
	return &configFile
}

// SetConfig records the outcome of loading the configuration.
func SetConfig(cfg *config.Config, err error) {
	loaded = cfg
	loadErr = err
}

// ConfigError returns the error from loading the configuration, if any.
func ConfigError() error {
	return loadErr
}

// Config returns the loaded configuration.
func Config() (*config.Config, error) {
	if loadErr != nil {
		return nil, errors.NewConfigError(loadErr)
	}
	if loaded == nil {
		return nil, errors.NewConfigError(errors.New("configuration not loaded"))
	}
	return loaded, nil
}

// ConfigOrDefault returns the loaded configuration, or the built-in
// defaults when loading failed.
func ConfigOrDefault() *config.Config {
	if loaded != nil {
		return loaded
	}
	cfg := &config.Config{BackupRetention: backup.DefaultRetentionCount, Jobs: 1}
	cfg.Resolve()
	return cfg
}

// Env returns a component builder for the loaded configuration.
func Env() (*cli.Env, error) {
	cfg, err := Config()
	if err != nil {
		return nil, err
	}
	return cli.NewEnv(cfg), nil
}

// ConfigOptional reports whether cmd or one of its parents carries
// AnnotationConfigOptional.
func ConfigOptional(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[AnnotationConfigOptional] == "true" {
			return true
		}
	}
	return false
}
