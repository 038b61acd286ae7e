// Package cli turns the loaded configuration into the stores and clients
// the slsah commands operate on.
package cli

import (
	"github.com/thoreinstein/slsah/internal/appcache"
	"github.com/thoreinstein/slsah/internal/backup"
	"github.com/thoreinstein/slsah/internal/config"
	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/schema"
	"github.com/thoreinstein/slsah/internal/slsconfig"
	"github.com/thoreinstein/slsah/internal/steamapi"
)

// Env builds components from one resolved configuration. Nothing is
// created until it is asked for.
type Env struct {
	Config *config.Config

	apiOpts []steamapi.Option
}

// NewEnv returns an Env for cfg.
func NewEnv(cfg *config.Config, apiOpts ...steamapi.Option) *Env {
	return &Env{Config: cfg, apiOpts: apiOpts}
}

// Backups returns the backup manager for the SLSsteam config.
func (e *Env) Backups() *backup.Manager {
	return backup.NewManager(e.Config.BackupDir(),
		backup.WithRetentionCount(e.Config.BackupRetention))
}

// SLSsteam returns the SLSsteam config store. Every write is preceded by a
// backup.
func (e *Env) SLSsteam() *slsconfig.Store {
	return slsconfig.NewStore(e.Config.SLSsteamConfig, slsconfig.WithBackups(e.Backups()))
}

// Schemas returns the store for the Steam stats directory.
func (e *Env) Schemas() *schema.Store {
	return schema.NewStore(e.Config.StatsDir)
}

// SteamAPI returns a Web API client. It fails when no API key is
// configured.
func (e *Env) SteamAPI() (*steamapi.Client, error) {
	if e.Config.APIKey == "" {
		return nil, errors.NewUserError(
			errors.Wrap(errors.ErrMissingCredentials, "api_key is not set"),
			"Run: slsah config set api_key <key>")
	}
	return steamapi.New(e.Config.APIKey, e.apiOpts...), nil
}

// StoreAPI returns a client for the keyless store endpoints.
func (e *Env) StoreAPI() *steamapi.Client {
	return steamapi.New(e.Config.APIKey, e.apiOpts...)
}

// SteamID returns the configured account ID. It fails when none is set.
func (e *Env) SteamID() (config.SteamID, error) {
	if e.Config.SteamID == "" {
		return config.SteamID{}, errors.NewUserError(
			errors.Wrap(errors.ErrMissingCredentials, "steam_id is not set"),
			"Run: slsah config set steam_id <id>")
	}
	id, err := config.ParseSteamID(e.Config.SteamID)
	if err != nil {
		return config.SteamID{}, errors.NewConfigError(err)
	}
	return id, nil
}

// AppCache opens the app info cache. A corrupt cache is reported with a
// hint to clear it.
func (e *Env) AppCache() (*appcache.Cache, error) {
	c, err := appcache.Open(e.Config.CacheFile)
	if err != nil {
		if errors.Is(err, appcache.ErrCorrupt) {
			return nil, errors.NewUserError(err, "Run: slsah cache clear")
		}
		return nil, errors.Wrap(err, "opening app cache")
	}
	return c, nil
}
