// Package config provides configuration management for the slsah CLI.
//
// This package handles loading, saving, and validating slsah's own
// configuration. It is distinct from the SLSsteam config.yaml, which is
// edited through package slsconfig.
//
// # Configuration File
//
// The configuration file lives at ~/.config/slsah/config.yaml (or in
// $SLSAH_CONFIG_DIR). Every key can also be set from the environment with
// the SLSAH_ prefix, e.g. SLSAH_API_KEY:
//
//	api_key: 0123456789ABCDEF0123456789ABCDEF
//	steam_id: "[U:1:22202]"
//	language: english
//	steam_dir: ~/.steam/steam        # stats/goldberg dirs derive from this
//	backup_retention: 10
//	jobs: 4
//
// # Loading Configuration
//
//	config.Init()
//	cfg, err := config.Load("")
//
// An empty path searches the default location and falls back to defaults
// when no file exists. An explicit path must exist. Loaded configurations
// are normalized (the Steam ID is reduced to its account number, empty
// paths are derived with [Config.Resolve]) and validated.
//
// # Steam IDs
//
// [ParseSteamID] accepts Steam3 ([U:1:n]), Steam2 (STEAM_0:y:z), SteamID64
// and bare account numbers.
package config
