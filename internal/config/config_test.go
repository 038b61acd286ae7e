package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SLSAH_CONFIG_DIR", dir)
	for _, k := range Keys {
		env := EnvPrefix + "_" + strings.ToUpper(k)
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
	Init()
	return dir
}

func TestInit(t *testing.T) {
	isolate(t)

	assert.Equal(t, "english", viper.GetString(KeyLanguage))
	assert.Equal(t, 10, viper.GetInt(KeyBackupRetention))
	assert.Equal(t, 1, viper.GetInt(KeyJobs))
}

func TestLoad_NoConfigFile(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "english", cfg.Language)
	assert.NotEmpty(t, cfg.SLSsteamConfig)
	assert.False(t, cfg.HasCredentials())
}

func TestLoad_WithConfigFile(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := "api_key: ABC\nsteam_id: \"[U:1:22202]\"\nsteam_dir: /games/steam\njobs: 4\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "22202", cfg.SteamID)
	assert.Equal(t, 4, cfg.Jobs)
	assert.Equal(t, filepath.Join("/games/steam", "appcache", "stats"), cfg.StatsDir)
	assert.Equal(t, filepath.Join("/games/steam", "goldberg_saves"), cfg.GoldbergDir)
	assert.Equal(t, filepath.Join("/games/steam", "steamapps", "libraryfolders.vdf"), cfg.LibraryManifest())
	assert.True(t, cfg.HasCredentials())
}

func TestLoad_EnvOverride(t *testing.T) {
	isolate(t)
	t.Setenv("SLSAH_LANGUAGE", "german")
	t.Setenv("SLSAH_API_KEY", "FROMENV")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "german", cfg.Language)
	assert.Equal(t, "FROMENV", cfg.APIKey)
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	isolate(t)

	_, err := Load("/non/existent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoad_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"bad steam id", "steam_id: nope\n", ErrInvalidSteamID},
		{"bad language", "language: English!\n", ErrInvalidLanguage},
		{"zero retention", "backup_retention: -1\n", ErrOutOfRange},
		{"too many jobs", "jobs: 1000\n", ErrOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)

			configPath := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(configPath, []byte(tt.content), 0o600))

			_, err := Load(configPath)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), "validating config")
		})
	}
}

func TestInit_ClearsPreviousState(t *testing.T) {
	isolate(t)
	fileA := filepath.Join(t.TempDir(), "config_a.yaml")
	require.NoError(t, os.WriteFile(fileA, []byte("language: french\n"), 0o600))
	_, err := Load(fileA)
	require.NoError(t, err)

	dirB := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dirB, "config.yaml"), []byte("language: spanish\n"), 0o600))
	Init()

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "spanish", cfg.Language)
	assert.NotEqual(t, fileA, viper.ConfigFileUsed())
}

func TestSet(t *testing.T) {
	dir := isolate(t)
	path := DefaultConfigPath()
	assert.Equal(t, filepath.Join(dir, "config.yaml"), path)

	require.NoError(t, Set(path, KeySteamID, "STEAM_0:0:11101"))
	require.NoError(t, Set(path, KeyJobs, "3"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "steam_id: \"22202\"")
	assert.Contains(t, text, "jobs: 3")
	assert.NotContains(t, text, "backup_retention", "defaults must not be written")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	Init()
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "22202", cfg.SteamID)
	assert.Equal(t, 3, cfg.Jobs)
}

func TestSet_Rejects(t *testing.T) {
	isolate(t)
	path := DefaultConfigPath()

	assert.ErrorIs(t, Set(path, "platforms", "x"), ErrUnknownKey)
	assert.ErrorIs(t, Set(path, KeyJobs, "many"), ErrInvalidNumber)
	assert.ErrorIs(t, Set(path, KeyJobs, "0"), ErrOutOfRange)
	assert.ErrorIs(t, Set(path, KeySteamID, "bob"), ErrInvalidSteamID)
	assert.NoFileExists(t, path)
}
