package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigDirsAreAbsolute(t *testing.T) {
	for name, got := range map[string]string{
		"ConfigHome":  ConfigHome(),
		"ConfigDir":   ConfigDir(),
		"SLSsteamDir": SLSsteamDir(),
	} {
		assert.True(t, filepath.IsAbs(got), "%s() = %q, want absolute path", name, got)
	}
}

func TestConfigFile(t *testing.T) {
	got := ConfigFile()
	want := filepath.Join(ConfigHome(), "slsah", "config.yaml")
	if got != want {
		t.Errorf("ConfigFile() = %q, want %q", got, want)
	}
}

func TestSteamDerivedPaths(t *testing.T) {
	steam := filepath.Join("/home", "player", ".steam", "steam")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"StatsDir", StatsDir(steam), filepath.Join(steam, "appcache", "stats")},
		{"LibraryFoldersPath", LibraryFoldersPath(steam), filepath.Join(steam, "steamapps", "libraryfolders.vdf")},
		{"GoldbergDir", GoldbergDir(steam), filepath.Join(steam, "goldberg_saves")},
		{"StatsTemplatePath", StatsTemplatePath(StatsDir(steam)), filepath.Join(steam, "appcache", "stats", "UserGameStats_steamid_appid.bin")},
		{"StatsDir empty root", StatsDir(""), ""},
		{"LibraryFoldersPath empty root", LibraryFoldersPath(""), ""},
		{"GoldbergDir empty root", GoldbergDir(""), ""},
		{"StatsTemplatePath empty root", StatsTemplatePath(""), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestSteamRoots(t *testing.T) {
	assert.Equal(t, []string{
		filepath.Join("/home/p", ".steam", "steam"),
		filepath.Join("/home/p/.local/share", "Steam"),
		filepath.Join("/home/p", ".var", "app", "com.valvesoftware.Steam", ".local", "share", "Steam"),
	}, steamRoots("/home/p", "/home/p/.local/share"))

	assert.Equal(t, []string{filepath.Join("/data", "Steam")}, steamRoots("", "/data"))
	assert.Empty(t, steamRoots("", ""))
}

func TestFindSteamDir(t *testing.T) {
	base := t.TempDir()
	native := filepath.Join(base, "native")
	flatpak := filepath.Join(base, "flatpak")
	roots := []string{native, flatpak}

	assert.Equal(t, native, findSteamDir(roots), "falls back to the first root")

	require.NoError(t, os.MkdirAll(filepath.Join(flatpak, "steamapps"), 0o755))
	assert.Equal(t, flatpak, findSteamDir(roots))

	require.NoError(t, os.MkdirAll(filepath.Join(native, "steamapps"), 0o755))
	assert.Equal(t, native, findSteamDir(roots))

	assert.Empty(t, findSteamDir(nil))
}

func TestFileNames(t *testing.T) {
	if got := SchemaFileName(480); got != "UserGameStatsSchema_480.bin" {
		t.Errorf("SchemaFileName(480) = %q", got)
	}
	if got := StatsFileName("76561198000000000", 480); got != "UserGameStats_76561198000000000_480.bin" {
		t.Errorf("StatsFileName() = %q", got)
	}
	if got := GoldbergAchievementsPath("/g", 480); got != filepath.Join("/g", "480", "achiev.ini") {
		t.Errorf("GoldbergAchievementsPath() = %q", got)
	}
}

func TestSLSsteamPaths(t *testing.T) {
	dir := SLSsteamDir()
	if got := SLSsteamConfigPath(); got != filepath.Join(dir, "config.yaml") {
		t.Errorf("SLSsteamConfigPath() = %q", got)
	}
	if got := AppInfoCachePath(); got != filepath.Join(dir, "appinfo_cache.json") {
		t.Errorf("AppInfoCachePath() = %q", got)
	}
	if got := BackupDir(SLSsteamConfigPath()); got != filepath.Join(dir, "backup") {
		t.Errorf("BackupDir() = %q", got)
	}
}

func TestEnsureDir(t *testing.T) {
	tests := []struct {
		name     string
		perm     os.FileMode
		wantPerm os.FileMode
	}{
		{"default permissions", 0, DefaultDirPerm},
		{"explicit 0755", 0o755, 0o755},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "a", "b")
			if err := EnsureDir(dir, tt.perm); err != nil {
				t.Fatalf("EnsureDir() error = %v", err)
			}
			// Idempotent
			if err := EnsureDir(dir, tt.perm); err != nil {
				t.Fatalf("EnsureDir() second call error = %v", err)
			}
			info, err := os.Stat(dir)
			if err != nil {
				t.Fatal(err)
			}
			if !info.IsDir() {
				t.Fatal("EnsureDir() did not create a directory")
			}
			if runtime.GOOS == "windows" {
				return
			}
			// umask may clear bits but never add them
			if got := info.Mode().Perm(); got&^tt.wantPerm != 0 {
				t.Errorf("permissions = %o, want subset of %o", got, tt.wantPerm)
			}
		})
	}
}
