package paths

import (
	"cmp"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "slsah"

// File names used by Steam and SLSsteam.
const (
	SchemaFilePrefix    = "UserGameStatsSchema_"
	StatsFilePrefix     = "UserGameStats_"
	StatsTemplateName   = "UserGameStats_steamid_appid.bin"
	LibraryFoldersName  = "libraryfolders.vdf"
	SLSsteamConfigName  = "config.yaml"
	AppInfoCacheName    = "appinfo_cache.json"
	GoldbergAchievement = "achiev.ini"
)

// DefaultDirPerm is used by EnsureDir when perm is 0.
const DefaultDirPerm = 0o700

// EnsureDir is os.MkdirAll with DefaultDirPerm as the fallback mode.
func EnsureDir(path string, perm os.FileMode) error {
	return os.MkdirAll(path, cmp.Or(perm, DefaultDirPerm))
}

// ConfigHome is $XDG_CONFIG_HOME, normally ~/.config.
func ConfigHome() string { return xdg.ConfigHome }

// ConfigDir returns the directory holding slsah's own configuration.
// Returns: <ConfigHome>/slsah/
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// ConfigFile returns the default slsah configuration file path.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// steamRoots lists where Linux Steam installs keep their data, most
// common first: the ~/.steam/steam symlink the client maintains, the real
// directory under $XDG_DATA_HOME, and the Flatpak sandbox.
func steamRoots(home, dataHome string) []string {
	var roots []string
	if home != "" {
		roots = append(roots, filepath.Join(home, ".steam", "steam"))
	}
	if dataHome != "" {
		roots = append(roots, filepath.Join(dataHome, "Steam"))
	}
	if home != "" {
		roots = append(roots, filepath.Join(home, ".var", "app", "com.valvesoftware.Steam", ".local", "share", "Steam"))
	}
	return roots
}

// SteamDir returns the first Steam root that has a steamapps directory,
// or ~/.steam/steam when none does. It is empty only if the home directory
// is unknown.
func SteamDir() string {
	home, _ := os.UserHomeDir()
	return findSteamDir(steamRoots(home, xdg.DataHome))
}

func findSteamDir(roots []string) string {
	for _, r := range roots {
		if info, err := os.Stat(filepath.Join(r, "steamapps")); err == nil && info.IsDir() {
			return r
		}
	}
	if len(roots) == 0 {
		return ""
	}
	return roots[0]
}

// StatsDir returns the directory Steam reads achievement schemas from.
func StatsDir(steamDir string) string {
	if steamDir == "" {
		return ""
	}
	return filepath.Join(steamDir, "appcache", "stats")
}

// LibraryFoldersPath returns the path of the library manifest under steamDir.
func LibraryFoldersPath(steamDir string) string {
	if steamDir == "" {
		return ""
	}
	return filepath.Join(steamDir, "steamapps", LibraryFoldersName)
}

// GoldbergDir returns the directory holding Goldberg emulator saves.
func GoldbergDir(steamDir string) string {
	if steamDir == "" {
		return ""
	}
	return filepath.Join(steamDir, "goldberg_saves")
}

// GoldbergAchievementsPath returns the achiev.ini path for an app.
func GoldbergAchievementsPath(goldbergDir string, appID int64) string {
	return filepath.Join(goldbergDir, strconv.FormatInt(appID, 10), GoldbergAchievement)
}

// SLSsteamDir returns the SLSsteam configuration directory.
// Returns: <ConfigHome>/SLSsteam/
func SLSsteamDir() string {
	return filepath.Join(ConfigHome(), "SLSsteam")
}

// SLSsteamConfigPath returns the default SLSsteam config.yaml path.
func SLSsteamConfigPath() string {
	return filepath.Join(SLSsteamDir(), SLSsteamConfigName)
}

// AppInfoCachePath returns the default app info cache path.
func AppInfoCachePath() string {
	return filepath.Join(SLSsteamDir(), AppInfoCacheName)
}

// BackupDir returns the backup directory for a SLSsteam config file.
// Backups live next to the config in a backup/ subdirectory.
func BackupDir(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "backup")
}

// SchemaFileName returns the schema file name for an app.
func SchemaFileName(appID int64) string {
	return SchemaFilePrefix + strconv.FormatInt(appID, 10) + ".bin"
}

// StatsFileName returns the user stats file name for a Steam account and app.
func StatsFileName(steamID string, appID int64) string {
	return StatsFilePrefix + steamID + "_" + strconv.FormatInt(appID, 10) + ".bin"
}

// StatsTemplatePath returns the default stats template inside statsDir.
func StatsTemplatePath(statsDir string) string {
	if statsDir == "" {
		return ""
	}
	return filepath.Join(statsDir, StatsTemplateName)
}
