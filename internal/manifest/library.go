package manifest

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/slsah/pkg/fileutil"
)

// Library is one Steam library folder.
type Library struct {
	Index string
	Path  string
	Label string
	Apps  []int64
}

// Libraries returns the library folders listed under the "libraryfolders"
// root, ordered by their numeric index. Both the current layout (a block
// per folder with a "path" key) and the legacy one (the index maps straight
// to a path) are understood.
func Libraries(root *Node) []Library {
	top := root.Child("libraryfolders")
	if top == nil {
		return nil
	}

	var libs []Library
	for _, c := range top.Children {
		if !isDigits(c.Key) {
			continue
		}
		lib := Library{Index: c.Key}
		if c.Block {
			lib.Path, _ = c.Lookup("path")
			lib.Label, _ = c.Lookup("label")
			lib.Apps = AppIDs(c)
		} else {
			lib.Path = c.Value
		}
		if lib.Path == "" {
			continue
		}
		libs = append(libs, lib)
	}
	slices.SortFunc(libs, func(a, b Library) int {
		ai, _ := strconv.Atoi(a.Index)
		bi, _ := strconv.Atoi(b.Index)
		return ai - bi
	})
	return libs
}

// ReadLibraryFile reads and strictly parses a libraryfolders.vdf file.
func ReadLibraryFile(path string) ([]Library, error) {
	root, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Libraries(root), nil
}

// ReadAppIDsFile reads a manifest and returns its AppIDs best effort. Only
// failing to read the file is an error.
func ReadAppIDsFile(path string) ([]int64, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading library manifest %s", path)
	}
	return ParseAppIDs(string(data)), nil
}

// AppManifest is the subset of an appmanifest_<appid>.acf file slsah uses.
type AppManifest struct {
	AppID      int64
	Name       string
	InstallDir string
}

// ParseAppManifest reads the "AppState" block of an app manifest.
func ParseAppManifest(text string) (AppManifest, error) {
	root, err := Parse(text)
	if err != nil {
		return AppManifest{}, err
	}
	state := root.Child("AppState")
	if state == nil {
		return AppManifest{}, errors.Wrap(ErrSyntax, "missing AppState block")
	}
	var m AppManifest
	if id, ok := state.Lookup("appid"); ok {
		m.AppID, err = strconv.ParseInt(id, 10, 64)
		if err != nil {
			return AppManifest{}, errors.Wrapf(ErrSyntax, "appid %q", id)
		}
	}
	m.Name, _ = state.Lookup("name")
	m.InstallDir, _ = state.Lookup("installdir")
	return m, nil
}

// ScanAppManifests reads every appmanifest_*.acf in the steamapps directory
// of a library folder and returns them keyed by AppID. Unreadable or
// malformed manifests are skipped.
func ScanAppManifests(libraryPath string) (map[int64]AppManifest, error) {
	pattern := filepath.Join(libraryPath, "steamapps", "appmanifest_*.acf")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "listing app manifests in %s", libraryPath)
	}
	out := make(map[int64]AppManifest, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		m, err := ParseAppManifest(string(data))
		if err != nil || m.AppID == 0 {
			continue
		}
		out[m.AppID] = m
	}
	return out, nil
}

func readFile(path string) (*Node, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	root, err := Parse(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return root, nil
}
