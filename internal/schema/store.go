package schema

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/slsah/internal/paths"
	"github.com/thoreinstein/slsah/internal/vdf"
	"github.com/thoreinstein/slsah/pkg/fileutil"
)

// FilePerm is the mode schema and stats files are written with.
const FilePerm = 0o644

// Store reads and writes the binary files in a Steam stats directory.
type Store struct {
	dir string
}

// NewStore returns a Store rooted at the given stats directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the stats directory.
func (s *Store) Dir() string {
	return s.dir
}

// SchemaPath returns the path of the schema file for appID.
func (s *Store) SchemaPath(appID int64) string {
	return filepath.Join(s.dir, paths.SchemaFileName(appID))
}

// StatsPath returns the path of the user stats file for steamID and appID.
func (s *Store) StatsPath(steamID string, appID int64) string {
	return filepath.Join(s.dir, paths.StatsFileName(steamID, appID))
}

// Exists reports whether a schema file exists for appID.
func (s *Store) Exists(appID int64) (bool, error) {
	_, err := os.Stat(s.SchemaPath(appID))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, errors.Wrapf(err, "checking schema for app %d", appID)
}

// Load decodes the schema file for appID. It returns nil, nil when the file
// does not exist. A corrupt file yields an error wrapping vdf.ErrMalformedBinary.
func (s *Store) Load(appID int64) (*vdf.Map, error) {
	return loadTree(s.SchemaPath(appID))
}

// Save encodes tree and writes it as the schema file for appID.
func (s *Store) Save(appID int64, tree *vdf.Map) error {
	return s.write(s.SchemaPath(appID), vdf.Encode(tree))
}

// LoadStats decodes the user stats file. It returns nil, nil when absent.
func (s *Store) LoadStats(steamID string, appID int64) (*vdf.Map, error) {
	return loadTree(s.StatsPath(steamID, appID))
}

// SaveStats writes the user stats file.
func (s *Store) SaveStats(steamID string, appID int64, tree *vdf.Map) error {
	return s.write(s.StatsPath(steamID, appID), vdf.Encode(tree))
}

// EnsureStatsFile copies templatePath to the stats file for steamID and
// appID unless that file already exists. The template is copied byte for
// byte. It reports whether a file was created.
func (s *Store) EnsureStatsFile(steamID string, appID int64, templatePath string) (bool, error) {
	dst := s.StatsPath(steamID, appID)
	if _, err := os.Stat(dst); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, errors.Wrapf(err, "checking stats file for app %d", appID)
	}

	data, err := fileutil.ReadFileWithLimit(templatePath)
	if err != nil {
		return false, errors.Wrapf(err, "reading stats template %s", templatePath)
	}
	if err := s.write(dst, data); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes the schema file for appID, and the stats file too when
// steamID is non-empty. It reports how many files were removed.
func (s *Store) Remove(appID int64, steamID string) (int, error) {
	targets := []string{s.SchemaPath(appID)}
	if steamID != "" {
		targets = append(targets, s.StatsPath(steamID, appID))
	}

	removed := 0
	for _, p := range targets {
		err := os.Remove(p)
		switch {
		case err == nil:
			removed++
		case errors.Is(err, os.ErrNotExist):
		default:
			return removed, errors.Wrapf(err, "removing %s", p)
		}
	}
	return removed, nil
}

// List returns the AppIDs that have a schema file, in ascending order.
// A missing directory yields an empty list.
func (s *Store) List() ([]int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading stats directory %s", s.dir)
	}

	var ids []int64
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasPrefix(name, paths.SchemaFilePrefix) || !strings.HasSuffix(name, ".bin") {
			continue
		}
		digits := strings.TrimSuffix(strings.TrimPrefix(name, paths.SchemaFilePrefix), ".bin")
		id, err := strconv.ParseInt(digits, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *Store) write(path string, data []byte) error {
	if err := paths.EnsureDir(s.dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating stats directory %s", s.dir)
	}
	if err := fileutil.AtomicWriteFile(path, data, FilePerm); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

func loadTree(path string) (*vdf.Map, error) {
	data, ok, err := fileutil.ReadOptional(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if !ok {
		return nil, nil
	}
	tree, err := vdf.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return tree, nil
}
