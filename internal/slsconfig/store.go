package slsconfig

import (
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/slsah/internal/backup"
	"github.com/thoreinstein/slsah/internal/paths"
	"github.com/thoreinstein/slsah/pkg/fileutil"
)

// DefaultFakeAppID is the AppID games are mapped to for online play
// (Spacewar).
const DefaultFakeAppID int64 = 480

// AppConfig is the part of the SLSsteam config slsah manages.
type AppConfig struct {
	AdditionalApps []int64
	FakeAppIDs     map[int64]int64
}

// Backuper snapshots a file before it is modified.
type Backuper interface {
	Create(src string) (*backup.Backup, error)
}

// Store reads and edits a config file on disk. Every read goes to disk;
// nothing is cached between calls.
type Store struct {
	path    string
	backups Backuper
	mu      sync.Mutex
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithBackups makes the Store back up the file before each write.
func WithBackups(b Backuper) StoreOption {
	return func(s *Store) {
		s.backups = b
	}
}

// NewStore returns a Store for the config file at path.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{path: path}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the config file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the config file exists.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

func (s *Store) read() (string, error) {
	data, _, err := fileutil.ReadOptional(s.path)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", s.path)
	}
	return string(data), nil
}

// Load reads both managed sections.
func (s *Store) Load() (*AppConfig, error) {
	text, err := s.read()
	if err != nil {
		return nil, err
	}
	apps, err := ReadAppIDs(text, KeyAdditionalApps)
	if err != nil {
		return nil, err
	}
	fake, err := ReadAppIDMap(text, KeyFakeAppIDs)
	if err != nil {
		return nil, err
	}
	return &AppConfig{AdditionalApps: apps, FakeAppIDs: fake}, nil
}

// AdditionalApps returns the AdditionalApps list.
func (s *Store) AdditionalApps() ([]int64, error) {
	text, err := s.read()
	if err != nil {
		return nil, err
	}
	return ReadAppIDs(text, KeyAdditionalApps)
}

// FakeAppIDs returns the FakeAppIds mapping.
func (s *Store) FakeAppIDs() (map[int64]int64, error) {
	text, err := s.read()
	if err != nil {
		return nil, err
	}
	return ReadAppIDMap(text, KeyFakeAppIDs)
}

// AddApps adds ids to AdditionalApps and returns the ones that were not
// already present. The file is left untouched when nothing is new.
func (s *Store) AddApps(ids ...int64) ([]int64, error) {
	var added []int64
	err := s.update(KeyAdditionalApps, func(text string) (any, bool, error) {
		current, err := ReadAppIDs(text, KeyAdditionalApps)
		if err != nil {
			return nil, false, err
		}
		for _, id := range ids {
			if !slices.Contains(current, id) && !slices.Contains(added, id) {
				added = append(added, id)
			}
		}
		return append(current, added...), len(added) > 0, nil
	})
	return added, err
}

// RemoveApps removes ids from AdditionalApps and returns the ones that were
// present.
func (s *Store) RemoveApps(ids ...int64) ([]int64, error) {
	var removed []int64
	err := s.update(KeyAdditionalApps, func(text string) (any, bool, error) {
		current, err := ReadAppIDs(text, KeyAdditionalApps)
		if err != nil {
			return nil, false, err
		}
		kept := current[:0:0]
		for _, id := range current {
			if slices.Contains(ids, id) {
				if !slices.Contains(removed, id) {
					removed = append(removed, id)
				}
				continue
			}
			kept = append(kept, id)
		}
		return kept, len(removed) > 0, nil
	})
	return removed, err
}

// SetFakeAppID maps realID to fakeID in FakeAppIds. A zero fakeID means
// DefaultFakeAppID.
func (s *Store) SetFakeAppID(realID, fakeID int64) error {
	if fakeID == 0 {
		fakeID = DefaultFakeAppID
	}
	return s.update(KeyFakeAppIDs, func(text string) (any, bool, error) {
		m, err := ReadAppIDMap(text, KeyFakeAppIDs)
		if err != nil {
			return nil, false, err
		}
		if cur, ok := m[realID]; ok && cur == fakeID {
			return m, false, nil
		}
		m[realID] = fakeID
		return m, true, nil
	})
}

// RemoveFakeAppIDs deletes mappings and returns the real IDs that had one.
func (s *Store) RemoveFakeAppIDs(realIDs ...int64) ([]int64, error) {
	var removed []int64
	err := s.update(KeyFakeAppIDs, func(text string) (any, bool, error) {
		m, err := ReadAppIDMap(text, KeyFakeAppIDs)
		if err != nil {
			return nil, false, err
		}
		for _, id := range realIDs {
			if _, ok := m[id]; ok {
				delete(m, id)
				removed = append(removed, id)
			}
		}
		return m, len(removed) > 0, nil
	})
	return removed, err
}

// update runs one read-modify-write cycle for key. fn returns the new
// section value and whether anything changed; an unchanged section is not
// written.
func (s *Store) update(key string, fn func(text string) (any, bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := s.read()
	if err != nil {
		return err
	}
	value, changed, err := fn(text)
	if err != nil || !changed {
		return err
	}

	out, err := WriteSection(text, key, value)
	if err != nil {
		return err
	}
	if err := checkSection(out, key, value); err != nil {
		return errors.Wrapf(err, "editing %s", s.path)
	}

	if s.backups != nil {
		if _, err := s.backups.Create(s.path); err != nil {
			return errors.Wrap(err, "backing up config before write")
		}
	}

	if err := paths.EnsureDir(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrapf(ErrWrite, "creating %s: %v", filepath.Dir(s.path), err)
	}
	perm := os.FileMode(0o644)
	if info, err := os.Stat(s.path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := fileutil.AtomicWriteFile(s.path, []byte(out), perm); err != nil {
		return errors.Mark(errors.Wrapf(err, "writing %s", s.path), ErrWrite)
	}
	return nil
}
