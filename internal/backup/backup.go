package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/slsah/internal/paths"
	"github.com/thoreinstein/slsah/pkg/fileutil"
)

// Manager creates, lists, restores and prunes backups of one config file.
type Manager struct {
	dir            string
	retentionCount int
	now            func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithRetentionCount sets the number of backups to retain.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// WithClock overrides the time source used for backup names.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// NewManager returns a Manager storing backups in dir.
func NewManager(dir string, opts ...Option) *Manager {
	m := &Manager{
		dir:            dir,
		retentionCount: DefaultRetentionCount,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the backup directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Create copies src into the backup directory and prunes backups beyond the
// retention count. A missing src is not an error: there is nothing to back
// up, so Create returns nil, nil.
func (m *Manager) Create(src string) (*Backup, error) {
	data, ok, err := fileutil.ReadOptional(src)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", src)
	}
	if !ok {
		return nil, nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", src)
	}

	if err := paths.EnsureDir(m.dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	created := m.now()
	name := m.uniqueName(created)
	dst := filepath.Join(m.dir, name)
	if err := fileutil.AtomicWriteFile(dst, data, info.Mode().Perm()); err != nil {
		return nil, errors.Wrapf(err, "writing backup %s", name)
	}

	if _, err := m.Prune(m.retentionCount); err != nil {
		return nil, err
	}

	return &Backup{
		Name:      name,
		Path:      dst,
		CreatedAt: created,
		Size:      int64(len(data)),
	}, nil
}

// uniqueName returns config.<timestamp>.yaml, adding a counter when a backup
// with the same second already exists.
func (m *Manager) uniqueName(t time.Time) string {
	stamp := t.Format(TimestampLayout)
	name := namePrefix + stamp + nameSuffix
	for i := 1; ; i++ {
		if _, err := os.Stat(filepath.Join(m.dir, name)); os.IsNotExist(err) {
			return name
		}
		name = namePrefix + stamp + "-" + strconv.Itoa(i) + nameSuffix
	}
}

// List returns all backups, newest first.
func (m *Manager) List() ([]Backup, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	backups := make([]Backup, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !validName(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		created, ok := parseName(entry.Name())
		if !ok {
			created = info.ModTime()
		}
		backups = append(backups, Backup{
			Name:      entry.Name(),
			Path:      filepath.Join(m.dir, entry.Name()),
			CreatedAt: created,
			Size:      info.Size(),
		})
	}

	if len(backups) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(backups, func(a, b Backup) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return sequence(b.Name) - sequence(a.Name)
	})

	return backups, nil
}

// Latest returns the most recent backup.
func (m *Manager) Latest() (*Backup, error) {
	backups, err := m.List()
	if err != nil {
		return nil, err
	}
	return &backups[0], nil
}

// Prune removes backups beyond the keep most recent and returns the names
// it removed.
func (m *Manager) Prune(keep int) ([]string, error) {
	if keep < 0 {
		return nil, errors.New("keep must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return nil, nil
		}
		return nil, err
	}

	var removed []string
	for i := keep; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil && !os.IsNotExist(err) {
			return removed, errors.Wrapf(err, "removing backup %s", backups[i].Name)
		}
		removed = append(removed, backups[i].Name)
	}
	return removed, nil
}

// Restore copies the named backup over target. The current target, if any,
// is backed up first so a restore can itself be undone.
func (m *Manager) Restore(name, target string) (*Backup, error) {
	if !validName(name) || filepath.Base(name) != name {
		return nil, errors.Wrapf(ErrInvalidName, "%q", name)
	}

	src := filepath.Join(m.dir, name)
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", name)
		}
		return nil, errors.Wrapf(err, "stat backup %s", name)
	}

	safety, err := m.Create(target)
	if err != nil {
		return nil, errors.Wrap(err, "backing up current config before restore")
	}

	want, err := hashFile(src)
	if err != nil {
		return nil, errors.Wrapf(err, "reading backup %s", name)
	}

	if err := paths.EnsureDir(filepath.Dir(target), 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating directory for %s", target)
	}
	got, err := copyFile(src, target)
	if err != nil {
		return nil, errors.Wrapf(err, "restoring %s", target)
	}
	if got != want {
		return nil, errors.Wrapf(ErrBackupCorrupted, "restored %s does not match %s", target, name)
	}

	return safety, nil
}

func validName(name string) bool {
	return strings.HasPrefix(name, namePrefix) && strings.HasSuffix(name, nameSuffix) &&
		len(name) > len(namePrefix)+len(nameSuffix)
}

// parseName extracts the timestamp from config.<timestamp>[-n].yaml.
func parseName(name string) (time.Time, bool) {
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, namePrefix), nameSuffix)
	if len(stamp) < len(TimestampLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(TimestampLayout, stamp[:len(TimestampLayout)], time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// sequence returns the collision counter of a backup name, 0 when absent.
func sequence(name string) int {
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, namePrefix), nameSuffix)
	if len(stamp) <= len(TimestampLayout)+1 {
		return 0
	}
	n, err := strconv.Atoi(stamp[len(TimestampLayout)+1:])
	if err != nil {
		return 0
	}
	return n
}

// hashFile computes the SHA256 hash of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrap(err, "opening file")
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", errors.Wrap(err, "reading file")
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// copyFile atomically replaces dst with the contents of src, keeping src's
// permissions, and returns the SHA256 hash of what was written.
func copyFile(src, dst string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		return "", errors.Wrap(err, "stat source file")
	}
	data, err := fileutil.ReadFileWithLimit(src)
	if err != nil {
		return "", errors.Wrap(err, "reading source file")
	}
	if err := fileutil.AtomicWriteFile(dst, data, info.Mode().Perm()); err != nil {
		return "", err
	}
	return hashFile(dst)
}
