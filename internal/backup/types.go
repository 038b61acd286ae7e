package backup

import (
	"time"

	"github.com/cockroachdb/errors"
)

// Default configuration values.
const (
	// DefaultRetentionCount is the number of backups kept after each new one.
	DefaultRetentionCount = 10

	// TimestampLayout formats the timestamp embedded in backup names.
	TimestampLayout = "20060102-150405"

	namePrefix = "config."
	nameSuffix = ".yaml"
)

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates the backup directory holds no backups.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates a restored copy does not match its backup.
	ErrBackupCorrupted = errors.New("backup corrupted")

	// ErrInvalidName indicates a backup name that is not a plain
	// config.<timestamp>.yaml file name.
	ErrInvalidName = errors.New("invalid backup name")
)

// Backup describes one backup file.
type Backup struct {
	// Name is the file name, for example config.20260123-100712.yaml.
	Name string

	// Path is the absolute path of the backup file.
	Path string

	// CreatedAt is parsed from the name, falling back to the file's
	// modification time.
	CreatedAt time.Time

	// Size is the file size in bytes.
	Size int64
}
