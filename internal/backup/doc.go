// Package backup keeps timestamped copies of the SLSsteam config file.
//
// Backups are plain copies stored next to the config:
//
//	~/.config/SLSsteam/backup/
//	├── config.20260123-100712.yaml
//	├── config.20260123-100712-1.yaml
//	└── config.20260122-184501.yaml
//
// A counter suffix separates backups taken within the same second.
//
// # Creating Backups
//
// [Manager.Create] copies the config and then prunes to the retention
// count (10 by default). Every config mutation goes through it:
//
//	mgr := backup.NewManager(paths.BackupDir(configPath))
//	b, err := mgr.Create(configPath)
//
// A missing config is not an error; Create returns nil, nil.
//
// # Restoring Backups
//
// [Manager.Restore] backs up the current config before overwriting it and
// verifies the restored copy with a SHA256 comparison. A mismatch returns
// [ErrBackupCorrupted].
//
// # Listing and Pruning
//
// [Manager.List] returns backups newest first and [ErrNoBackupsFound] when
// there are none. [Manager.Prune] keeps the most recent n.
package backup
