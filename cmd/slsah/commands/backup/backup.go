// Package backup provides CLI commands for managing SLSsteam config backups.
package backup

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/internal/backup"
	"github.com/thoreinstein/slsah/internal/errors"
)

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage SLSsteam config backups",
	Long: `Manage backups of the SLSsteam config.

Before slsah modifies the SLSsteam config it copies the current file into
the backup directory. This command group lists, restores, creates and
prunes those copies.

Backups are stored in a backup/ directory next to the SLSsteam config.`,
	Example: `  # List all backups
  slsah backup list

  # Restore the most recent backup
  slsah backup restore

  # Restore a specific backup
  slsah backup restore config.20260123-100712.yaml

  # Remove old backups, keeping the 3 most recent
  slsah backup prune --keep 3

  See Also:
    slsah backup list    - List available backups
    slsah backup restore - Restore from a backup
    slsah backup create  - Manually create a backup
    slsah backup prune   - Remove old backups`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// noBackups turns ErrNoBackupsFound into a user error.
func noBackups(err error) error {
	if errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.NewUserError(err, "Create one with: slsah backup create")
	}
	return err
}
