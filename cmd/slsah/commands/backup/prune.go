package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/errors"
)

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", -1,
		"Number of backups to retain (default: backup_retention from config)")
	Cmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old backups",
	Long: `Remove backups beyond the retention count.

Without --keep the configured backup_retention is used.`,
	Example: `  # Keep only the 3 most recent backups
  slsah backup prune --keep 3

  # Remove all backups
  slsah backup prune --keep 0`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		keep := pruneKeep
		if !cmd.Flags().Changed("keep") {
			keep = env.Config.BackupRetention
		}
		return runPruneWithWriter(cmd.OutOrStdout(), env, keep)
	},
}

func runPruneWithWriter(w io.Writer, env *cli.Env, keep int) error {
	if keep < 0 {
		return errors.NewUserError(errors.New("--keep must be non-negative"), "")
	}

	removed, err := env.Backups().Prune(keep)
	if err != nil {
		return errors.Wrap(err, "pruning backups")
	}
	if len(removed) == 0 {
		fmt.Fprintln(w, "No backups to prune")
		return nil
	}
	for _, name := range removed {
		fmt.Fprintf(w, "  %s %s\n", output.Gray("-"), name)
	}
	fmt.Fprintf(w, "%s Removed %d backup(s)\n", output.Green("✓"), len(removed))
	return nil
}
