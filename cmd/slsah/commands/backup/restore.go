package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/backup"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/cli/prompt"
	"github.com/thoreinstein/slsah/internal/errors"
)

var restoreYes bool

func init() {
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "Do not ask for confirmation")
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore [backup]",
	Short: "Restore the SLSsteam config from a backup",
	Long: `Restore the SLSsteam config from a backup.

If no backup name is given, the most recent backup is used. The current
config is backed up before it is overwritten, so a restore can be undone
with another restore.`,
	Example: `  # Restore the most recent backup
  slsah backup restore

  # Restore a specific backup without asking
  slsah backup restore config.20260123-100712.yaml --yes

  See Also:
    slsah backup list - List available backups`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		var name string
		if len(args) > 0 {
			name = args[0]
		}
		return runRestoreWithWriter(cmd.OutOrStdout(), env, prompt.NewSelector(), name)
	},
}

func runRestoreWithWriter(w io.Writer, env *cli.Env, sel *prompt.Selector, name string) error {
	mgr := env.Backups()

	if name == "" {
		latest, err := mgr.Latest()
		if err != nil {
			return noBackups(err)
		}
		name = latest.Name
		fmt.Fprintf(w, "Using most recent backup: %s\n", name)
	}

	if !restoreYes {
		ok, err := sel.Confirm(fmt.Sprintf("Overwrite %s with %s?", env.Config.SLSsteamConfig, name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, "Aborted.")
			return nil
		}
	}

	safety, err := mgr.Restore(name, env.Config.SLSsteamConfig)
	switch {
	case errors.Is(err, backup.ErrInvalidName):
		return errors.NewUserError(err, "List backups with: slsah backup list")
	case err != nil:
		return noBackups(err)
	}

	if safety != nil {
		fmt.Fprintf(w, "Backed up current config to %s\n", safety.Name)
	}
	fmt.Fprintf(w, "%s Restored %s\n", output.Green("✓"), name)
	return nil
}
