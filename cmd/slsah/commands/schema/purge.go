package schema

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/cli/prompt"
	"github.com/thoreinstein/slsah/internal/errors"
)

var (
	purgeAll   bool
	purgeStats bool
	purgeYes   bool
)

func init() {
	purgeCmd.Flags().BoolVar(&purgeAll, "all", false, "delete every schema file in the stats directory")
	purgeCmd.Flags().BoolVar(&purgeStats, "stats", false, "also delete the user stats files")
	purgeCmd.Flags().BoolVarP(&purgeYes, "yes", "y", false, "do not ask for confirmation")
	Cmd.AddCommand(purgeCmd)
}

var purgeCmd = &cobra.Command{
	Use:   "purge [appid...]",
	Short: "Delete schema files",
	Long: `Delete generated UserGameStatsSchema_<appid>.bin files, and with --stats
the matching UserGameStats_<steamid>_<appid>.bin files.

--all asks for confirmation unless --yes is given.`,
	Example: `  # Remove one schema
  slsah schema purge 620

  # Remove every schema and stats file without asking
  slsah schema purge --all --stats --yes

  See Also: slsah schema list, slsah schema generate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		return runPurgeWithWriter(cmd.OutOrStdout(), env, prompt.NewSelector(), args)
	},
}

func runPurgeWithWriter(w io.Writer, env *cli.Env, sel *prompt.Selector, args []string) error {
	store := env.Schemas()

	var ids []int64
	var err error
	switch {
	case purgeAll && len(args) > 0:
		return errors.NewUserError(errors.New("--all cannot be combined with AppIDs"), "Pass either AppIDs or --all")
	case purgeAll:
		if ids, err = store.List(); err != nil {
			return err
		}
	default:
		if ids, err = cli.ParseAppIDs(args); err != nil {
			return err
		}
		if len(ids) == 0 {
			return errors.NewUserError(errors.New("no apps given"), "Pass AppIDs or --all")
		}
	}

	if len(ids) == 0 {
		fmt.Fprintln(w, "Nothing to purge.")
		return nil
	}

	steamID := ""
	if purgeStats {
		id, err := env.SteamID()
		if err != nil {
			return err
		}
		steamID = id.String()
	}

	if purgeAll && !purgeYes {
		ok, err := sel.Confirm(fmt.Sprintf("Delete %d schema file(s) from %s?", len(ids), store.Dir()))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(w, "Aborted.")
			return nil
		}
	}

	total := 0
	for _, id := range ids {
		n, err := store.Remove(id, steamID)
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintf(w, "%s %d: %s\n", output.Gray("-"), id, output.Gray("nothing to delete"))
			continue
		}
		total += n
		fmt.Fprintf(w, "%s %d: deleted %d file(s)\n", output.Green("✓"), id, n)
	}

	fmt.Fprintf(w, "\nDeleted %d file(s).\n", total)
	return nil
}
