package apps

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/cli/prompt"
	"github.com/thoreinstein/slsah/internal/errors"
)

var removePurge bool

func init() {
	removeCmd.Flags().BoolVar(&removePurge, "purge", false,
		"also delete the schema files of removed apps")
	Cmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove [appid...]",
	Aliases: []string{"rm"},
	Short:   "Remove AppIDs from AdditionalApps",
	Long: `Remove AppIDs from the AdditionalApps list.

Without arguments, pick the apps to remove from the current list; on a
terminal this opens a fuzzy finder.`,
	Example: `  # Remove one app
  slsah apps remove 620

  # Pick interactively and delete their schemas too
  slsah apps remove --purge

  See Also: slsah apps add, slsah schema purge`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		ids, err := cli.ParseAppIDs(args)
		if err != nil {
			return err
		}
		return runRemoveWithWriter(cmd.Context(), cmd.OutOrStdout(), env, prompt.NewSelector(), ids)
	},
}

func runRemoveWithWriter(ctx context.Context, w io.Writer, env *cli.Env, sel *prompt.Selector, ids []int64) error {
	store := env.SLSsteam()

	if len(ids) == 0 {
		current, err := store.AdditionalApps()
		if err != nil {
			return err
		}
		picked, err := pickApps(ctx, env, sel, "Remove from AdditionalApps", current)
		if err != nil {
			return err
		}
		if len(picked) == 0 {
			fmt.Fprintln(w, "Nothing selected.")
			return nil
		}
		ids = picked
	}

	removed, err := store.RemoveApps(ids...)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if !slices.Contains(removed, id) {
			fmt.Fprintf(w, "%s %d is not in AdditionalApps\n", output.Gray("-"), id)
			continue
		}
		fmt.Fprintf(w, "%s Removed %d\n", output.Green("✓"), id)
		if removePurge {
			n, err := env.Schemas().Remove(id, "")
			if err != nil {
				return errors.Wrapf(err, "purging schema for %d", id)
			}
			if n > 0 {
				fmt.Fprintf(w, "  deleted schema file\n")
			}
		}
	}
	return nil
}

// pickApps lets the user select from ids, labelled with cached names. A
// cancelled selection picks nothing.
func pickApps(ctx context.Context, env *cli.Env, sel *prompt.Selector, header string, ids []int64) ([]int64, error) {
	names, err := env.AppNames(ctx, ids, nil)
	if err != nil {
		return nil, err
	}
	choices := make([]prompt.App, len(ids))
	for i, id := range ids {
		choices[i] = prompt.App{ID: id, Name: names[id]}
	}

	picked, err := sel.SelectApps(header, choices)
	switch {
	case errors.Is(err, prompt.ErrNoApps):
		return nil, errors.NewUserError(errors.New("AdditionalApps is empty"), "Add apps with: slsah apps add <appid>")
	case errors.Is(err, prompt.ErrSelectionCancelled):
		return nil, nil
	case err != nil:
		return nil, err
	}

	out := make([]int64, len(picked))
	for i, a := range picked {
		out[i] = a.ID
	}
	return out, nil
}
