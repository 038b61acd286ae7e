// Package onlinefix provides CLI commands for the SLSsteam FakeAppIds
// mapping, which lets unlocked games use Spacewar's multiplayer backend.
package onlinefix

import (
	"context"
	"fmt"
	"io"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/cli/prompt"
	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/slsconfig"
)

var (
	fakeID   int64
	listJSON bool
)

func init() {
	setCmd.Flags().Int64Var(&fakeID, "fake-id", slsconfig.DefaultFakeAppID,
		"AppID the games are presented as")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(setCmd, removeCmd, listCmd)
}

// Cmd is the root onlinefix command.
var Cmd = &cobra.Command{
	Use:   "onlinefix",
	Short: "Manage the SLSsteam FakeAppIds mapping",
	Long: `Manage the FakeAppIds section of the SLSsteam config.

A game mapped to a FakeAppId is presented to Steam's networking as that
app, by default 480 (Spacewar), which enables online play for many
unlocked games. The config is backed up before each change.`,
	Example: `  # Map a game to Spacewar
  slsah onlinefix set 620

  # Pick mappings to remove
  slsah onlinefix remove

  See Also: slsah apps`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var setCmd = &cobra.Command{
	Use:   "set <appid>...",
	Short: "Map apps to a FakeAppId",
	Args:  cobra.MinimumNArgs(1),
	Example: `  # Map two games to Spacewar
  slsah onlinefix set 620 730

  # Use another app
  slsah onlinefix set 620 --fake-id 1234`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		ids, err := cli.ParseAppIDs(args)
		if err != nil {
			return err
		}
		return runSetWithWriter(cmd.OutOrStdout(), env, ids, fakeID)
	},
}

var removeCmd = &cobra.Command{
	Use:     "remove [appid...]",
	Aliases: []string{"rm"},
	Short:   "Remove FakeAppIds mappings",
	Long: `Remove FakeAppIds mappings. Without arguments, pick the mappings to
remove; on a terminal this opens a fuzzy finder.`,
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

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List FakeAppIds mappings",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		return runListWithWriter(cmd.Context(), cmd.OutOrStdout(), env)
	},
}

func runSetWithWriter(w io.Writer, env *cli.Env, ids []int64, fake int64) error {
	if fake < 0 {
		return errors.NewUserError(errors.Wrapf(errors.ErrInvalidAppID, "fake id %d", fake),
			"Use a positive AppID, e.g. --fake-id 480")
	}
	store := env.SLSsteam()
	for _, id := range ids {
		if err := store.SetFakeAppID(id, fake); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s %d → %d\n", output.Green("✓"), id, fake)
	}
	return nil
}

func runRemoveWithWriter(ctx context.Context, w io.Writer, env *cli.Env, sel *prompt.Selector, ids []int64) error {
	store := env.SLSsteam()

	if len(ids) == 0 {
		current, err := store.FakeAppIDs()
		if err != nil {
			return err
		}
		picked, err := pick(ctx, env, sel, sortedKeys(current))
		if err != nil {
			return err
		}
		if len(picked) == 0 {
			fmt.Fprintln(w, "Nothing selected.")
			return nil
		}
		ids = picked
	}

	removed, err := store.RemoveFakeAppIDs(ids...)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if slices.Contains(removed, id) {
			fmt.Fprintf(w, "%s Removed mapping for %d\n", output.Green("✓"), id)
		} else {
			fmt.Fprintf(w, "%s %d has no mapping\n", output.Gray("-"), id)
		}
	}
	return nil
}

func pick(ctx context.Context, env *cli.Env, sel *prompt.Selector, ids []int64) ([]int64, error) {
	names, err := env.AppNames(ctx, ids, nil)
	if err != nil {
		return nil, err
	}
	choices := make([]prompt.App, len(ids))
	for i, id := range ids {
		choices[i] = prompt.App{ID: id, Name: names[id]}
	}

	picked, err := sel.SelectApps("Remove FakeAppIds mapping", choices)
	switch {
	case errors.Is(err, prompt.ErrNoApps):
		return nil, errors.NewUserError(errors.Wrap(err, "FakeAppIds is empty"), "Add one with: slsah onlinefix set <appid>")
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

// mappingOutput represents one mapping in JSON output.
type mappingOutput struct {
	AppID     int64  `json:"app_id"`
	Name      string `json:"name,omitempty"`
	FakeAppID int64  `json:"fake_app_id"`
}

func runListWithWriter(ctx context.Context, w io.Writer, env *cli.Env) error {
	m, err := env.SLSsteam().FakeAppIDs()
	if err != nil {
		return err
	}
	ids := sortedKeys(m)
	names, err := env.AppNames(ctx, ids, nil)
	if err != nil {
		return err
	}

	out := make([]mappingOutput, 0, len(ids))
	for _, id := range ids {
		out = append(out, mappingOutput{AppID: id, Name: names[id], FakeAppID: m[id]})
	}

	if listJSON {
		return output.JSON(w, out)
	}
	if len(out) == 0 {
		fmt.Fprintln(w, "No FakeAppIds mappings.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", output.Bold("APPID"), output.Bold("NAME"), output.Bold("FAKEAPPID"))
	for _, o := range out {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", o.AppID, output.Truncate(o.Name, 40), o.FakeAppID)
	}
	return errors.Wrap(tw.Flush(), "writing table")
}

func sortedKeys(m map[int64]int64) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
