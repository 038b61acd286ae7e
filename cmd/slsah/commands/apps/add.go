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
	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/generate"
)

var addGenerate bool

func init() {
	addCmd.Flags().BoolVarP(&addGenerate, "generate", "g", false,
		"generate schemas for the given apps after adding them")
	Cmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add <appid>...",
	Short: "Add AppIDs to AdditionalApps",
	Long: `Add AppIDs to the AdditionalApps list. AppIDs already present are left
alone; the file is not touched when nothing is new.

With --generate, schemas for all given apps are then generated in update
mode, which requires api_key.`,
	Example: `  # Add two apps
  slsah apps add 620 480

  # Add and generate
  slsah apps add 620 --generate

  See Also: slsah apps remove, slsah schema generate`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		ids, err := cli.ParseAppIDs(args)
		if err != nil {
			return err
		}

		var api generate.SchemaFetcher
		if addGenerate {
			client, err := env.SteamAPI()
			if err != nil {
				return err
			}
			api = client
		}
		return runAddWithWriter(cmd.Context(), cmd.OutOrStdout(), env, api, ids)
	},
}

// runAddWithWriter adds ids and, when api is non-nil, generates their
// schemas.
func runAddWithWriter(ctx context.Context, w io.Writer, env *cli.Env, api generate.SchemaFetcher, ids []int64) error {
	added, err := env.SLSsteam().AddApps(ids...)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if slices.Contains(added, id) {
			fmt.Fprintf(w, "%s Added %d\n", output.Green("✓"), id)
		} else {
			fmt.Fprintf(w, "%s %d is already in AdditionalApps\n", output.Gray("-"), id)
		}
	}

	if api == nil {
		return nil
	}

	cfg := env.Config
	g := generate.New(env.Schemas(), api, generate.Options{
		Mode:          generate.ModeUpdate,
		Language:      cfg.Language,
		SteamID:       cfg.SteamID,
		StatsTemplate: cfg.StatsTemplate,
		Jobs:          cfg.Jobs,
	})
	summary, err := g.Run(ctx, ids)
	if err != nil {
		return errors.Wrap(err, "generation interrupted")
	}
	for _, r := range summary.Results {
		if r.Err != nil {
			fmt.Fprintf(w, "%s schema %d: %v\n", output.Red("✗"), r.AppID, r.Err)
			continue
		}
		fmt.Fprintf(w, "%s schema %d %s: %d achievements (%s)\n",
			output.Green("✓"), r.AppID, r.Name, r.Achievements, r.Outcome)
	}
	if summary.Errors > 0 {
		return errors.NewExitError(
			errors.Newf("%d of %d schemas failed", summary.Errors, summary.Total), errors.ExitUser)
	}
	return nil
}
