package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/achsync"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/logging"
	"github.com/thoreinstein/slsah/internal/paths"
	"github.com/thoreinstein/slsah/internal/steamapi"
)

var (
	syncFromAPI    bool
	syncFromConfig bool
)

func init() {
	syncCmd.Flags().BoolVar(&syncFromAPI, "from-api", false,
		"read unlocks from the Steam Web API instead of Goldberg saves")
	syncCmd.Flags().BoolVar(&syncFromConfig, "from-config", false,
		"also sync every app in SLSsteam AdditionalApps")
	rootCmd.AddCommand(syncCmd)
}

var syncCmd = &cobra.Command{
	Use:   "sync [appid...]",
	Short: "Copy achievement unlocks into Steam stats files",
	Long: `Stamp unlock times into the user stats file of each app.

Unlocked achievements are read from the Goldberg emulator's achiev.ini
(goldberg_dir/<appid>/achiev.ini), or with --from-api from the player's
achievements on the Steam Web API. Every matching achievement whose
unlock_time is missing or zero gets the recorded time, or the current time
when none is known. Existing unlock times are never changed, and the file
is only rewritten when something changed.`,
	Example: `  # Sync from Goldberg saves
  slsah sync 620

  # Sync every configured app from the Web API
  slsah sync --from-config --from-api

  See Also: slsah schema generate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		ids, err := env.Collect(cli.Sources{Args: args, FromConfig: syncFromConfig})
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return errors.NewUserError(errors.New("no apps to sync"),
				"Pass AppIDs or --from-config")
		}

		var api achievementFetcher
		if syncFromAPI {
			client, err := env.SteamAPI()
			if err != nil {
				return err
			}
			api = client
		}
		return runSyncWithWriter(cmd.Context(), cmd.OutOrStdout(), env, api, ids)
	},
}

// achievementFetcher reads a player's achievements from the Web API.
type achievementFetcher interface {
	GetPlayerAchievements(ctx context.Context, steamID64 uint64, appID int64) ([]steamapi.PlayerAchievement, error)
}

// runSyncWithWriter syncs each app. With a nil api, unlocks come from
// Goldberg saves.
func runSyncWithWriter(ctx context.Context, w io.Writer, env *cli.Env, api achievementFetcher, ids []int64) error {
	steamID, err := env.SteamID()
	if err != nil {
		return err
	}

	logger := logging.FromContext(ctx)
	syncer := achsync.NewSyncer(env.Schemas())
	failed := 0

	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}

		unlocks, err := readUnlocks(ctx, env, api, steamID.ID64(), id)
		if err == nil {
			var res *achsync.Result
			res, err = syncer.Sync(steamID.String(), id, unlocks)
			if err == nil {
				logger.Debug("synced achievements", "app_id", id, "unlocked", res.Unlocked, "updated", len(res.Updated))
				fmt.Fprintf(w, "%s %d: %d unlocked, %d updated\n",
					output.Green("✓"), id, res.Unlocked, len(res.Updated))
				for _, name := range res.Updated {
					fmt.Fprintf(w, "    %s\n", name)
				}
				continue
			}
		}

		failed++
		fmt.Fprintf(w, "%s %d: %v\n", output.Red("✗"), id, err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintf(w, "    hint: %s\n", hint)
		}
	}

	if failed > 0 {
		return errors.NewExitError(errors.Newf("%d of %d apps failed to sync", failed, len(ids)), errors.ExitUser)
	}
	return nil
}

func readUnlocks(ctx context.Context, env *cli.Env, api achievementFetcher, steamID64 uint64, appID int64) (achsync.Unlocks, error) {
	if api == nil {
		return achsync.ReadGoldberg(paths.GoldbergAchievementsPath(env.Config.GoldbergDir, appID))
	}
	achs, err := api.GetPlayerAchievements(ctx, steamID64, appID)
	if err != nil {
		return nil, err
	}
	return achsync.FromPlayerAchievements(achs), nil
}
