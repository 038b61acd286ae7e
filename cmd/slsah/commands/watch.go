package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/generate"
	"github.com/thoreinstein/slsah/internal/logging"
	"github.com/thoreinstein/slsah/internal/slsconfig"
)

var watchDebounce time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", slsconfig.DefaultDebounce,
		"wait this long after the last change before reading the config")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Generate schemas as apps are added to SLSsteam",
	Long: `Watch the SLSsteam config and generate schemas for AppIDs as they are
added to AdditionalApps.

Apps already listed when watch starts are left alone. New apps are
generated in update mode, so existing schema files are merged rather than
replaced. Stop with Ctrl-C.`,
	Example: `  # Watch in the foreground with progress logging
  slsah watch -v

  See Also: slsah apps add --generate`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		api, err := env.SteamAPI()
		if err != nil {
			return err
		}
		w := slsconfig.NewWatcher(env.SLSsteam(),
			slsconfig.WithDebounce(watchDebounce),
			slsconfig.WithLogger(logging.FromContext(cmd.Context())))
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", env.Config.SLSsteamConfig)
		return w.Run(cmd.Context(), generateAdded(cmd.OutOrStdout(), env, api))
	},
}

// generateAdded returns the watch callback: it generates schemas for the
// added apps in update mode and reports each result.
func generateAdded(w io.Writer, env *cli.Env, api generate.SchemaFetcher) slsconfig.AddedFunc {
	cfg := env.Config
	gen := generate.New(env.Schemas(), api, generate.Options{
		Mode:          generate.ModeUpdate,
		Language:      cfg.Language,
		SteamID:       cfg.SteamID,
		StatsTemplate: cfg.StatsTemplate,
		Jobs:          cfg.Jobs,
	})

	return func(ctx context.Context, added []int64) error {
		summary, err := gen.Run(ctx, added)
		if err != nil {
			return err
		}
		for _, r := range summary.Results {
			if r.Err != nil {
				fmt.Fprintf(w, "%s %d: %v\n", output.Red("✗"), r.AppID, r.Err)
				continue
			}
			fmt.Fprintf(w, "%s %d %s: %d achievements (%s)\n",
				output.Green("✓"), r.AppID, r.Name, r.Achievements, r.Outcome)
			if r.Warning != "" {
				fmt.Fprintf(w, "  %s %s\n", output.Yellow("warning:"), r.Warning)
			}
		}
		return nil
	}
}
