package apps

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/appcache"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/errors"
)

var (
	listJSON  bool
	listFetch bool
)

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().BoolVar(&listFetch, "fetch", false,
		"look up names missing from the app info cache on the Steam store")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List AdditionalApps",
	Long: `List the AppIDs in AdditionalApps with their name, whether a schema file
exists, and their FakeAppId mapping if any.

Names come from the app info cache. --fetch looks up unknown names on
the Steam store and caches them.`,
	Example: `  # List apps
  slsah apps list

  # Fill in unknown names first
  slsah apps list --fetch

  See Also: slsah cache show`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		var f appcache.Fetcher
		if listFetch {
			f = env.StoreAPI()
		}
		return runListWithWriter(cmd.Context(), cmd.OutOrStdout(), env, f)
	},
}

// appOutput represents one app in JSON output.
type appOutput struct {
	AppID     int64  `json:"app_id"`
	Name      string `json:"name,omitempty"`
	Schema    bool   `json:"schema"`
	FakeAppID int64  `json:"fake_app_id,omitempty"`
}

func runListWithWriter(ctx context.Context, w io.Writer, env *cli.Env, f appcache.Fetcher) error {
	cfg, err := env.SLSsteam().Load()
	if err != nil {
		return err
	}
	names, err := env.AppNames(ctx, cfg.AdditionalApps, f)
	if err != nil {
		return err
	}

	store := env.Schemas()
	apps := make([]appOutput, 0, len(cfg.AdditionalApps))
	for _, id := range cfg.AdditionalApps {
		exists, err := store.Exists(id)
		if err != nil {
			return err
		}
		apps = append(apps, appOutput{
			AppID:     id,
			Name:      names[id],
			Schema:    exists,
			FakeAppID: cfg.FakeAppIDs[id],
		})
	}

	if listJSON {
		return output.JSON(w, apps)
	}
	return printApps(w, apps)
}

func printApps(w io.Writer, apps []appOutput) error {
	if len(apps) == 0 {
		fmt.Fprintln(w, "AdditionalApps is empty.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Add apps with: slsah apps add <appid>")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		output.Bold("APPID"), output.Bold("NAME"), output.Bold("SCHEMA"), output.Bold("FAKEAPPID"))
	for _, a := range apps {
		name := a.Name
		if name == "" {
			name = output.Gray("(unknown)")
		}
		schema := output.Yellow("missing")
		if a.Schema {
			schema = output.Green("yes")
		}
		fake := "-"
		if a.FakeAppID != 0 {
			fake = fmt.Sprint(a.FakeAppID)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", a.AppID, output.Truncate(name, 40), schema, fake)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "writing table")
	}
	fmt.Fprintf(w, "\n%d app(s)\n", len(apps))
	return nil
}
