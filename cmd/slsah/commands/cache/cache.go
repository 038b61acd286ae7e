// Package cache provides CLI commands for the app info cache.
package cache

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/appcache"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/logging"
)

var showJSON bool

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(showCmd, refreshCmd, clearCmd)
}

// Cmd is the root cache command.
var Cmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the app info cache",
	Long: `Manage the app info cache.

The cache maps AppIDs to the name and type reported by the Steam store.
It is filled as apps are listed and generated, and can be refreshed or
cleared here.`,
	Example: `  # Show cached apps
  slsah cache show

  # Look up names for the configured apps
  slsah cache refresh

  # Forget everything
  slsah cache clear`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show cached apps",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		return runShowWithWriter(cmd.OutOrStdout(), env)
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh [appid...]",
	Short: "Fetch app details from the Steam store",
	Long: `Fetch app details from the Steam store and store them in the cache.

Without arguments, every cached app and every app in AdditionalApps is
refreshed. A failed lookup keeps the old entry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		ids, err := cli.ParseAppIDs(args)
		if err != nil {
			return err
		}
		return runRefreshWithWriter(cmd.Context(), cmd.OutOrStdout(), env, env.StoreAPI(), ids)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear [appid...]",
	Short: "Remove apps from the cache",
	Long: `Remove the given apps from the cache, or every app without arguments.

A corrupt cache file is replaced by an empty one.`,
	Annotations: map[string]string{flags.AnnotationConfigOptional: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := cli.ParseAppIDs(args)
		if err != nil {
			return err
		}
		return runClearWithWriter(cmd.OutOrStdout(), flags.ConfigOrDefault().CacheFile, ids)
	},
}

// entryOutput is one cached app in JSON output.
type entryOutput struct {
	AppID int64  `json:"app_id"`
	Name  string `json:"name"`
	Type  string `json:"type,omitempty"`
}

func runShowWithWriter(w io.Writer, env *cli.Env) error {
	c, err := env.AppCache()
	if err != nil {
		return err
	}

	out := make([]entryOutput, 0, c.Len())
	for _, id := range c.IDs() {
		e, _ := c.Get(id)
		out = append(out, entryOutput{AppID: id, Name: e.Name, Type: e.Type})
	}

	if showJSON {
		return output.JSON(w, out)
	}
	if len(out) == 0 {
		fmt.Fprintf(w, "Cache is empty (%s)\n", c.Path())
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", output.Bold("APPID"), output.Bold("NAME"), output.Bold("TYPE"))
	for _, e := range out {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", e.AppID, output.Truncate(e.Name, 50), e.Type)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "writing table")
	}
	fmt.Fprintf(w, "\n%d app(s) in %s\n", len(out), output.Gray(c.Path()))
	return nil
}

func runRefreshWithWriter(ctx context.Context, w io.Writer, env *cli.Env, f appcache.Fetcher, ids []int64) error {
	c, err := env.AppCache()
	if err != nil {
		return err
	}

	if len(ids) == 0 {
		ids = c.IDs()
		configured, err := env.SLSsteam().AdditionalApps()
		if err != nil {
			return err
		}
		for _, id := range configured {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "Nothing to refresh.")
		return nil
	}

	logger := logging.FromContext(ctx)
	failed := 0
	for _, id := range ids {
		d, err := f.AppDetails(ctx, id)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Debug("app details lookup failed", "app_id", id, "error", err)
			fmt.Fprintf(w, "%s %d: %v\n", output.Red("✗"), id, err)
			failed++
			continue
		}
		c.Put(id, appcache.Entry{Name: d.Name, Type: d.Type})
		fmt.Fprintf(w, "%s %d %s\n", output.Green("✓"), id, d.Name)
	}

	if err := c.Save(); err != nil {
		return err
	}
	if failed > 0 {
		return errors.NewExitError(errors.Newf("%d of %d lookups failed", failed, len(ids)), errors.ExitUser)
	}
	return nil
}

func runClearWithWriter(w io.Writer, path string, ids []int64) error {
	if len(ids) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "removing %s", path)
		}
		fmt.Fprintf(w, "%s Cleared %s\n", output.Green("✓"), path)
		return nil
	}

	c, err := appcache.Open(path)
	if err != nil {
		return errors.NewUserError(err, "Run: slsah cache clear")
	}
	for _, id := range ids {
		if c.Delete(id) {
			fmt.Fprintf(w, "%s Removed %d\n", output.Green("✓"), id)
		} else {
			fmt.Fprintf(w, "%s %d was not cached\n", output.Gray("-"), id)
		}
	}
	return c.Save()
}
