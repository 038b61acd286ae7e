// Package library provides CLI commands for inspecting Steam library folders.
package library

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/logging"
	"github.com/thoreinstein/slsah/internal/manifest"
)

var (
	scanJSON  bool
	scanNames bool
)

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Output in JSON format")
	scanCmd.Flags().BoolVar(&scanNames, "names", false,
		"Read app names from each library's appmanifest files")
	Cmd.AddCommand(scanCmd)
}

// Cmd is the root library command.
var Cmd = &cobra.Command{
	Use:   "library",
	Short: "Inspect Steam library folders",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List library folders and their apps",
	Long: `List the library folders in Steam's libraryfolders.vdf and the AppIDs
each one holds.

With --names, the appmanifest_<appid>.acf files in each library are read
for app names; apps without a manifest are shown without one.`,
	Example: `  # List libraries and apps
  slsah library scan --names

  # Generate schemas for every installed app
  slsah schema generate --from-library`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		return runScanWithWriter(cmd.Context(), cmd.OutOrStdout(), env)
	},
}

// appOutput is one app in JSON output.
type appOutput struct {
	AppID      int64  `json:"app_id"`
	Name       string `json:"name,omitempty"`
	InstallDir string `json:"install_dir,omitempty"`
}

// libraryOutput is one library folder in JSON output.
type libraryOutput struct {
	Index string      `json:"index"`
	Path  string      `json:"path"`
	Label string      `json:"label,omitempty"`
	Apps  []appOutput `json:"apps"`
}

func runScanWithWriter(ctx context.Context, w io.Writer, env *cli.Env) error {
	path := env.Config.LibraryManifest()
	libs, err := manifest.ReadLibraryFile(path)
	if err != nil {
		return errors.NewUserError(err, "Check steam_dir with: slsah config show")
	}

	logger := logging.FromContext(ctx)
	out := make([]libraryOutput, 0, len(libs))
	for _, lib := range libs {
		var manifests map[int64]manifest.AppManifest
		if scanNames {
			manifests, err = manifest.ScanAppManifests(lib.Path)
			if err != nil {
				logger.Warn("scanning app manifests failed", "library", lib.Path, "error", err)
			}
		}

		lo := libraryOutput{Index: lib.Index, Path: lib.Path, Label: lib.Label, Apps: []appOutput{}}
		for _, id := range lib.Apps {
			m := manifests[id]
			lo.Apps = append(lo.Apps, appOutput{AppID: id, Name: m.Name, InstallDir: m.InstallDir})
		}
		out = append(out, lo)
	}

	if scanJSON {
		return output.JSON(w, out)
	}
	if len(out) == 0 {
		fmt.Fprintf(w, "No library folders in %s\n", path)
		return nil
	}

	total := 0
	for _, lo := range out {
		title := lo.Path
		if lo.Label != "" {
			title += " (" + lo.Label + ")"
		}
		fmt.Fprintf(w, "%s %s\n", output.Header(lo.Index), output.Bold(title))
		if len(lo.Apps) == 0 {
			fmt.Fprintln(w, output.Gray("  no apps"))
			continue
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, a := range lo.Apps {
			fmt.Fprintf(tw, "  %d\t%s\n", a.AppID, output.Truncate(a.Name, 50))
		}
		if err := tw.Flush(); err != nil {
			return errors.Wrap(err, "writing table")
		}
		total += len(lo.Apps)
	}
	fmt.Fprintf(w, "\n%d app(s) in %d library folder(s)\n", total, len(out))
	return nil
}
