package schema

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/schema"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List schema files in the stats directory",
	Long: `List every UserGameStatsSchema_<appid>.bin in the stats directory with
the game name and achievement count stored in it.`,
	Example: `  # List schemas
  slsah schema list

  # As JSON
  slsah schema list --json

  See Also: slsah schema show, slsah schema purge`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		return runListWithWriter(cmd.OutOrStdout(), env)
	},
}

// listItem represents a single schema file in output.
type listItem struct {
	AppID        int64  `json:"app_id"`
	Name         string `json:"name"`
	Version      uint32 `json:"version"`
	Achievements int    `json:"achievements"`
	Error        string `json:"error,omitempty"`
}

func runListWithWriter(w io.Writer, env *cli.Env) error {
	store := env.Schemas()
	ids, err := store.List()
	if err != nil {
		return err
	}

	items := make([]listItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, describe(store, id))
	}

	if listJSON {
		return output.JSON(w, items)
	}

	if len(items) == 0 {
		fmt.Fprintf(w, "No schema files in %s\n", store.Dir())
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Generate one with: slsah schema generate <appid>")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		output.Bold("APPID"), output.Bold("NAME"), output.Bold("ACHIEVEMENTS"), output.Bold("VERSION"))
	for _, it := range items {
		if it.Error != "" {
			fmt.Fprintf(tw, "%d\t%s\t-\t-\n", it.AppID, output.Red("unreadable: "+it.Error))
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", it.AppID, output.Truncate(it.Name, 40), it.Achievements, it.Version)
	}
	return errors.Wrap(tw.Flush(), "writing table")
}

func describe(store *schema.Store, appID int64) listItem {
	it := listItem{AppID: appID}
	tree, err := store.Load(appID)
	if err != nil {
		it.Error = err.Error()
		return it
	}
	if tree == nil {
		it.Error = "file disappeared"
		return it
	}
	s, err := schema.FromTree(tree)
	if err != nil {
		it.Error = err.Error()
		return it
	}
	if g, ok := s[fmt.Sprint(appID)]; ok {
		it.Name = g.Name
		it.Version = g.Version
		it.Achievements = g.AchievementCount()
	}
	return it
}
