package schema

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/vdf"
)

var (
	showFormat string
	showStats  bool
)

func init() {
	showCmd.Flags().StringVarP(&showFormat, "format", "f", "yaml", "output format: yaml, toml, json")
	showCmd.Flags().BoolVar(&showStats, "stats", false,
		"show the user stats file (UserGameStats_<steamid>_<appid>.bin) instead")
	Cmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <appid>",
	Short: "Print a schema as YAML, TOML or JSON",
	Long: `Decode a schema file and print its key-value tree.

Key order is kept as stored. Integer values keep their width in JSON and
YAML; TOML has a single integer type.`,
	Example: `  # Show the schema for Portal 2
  slsah schema show 620

  # Show the user stats file as JSON
  slsah schema show 620 --stats --format json

  See Also: slsah schema list, slsah sync`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		ids, err := cli.ParseAppIDs(args)
		if err != nil {
			return err
		}
		return runShowWithWriter(cmd.OutOrStdout(), env, ids[0])
	},
}

func runShowWithWriter(w io.Writer, env *cli.Env, appID int64) error {
	store := env.Schemas()

	var (
		tree *vdf.Map
		path string
		err  error
	)
	if showStats {
		id, idErr := env.SteamID()
		if idErr != nil {
			return idErr
		}
		path = store.StatsPath(id.String(), appID)
		tree, err = store.LoadStats(id.String(), appID)
	} else {
		path = store.SchemaPath(appID)
		tree, err = store.Load(appID)
	}
	if err != nil {
		return err
	}
	if tree == nil {
		return errors.NewUserError(errors.Wrapf(errors.ErrNotFound, "%s", path),
			fmt.Sprintf("Generate it with: slsah schema generate %d", appID))
	}

	return writeTree(w, tree, showFormat)
}

func writeTree(w io.Writer, tree *vdf.Map, format string) error {
	switch format {
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree.YAMLNode()); err != nil {
			return errors.Wrap(err, "encoding yaml")
		}
		return errors.Wrap(enc.Close(), "encoding yaml")
	case "toml":
		data, err := toml.Marshal(tree.ToAny())
		if err != nil {
			return errors.Wrap(err, "encoding toml")
		}
		_, err = w.Write(data)
		return errors.Wrap(err, "writing output")
	case "json":
		return output.JSON(w, tree)
	default:
		return errors.NewUserError(errors.Newf("unknown format %q", format),
			"Use --format yaml, toml or json")
	}
}
