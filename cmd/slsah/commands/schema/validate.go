package schema

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/schema"
)

func init() {
	Cmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [appid...]",
	Short: "Check schema files for structural problems",
	Long: `Decode schema files and check the block layout Steam expects:
contiguous stat blocks of type 4, bits 0 to 31, unique API names, and
localized names in every bit.

Without AppIDs, every schema in the stats directory is checked.`,
	Example: `  # Validate everything
  slsah schema validate

  # Validate one schema
  slsah schema validate 620

  See Also: slsah schema generate --mode overwrite`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		return runValidateWithWriter(cmd.OutOrStdout(), env, args)
	},
}

func runValidateWithWriter(w io.Writer, env *cli.Env, args []string) error {
	store := env.Schemas()

	ids, err := cli.ParseAppIDs(args)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		if ids, err = store.List(); err != nil {
			return err
		}
	}
	if len(ids) == 0 {
		fmt.Fprintln(w, "No schema files to validate.")
		return nil
	}

	invalid := 0
	for _, id := range ids {
		problems := validateOne(store, id)
		if len(problems) == 0 {
			fmt.Fprintf(w, "%s %d\n", output.Green("✓"), id)
			continue
		}
		invalid++
		fmt.Fprintf(w, "%s %d\n", output.Red("✗"), id)
		for _, p := range problems {
			fmt.Fprintf(w, "    %s\n", p)
		}
	}

	if invalid > 0 {
		return errors.NewUserError(
			errors.Newf("%d of %d schema file(s) invalid", invalid, len(ids)),
			"Regenerate with: slsah schema generate --mode overwrite <appid>")
	}
	return nil
}

func validateOne(store *schema.Store, appID int64) []error {
	tree, err := store.Load(appID)
	if err != nil {
		return []error{err}
	}
	if tree == nil {
		return []error{errors.Wrapf(errors.ErrNotFound, "%s", store.SchemaPath(appID))}
	}
	s, err := schema.FromTree(tree)
	if err != nil {
		return []error{err}
	}
	g, ok := s[strconv.FormatInt(appID, 10)]
	if !ok {
		return []error{errors.Newf("file has no entry for app %d", appID)}
	}
	return schema.Validate(g)
}
