package backup

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/errors"
)

func init() {
	Cmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Back up the SLSsteam config now",
	Long: `Copy the current SLSsteam config into the backup directory.

Backups beyond the configured retention count are pruned afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		return runCreateWithWriter(cmd.OutOrStdout(), env)
	},
}

func runCreateWithWriter(w io.Writer, env *cli.Env) error {
	b, err := env.Backups().Create(env.Config.SLSsteamConfig)
	if err != nil {
		return errors.Wrap(err, "creating backup")
	}
	if b == nil {
		return errors.NewUserError(
			errors.Wrapf(errors.ErrNotFound, "%s", env.Config.SLSsteamConfig),
			"Check slssteam_config with: slsah config show")
	}
	fmt.Fprintf(w, "%s Created %s\n", output.Green("✓"), b.Name)
	return nil
}
