package backup

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd/slsah/commands/flags"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
	"github.com/thoreinstein/slsah/internal/backup"
	"github.com/thoreinstein/slsah/internal/cli"
	"github.com/thoreinstein/slsah/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List available backups",
	Long:    `List SLSsteam config backups, newest first.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env, err := flags.Env()
		if err != nil {
			return err
		}
		return runListWithWriter(cmd.OutOrStdout(), env)
	},
}

// backupOutput represents a backup in JSON output.
type backupOutput struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}

func runListWithWriter(w io.Writer, env *cli.Env) error {
	backups, err := env.Backups().List()
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.Wrap(err, "listing backups")
	}

	if listJSON {
		out := make([]backupOutput, 0, len(backups))
		for _, b := range backups {
			out = append(out, backupOutput(b))
		}
		return output.JSON(w, out)
	}

	if len(backups) == 0 {
		fmt.Fprintln(w, "No backups found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", output.Bold("NAME"), output.Bold("CREATED"), output.Bold("SIZE"))
	for _, b := range backups {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", b.Name, b.CreatedAt.Local().Format(time.DateTime), b.Size)
	}
	if err := tw.Flush(); err != nil {
		return errors.Wrap(err, "writing table")
	}
	fmt.Fprintf(w, "\n%s\n", output.Gray(env.Backups().Dir()))
	return nil
}
