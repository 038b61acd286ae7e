package commands

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/slsah/cmd"
	"github.com/thoreinstein/slsah/cmd/slsah/commands/output"
)

var (
	versionJSON  bool
	versionShort bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "output as JSON")
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "print only the version")
	versionCmd.MarkFlagsMutuallyExclusive("json", "short")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, _ []string) error {
		return runVersionWithWriter(c.OutOrStdout(), versionJSON, versionShort)
	},
}

type versionOutput struct {
	Version  string `json:"version"`
	Commit   string `json:"commit"`
	Date     string `json:"date"`
	Go       string `json:"go"`
	Platform string `json:"platform"`
}

func runVersionWithWriter(w io.Writer, asJSON, short bool) error {
	v := versionOutput{Go: runtime.Version(), Platform: runtime.GOOS + "/" + runtime.GOARCH}
	v.Version, v.Commit, v.Date = cmd.BuildInfo()

	switch {
	case asJSON:
		return output.JSON(w, v)
	case short:
		fmt.Fprintln(w, v.Version)
	default:
		fmt.Fprintf(w, "slsah version %s\n  commit: %s\n  built:  %s\n  go:     %s %s\n",
			v.Version, v.Commit, v.Date, v.Go, v.Platform)
	}
	return nil
}
