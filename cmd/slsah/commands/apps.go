package commands

import "github.com/thoreinstein/slsah/cmd/slsah/commands/apps"

func init() {
	rootCmd.AddCommand(apps.Cmd)
}
