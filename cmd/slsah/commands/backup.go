package commands

import "github.com/thoreinstein/slsah/cmd/slsah/commands/backup"

func init() {
	rootCmd.AddCommand(backup.Cmd)
}
