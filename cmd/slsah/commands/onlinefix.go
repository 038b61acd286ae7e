package commands

import "github.com/thoreinstein/slsah/cmd/slsah/commands/onlinefix"

func init() {
	rootCmd.AddCommand(onlinefix.Cmd)
}
