package commands

import "github.com/thoreinstein/slsah/cmd/slsah/commands/library"

func init() {
	rootCmd.AddCommand(library.Cmd)
}
