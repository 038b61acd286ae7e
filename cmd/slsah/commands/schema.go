package commands

import "github.com/thoreinstein/slsah/cmd/slsah/commands/schema"

func init() {
	rootCmd.AddCommand(schema.Cmd)
}
