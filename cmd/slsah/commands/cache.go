package commands

import "github.com/thoreinstein/slsah/cmd/slsah/commands/cache"

func init() {
	rootCmd.AddCommand(cache.Cmd)
}
