// Package main is the entry point for the slsah CLI.
package main

import (
	"fmt"
	"os"

	"github.com/thoreinstein/slsah/cmd/slsah/commands"
	"github.com/thoreinstein/slsah/internal/errors"
)

func main() {
	err := commands.Execute()
	if err == nil {
		return
	}
	if !commands.IsSilent(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if s := errors.Suggestion(err); s != "" {
			fmt.Fprintln(os.Stderr, s)
		}
	}
	os.Exit(errors.ExitCode(err))
}
