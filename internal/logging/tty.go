package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is a terminal. Only writers exposing a file
// descriptor, such as *os.File, can be one.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether ANSI colors should be written to w. NO_COLOR
// (https://no-color.org) and TERM=dumb turn colors off even on a terminal.
func SupportsColor(w io.Writer) bool {
	return colorAllowed(os.LookupEnv, IsTTY(w))
}

func colorAllowed(lookup func(string) (string, bool), tty bool) bool {
	if _, set := lookup("NO_COLOR"); set {
		return false
	}
	if t, _ := lookup("TERM"); t == "dumb" {
		return false
	}
	return tty
}
