// Package output holds the text and JSON helpers shared by the slsah
// commands.
package output

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"

	"github.com/thoreinstein/slsah/internal/errors"
)

// Styles for terminal output. fatih/color drops the escape codes when
// stdout is not a terminal or NO_COLOR is set.
var (
	Bold   = color.New(color.Bold).SprintFunc()
	Header = color.New(color.FgCyan, color.Bold).SprintFunc()
	Green  = color.New(color.FgGreen).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Gray   = color.New(color.FgHiBlack).SprintFunc()
)

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(v), "encoding output")
}

// Truncate shortens a string to maxLen runes, adding "..." if truncated.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
