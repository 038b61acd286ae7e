// Package editor launches the user's preferred text editor on slsah's
// config files.
package editor

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// Editor runs an external editor attached to the terminal.
type Editor struct {
	// Command is the editor and its leading arguments, e.g. ["code", "--wait"].
	Command []string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// New returns an Editor for the detected command wired to the process's
// standard streams.
func New() *Editor {
	return &Editor{
		Command: strings.Fields(detectEditor()),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Open edits path in place.
func (e *Editor) Open(path string) error {
	fmt.Fprintf(e.Stdout, "Location: %s\n", path)
	return e.run(path)
}

// EditCopy opens a temporary copy of path and returns what the user saved
// and whether it differs from the original. path itself is never written,
// so the caller can validate and back up before replacing it. A missing
// path starts from an empty file.
func (e *Editor) EditCopy(path string) ([]byte, bool, error) {
	orig, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, false, errors.Wrapf(err, "reading %s", path)
	}

	// Keep the extension so editors pick the right syntax mode.
	tmp, err := os.CreateTemp("", "slsah-edit-*"+filepath.Ext(path))
	if err != nil {
		return nil, false, errors.Wrap(err, "creating temp file")
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(orig); err != nil {
		tmp.Close()
		return nil, false, errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Close(); err != nil {
		return nil, false, errors.Wrap(err, "closing temp file")
	}

	fmt.Fprintf(e.Stdout, "Editing a copy of %s\n", path)
	if err := e.run(tmpPath); err != nil {
		return nil, false, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, false, errors.Wrap(err, "reading edited file")
	}
	return edited, !bytes.Equal(orig, edited), nil
}

func (e *Editor) run(path string) error {
	if len(e.Command) == 0 {
		return errors.New("no editor configured")
	}
	args := append(append([]string{}, e.Command[1:]...), path)
	cmd := exec.Command(e.Command[0], args...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", e.Command[0])
	}
	return nil
}

// detectEditor returns the editor command to use based on environment variables
// and available binaries. Fallback chain: $EDITOR → $VISUAL → nano → vi
func detectEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}

	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}

	// vi is available on every POSIX system
	return "vi"
}
