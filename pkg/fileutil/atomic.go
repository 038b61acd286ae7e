// Package fileutil holds the file primitives slsah uses for Steam and
// SLSsteam files: size-capped reads and crash-safe replacement.
package fileutil

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/thoreinstein/slsah/internal/errors"
)

// AtomicWrite replaces path with whatever fill writes. The bytes go to a
// hidden sibling file that is synced and renamed over path only when fill
// and every flush succeed, so Steam never observes a half-written schema or
// config. The parent directory must exist.
func AtomicWrite(path string, perm os.FileMode, fill func(io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "staging %s", path)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = fill(bw); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return errors.Wrapf(err, "writing %s", tmp.Name())
	}
	if err = tmp.Chmod(perm); err != nil {
		return errors.Wrapf(err, "chmod %s", tmp.Name())
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrapf(err, "syncing %s", tmp.Name())
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrapf(err, "closing %s", tmp.Name())
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrapf(err, "replacing %s", path)
	}
	return nil
}

// AtomicWriteFile is AtomicWrite for a byte slice.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	return AtomicWrite(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// AtomicWriteJSON stores v as two-space indented JSON with a trailing
// newline, mode 0644.
func AtomicWriteJSON(path string, v any) error {
	return AtomicWrite(path, 0o644, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "encoding JSON")
	})
}
