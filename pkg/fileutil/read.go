package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/slsah/internal/errors"
)

// MaxFileSize caps every read. The largest UserGameStatsSchema files are a
// few hundred KiB, and libraryfolders.vdf is far smaller.
const MaxFileSize = 8 << 20

var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads path, refusing anything larger than MaxFileSize.
// A missing file yields an error matching fs.ErrNotExist.
func ReadFileWithLimit(path string) ([]byte, error) {
	return readCapped(path, MaxFileSize)
}

// ReadOptional is ReadFileWithLimit for files that may legitimately not
// exist yet, such as a stats file before the first launch. ok reports
// whether the file was there.
func ReadOptional(path string) (data []byte, ok bool, err error) {
	data, err = ReadFileWithLimit(path)
	switch {
	case err == nil:
		return data, true, nil
	case errors.Is(err, os.ErrNotExist):
		return nil, false, nil
	default:
		return nil, false, err
	}
}

func readCapped(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > limit {
		return nil, ErrFileTooLarge
	}
	// Files can grow between Stat and Read; read one byte past the cap to notice.
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if int64(len(data)) > limit {
		return nil, ErrFileTooLarge
	}
	return data, nil
}
