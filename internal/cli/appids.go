package cli

import (
	"slices"
	"strconv"
	"strings"

	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/manifest"
)

// ParseAppIDs converts command arguments to AppIDs. Arguments may also be
// comma separated lists. Duplicates are dropped, keeping first occurrence.
func ParseAppIDs(args []string) ([]int64, error) {
	var ids []int64
	for _, arg := range args {
		for _, field := range strings.Split(arg, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			id, err := strconv.ParseInt(field, 10, 64)
			if err != nil || id <= 0 {
				return nil, errors.NewUserError(
					errors.Wrapf(errors.ErrInvalidAppID, "%q", field),
					"AppIDs are positive integers, e.g. 480")
			}
			ids = appendUnique(ids, id)
		}
	}
	return ids, nil
}

// Sources selects where a batch command collects its AppIDs from.
type Sources struct {
	Args        []string
	FromConfig  bool
	FromLibrary bool
}

// Empty reports whether no source was selected.
func (s Sources) Empty() bool {
	return len(s.Args) == 0 && !s.FromConfig && !s.FromLibrary
}

// Collect merges the selected sources in order: arguments, SLSsteam
// AdditionalApps, then the library manifest.
func (e *Env) Collect(s Sources) ([]int64, error) {
	ids, err := ParseAppIDs(s.Args)
	if err != nil {
		return nil, err
	}

	if s.FromConfig {
		apps, err := e.SLSsteam().AdditionalApps()
		if err != nil {
			return nil, errors.Wrap(err, "reading AdditionalApps")
		}
		ids = appendUnique(ids, apps...)
	}

	if s.FromLibrary {
		apps, err := manifest.ReadAppIDsFile(e.Config.LibraryManifest())
		if err != nil {
			return nil, errors.NewUserError(
				errors.Wrap(err, "reading library manifest"),
				"Set steam_dir to your Steam installation: slsah config set steam_dir <path>")
		}
		ids = appendUnique(ids, apps...)
	}

	return ids, nil
}

func appendUnique(ids []int64, more ...int64) []int64 {
	for _, id := range more {
		if !slices.Contains(ids, id) {
			ids = append(ids, id)
		}
	}
	return ids
}
