package achsync

import (
	"math"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/ini.v1"

	"github.com/thoreinstein/slsah/internal/steamapi"
	"github.com/thoreinstein/slsah/pkg/fileutil"
)

// ErrNoSaveFile indicates the Goldberg achievement file does not exist.
var ErrNoSaveFile = errors.New("goldberg achievement file not found")

// goldbergSection is the achiev.ini section listing unlocked achievements.
const goldbergSection = "achievements"

// Unlocks maps an upper-cased achievement API name to its unlock time in
// Unix seconds. A zero time means the time is unknown.
type Unlocks map[string]int64

// Has reports whether name is unlocked, ignoring case.
func (u Unlocks) Has(name string) bool {
	_, ok := u[strings.ToUpper(name)]
	return ok
}

// Names returns the unlocked names in sorted order.
func (u Unlocks) Names() []string {
	names := make([]string, 0, len(u))
	for n := range u {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// ReadGoldberg reads a Goldberg achiev.ini file.
func ReadGoldberg(path string) (Unlocks, error) {
	data, ok, err := fileutil.ReadOptional(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if !ok {
		return nil, errors.Wrapf(ErrNoSaveFile, "%s", path)
	}
	u, err := ParseGoldberg(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return u, nil
}

// ParseGoldberg extracts the unlocked achievements from achiev.ini
// contents: every key of the [Achievements] section whose value is 1.
// Section and key names are matched without regard to case. A file without
// the section has no unlocks.
func ParseGoldberg(data []byte) (Unlocks, error) {
	f, err := ini.LoadSources(ini.LoadOptions{
		Insensitive:             true,
		SkipUnrecognizableLines: true,
	}, data)
	if err != nil {
		return nil, err
	}

	u := make(Unlocks)
	sec, err := f.GetSection(goldbergSection)
	if err != nil {
		return u, nil
	}
	for _, k := range sec.Keys() {
		if strings.TrimSpace(k.Value()) == "1" {
			u[strings.ToUpper(k.Name())] = 0
		}
	}
	return u, nil
}

// FromPlayerAchievements converts Web API achievements into Unlocks,
// keeping the reported unlock times.
func FromPlayerAchievements(achs []steamapi.PlayerAchievement) Unlocks {
	u := make(Unlocks)
	for _, a := range achs {
		if !a.Unlocked() {
			continue
		}
		t := a.UnlockTime
		if t < 0 || t > math.MaxInt32 {
			t = 0
		}
		u[strings.ToUpper(a.APIName)] = t
	}
	return u
}
