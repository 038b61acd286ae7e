package achsync

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/slsah/internal/schema"
	"github.com/thoreinstein/slsah/internal/vdf"
)

var (
	// ErrNoStatsFile indicates the user stats file does not exist yet.
	ErrNoStatsFile = errors.New("user stats file not found")

	// ErrAppMissing indicates the stats file has no entry for the app.
	ErrAppMissing = errors.New("app not present in stats file")

	// ErrNoStatsSection indicates the app entry has no Stats map.
	ErrNoStatsSection = errors.New("stats file has no Stats section")
)

const (
	keyStats      = "Stats"
	keyName       = "name"
	keyUnlockTime = "unlock_time"
)

// Apply stamps unlock_time on every entry under <appID>.Stats whose name is
// in unlocks and whose unlock_time is missing or zero. Entries get the time
// recorded in unlocks, or now when that is unknown. It returns the names it
// changed, in file order. tree is modified in place. An existing int64 or
// uint64 unlock_time keeps its type; anything else is written as int32.
func Apply(tree *vdf.Map, appID int64, unlocks Unlocks, now time.Time) ([]string, error) {
	app := tree.Child(strconv.FormatInt(appID, 10))
	if app == nil {
		return nil, errors.Wrapf(ErrAppMissing, "app %d", appID)
	}
	stats := app.Child(keyStats)
	if stats == nil {
		return nil, errors.Wrapf(ErrNoStatsSection, "app %d", appID)
	}

	var changed []string
	for _, e := range stats.Entries() {
		if !e.Value.IsMap() {
			continue
		}
		entry := e.Value.Map()
		name, ok := entry.GetString(keyName)
		if !ok || !unlocks.Has(name) {
			continue
		}
		kind := vdf.KindInt32
		if v, ok := entry.Get(keyUnlockTime); ok {
			if n, isInt := v.Int(); !isInt || n != 0 {
				continue
			}
			kind = v.Kind
		}

		t := now.Unix()
		if known := unlocks[strings.ToUpper(name)]; known > 0 {
			t = known
		}
		entry.Set(keyUnlockTime, unlockTime(kind, t))
		changed = append(changed, name)
	}
	return changed, nil
}

// Result reports one sync.
type Result struct {
	// Unlocked is the number of unlocked achievements in the source.
	Unlocked int
	// Updated lists the entries that received an unlock time.
	Updated []string
}

// Syncer applies unlocks to stats files in a schema.Store.
type Syncer struct {
	store *schema.Store
	now   func() time.Time
}

// NewSyncer returns a Syncer writing through store.
func NewSyncer(store *schema.Store) *Syncer {
	return &Syncer{store: store, now: time.Now}
}

// Sync loads the stats file for steamID and appID, applies unlocks and
// writes the file back only if an entry changed.
func (s *Syncer) Sync(steamID string, appID int64, unlocks Unlocks) (*Result, error) {
	res := &Result{Unlocked: len(unlocks)}
	if len(unlocks) == 0 {
		return res, nil
	}

	tree, err := s.store.LoadStats(steamID, appID)
	if err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, errors.WithHint(
			errors.Wrapf(ErrNoStatsFile, "%s", s.store.StatsPath(steamID, appID)),
			"run the game through Steam once, or generate with a stats template",
		)
	}

	res.Updated, err = Apply(tree, appID, unlocks, s.now())
	if err != nil {
		return nil, err
	}
	if len(res.Updated) == 0 {
		return res, nil
	}
	if err := s.store.SaveStats(steamID, appID, tree); err != nil {
		return nil, errors.Wrap(err, "writing stats file")
	}
	return res, nil
}

func unlockTime(kind vdf.Kind, t int64) vdf.Value {
	switch kind {
	case vdf.KindInt64:
		return vdf.Int64(t)
	case vdf.KindUint64:
		return vdf.Uint64(uint64(max(t, 0)))
	default:
		return vdf.Int32(clampInt32(t))
	}
}

func clampInt32(n int64) int32 {
	if n > math.MaxInt32 {
		return math.MaxInt32
	}
	if n < 0 {
		return 0
	}
	return int32(n)
}
