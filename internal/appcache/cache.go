// Package appcache stores app names and types looked up from the Steam
// store, keyed by AppID, in a JSON file shared with SLSsteam tooling.
package appcache

import (
	"context"
	"encoding/json"
	"path/filepath"
	"slices"
	"strconv"
	"sync"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/slsah/internal/paths"
	"github.com/thoreinstein/slsah/internal/steamapi"
	"github.com/thoreinstein/slsah/pkg/fileutil"
)

// ErrCorrupt indicates the cache file exists but is not a valid cache.
var ErrCorrupt = errors.New("app info cache is corrupt")

// Entry is what the cache knows about one app.
type Entry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Fetcher looks up apps the cache does not know yet.
type Fetcher interface {
	AppDetails(ctx context.Context, appID int64) (*steamapi.AppDetails, error)
}

// Cache is an in-memory copy of the cache file. It is read and written as a
// whole; Save only touches the disk after a change.
type Cache struct {
	path    string
	mu      sync.Mutex
	entries map[string]Entry
	dirty   bool
}

// Open loads the cache at path. A missing file yields an empty cache.
func Open(path string) (*Cache, error) {
	c := &Cache{path: path, entries: make(map[string]Entry)}

	data, ok, err := fileutil.ReadOptional(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading app info cache")
	}
	if !ok || len(data) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "parsing %s", path), ErrCorrupt)
	}
	if c.entries == nil {
		// The file held a JSON null.
		c.entries = make(map[string]Entry)
	}
	return c, nil
}

// Path returns the cache file location.
func (c *Cache) Path() string { return c.path }

// Len returns the number of cached apps.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Get returns the cached entry for appID.
func (c *Cache) Get(appID int64) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key(appID)]
	return e, ok
}

// Name returns the cached name of appID, or "" if it is unknown.
func (c *Cache) Name(appID int64) string {
	e, _ := c.Get(appID)
	return e.Name
}

// Put stores e under appID.
func (c *Cache) Put(appID int64, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.entries[key(appID)]; ok && old == e {
		return
	}
	c.entries[key(appID)] = e
	c.dirty = true
}

// Delete forgets appID. It reports whether the app was cached.
func (c *Cache) Delete(appID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key(appID)]; !ok {
		return false
	}
	delete(c.entries, key(appID))
	c.dirty = true
	return true
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) == 0 {
		return
	}
	c.entries = make(map[string]Entry)
	c.dirty = true
}

// IDs returns every numeric AppID in the cache in ascending order. Keys
// that are not AppIDs are kept in the file but skipped here.
func (c *Cache) IDs() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]int64, 0, len(c.entries))
	for k := range c.entries {
		if id, err := strconv.ParseInt(k, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

// Lookup returns the entry for appID, asking f when it is not cached. The
// bool reports whether f was called and the cache changed.
func (c *Cache) Lookup(ctx context.Context, f Fetcher, appID int64) (Entry, bool, error) {
	if e, ok := c.Get(appID); ok {
		return e, false, nil
	}
	d, err := f.AppDetails(ctx, appID)
	if err != nil {
		return Entry{}, false, err
	}
	e := Entry{Name: d.Name, Type: d.Type}
	c.Put(appID, e)
	return e, true, nil
}

// Dirty reports whether the cache has unsaved changes.
func (c *Cache) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Save writes the cache if it changed since Open or the last Save.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	if err := paths.EnsureDir(filepath.Dir(c.path), 0); err != nil {
		return errors.Wrap(err, "creating cache directory")
	}
	if err := fileutil.AtomicWriteJSON(c.path, c.entries); err != nil {
		return errors.Wrap(err, "writing app info cache")
	}
	c.dirty = false
	return nil
}

func key(appID int64) string {
	return strconv.FormatInt(appID, 10)
}
