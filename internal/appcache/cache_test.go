package appcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/slsah/internal/steamapi"
)

type fakeFetcher struct {
	calls   int
	details map[int64]*steamapi.AppDetails
}

func (f *fakeFetcher) AppDetails(_ context.Context, appID int64) (*steamapi.AppDetails, error) {
	f.calls++
	if d, ok := f.details[appID]; ok {
		return d, nil
	}
	return nil, errors.Wrapf(steamapi.ErrNotFound, "app %d", appID)
}

func TestOpen_Missing(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "nope", "appinfo_cache.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.False(t, c.Dirty())
	require.NoError(t, c.Save())
	assert.NoFileExists(t, c.Path(), "an unchanged cache is not written")
}

func TestOpen_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"truncated", `{"400": {"name": "Portal"`},
		{"wrong shape", `[1, 2, 3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cache.json")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Open(path)
			assert.ErrorIs(t, err, ErrCorrupt)
		})
	}
}

func TestSaveAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "cache.json")
	c, err := Open(path)
	require.NoError(t, err)

	c.Put(400, Entry{Name: "Portal", Type: "game"})
	c.Put(70, Entry{Name: "Half-Life", Type: "game"})
	assert.True(t, c.Dirty())
	require.NoError(t, c.Save())
	assert.False(t, c.Dirty())

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []int64{70, 400}, reopened.IDs())
	assert.Equal(t, "Portal", reopened.Name(400))
	assert.Empty(t, reopened.Name(1))

	assert.True(t, reopened.Delete(70))
	assert.False(t, reopened.Delete(70))
	require.NoError(t, reopened.Save())

	again, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []int64{400}, again.IDs())
}

func TestPut_SameEntryIsNotAChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"400":{"name":"Portal","type":"game"},"note":{"name":"x","type":"y"}}`), 0o644))

	c, err := Open(path)
	require.NoError(t, err)
	c.Put(400, Entry{Name: "Portal", Type: "game"})
	assert.False(t, c.Dirty())
	assert.Equal(t, []int64{400}, c.IDs(), "non-numeric keys are skipped")
	assert.Equal(t, 2, c.Len())
}

func TestLookup(t *testing.T) {
	f := &fakeFetcher{details: map[int64]*steamapi.AppDetails{
		400: {Name: "Portal", Type: "game"},
	}}
	c, err := Open(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)

	e, fetched, err := c.Lookup(context.Background(), f, 400)
	require.NoError(t, err)
	assert.True(t, fetched)
	assert.Equal(t, Entry{Name: "Portal", Type: "game"}, e)

	e, fetched, err = c.Lookup(context.Background(), f, 400)
	require.NoError(t, err)
	assert.False(t, fetched)
	assert.Equal(t, "Portal", e.Name)
	assert.Equal(t, 1, f.calls)

	_, _, err = c.Lookup(context.Background(), f, 9)
	assert.ErrorIs(t, err, steamapi.ErrNotFound)
	assert.Equal(t, 1, c.Len())
}

func TestClear(t *testing.T) {
	c, err := Open(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, err)
	c.Clear()
	assert.False(t, c.Dirty())

	c.Put(1, Entry{Name: "a"})
	require.NoError(t, c.Save())
	c.Clear()
	assert.True(t, c.Dirty())
	assert.Equal(t, 0, c.Len())
}
