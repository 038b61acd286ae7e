package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/slsah/internal/appcache"
	"github.com/thoreinstein/slsah/internal/errors"
	"github.com/thoreinstein/slsah/internal/logging"
	"github.com/thoreinstein/slsah/internal/steamapi"
)

type fakeStore map[int64]string

func (f fakeStore) AppDetails(_ context.Context, appID int64) (*steamapi.AppDetails, error) {
	name, ok := f[appID]
	if !ok {
		return nil, errors.Wrapf(steamapi.ErrNotFound, "app %d", appID)
	}
	return &steamapi.AppDetails{Name: name, Type: "game"}, nil
}

func TestAppNames(t *testing.T) {
	env := testEnv(t)
	ctx := logging.NewContext(context.Background(), logging.ForTest(t))

	names, err := env.AppNames(ctx, []int64{620}, nil)
	require.NoError(t, err)
	assert.Equal(t, "", names[620])

	names, err = env.AppNames(ctx, []int64{620, 999}, fakeStore{620: "Portal 2"})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{620: "Portal 2"}, names)

	c, err := appcache.Open(env.Config.CacheFile)
	require.NoError(t, err)
	assert.Equal(t, appcache.Entry{Name: "Portal 2", Type: "game"}, mustGet(t, c, 620))

	// Cached names are served without fetching.
	names, err = env.AppNames(ctx, []int64{620}, fakeStore{})
	require.NoError(t, err)
	assert.Equal(t, "Portal 2", names[620])
}

func mustGet(t *testing.T, c *appcache.Cache, id int64) appcache.Entry {
	t.Helper()
	e, ok := c.Get(id)
	require.True(t, ok)
	return e
}
