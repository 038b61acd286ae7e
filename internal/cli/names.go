package cli

import (
	"context"

	"github.com/thoreinstein/slsah/internal/appcache"
	"github.com/thoreinstein/slsah/internal/logging"
)

// AppNames returns display names for ids from the app info cache. When f
// is non-nil, apps the cache lacks are looked up through it and the cache
// is saved. A failed lookup leaves that name empty.
func (e *Env) AppNames(ctx context.Context, ids []int64, f appcache.Fetcher) (map[int64]string, error) {
	c, err := e.AppCache()
	if err != nil {
		return nil, err
	}

	logger := logging.FromContext(ctx)
	names := make(map[int64]string, len(ids))
	for _, id := range ids {
		if f == nil {
			names[id] = c.Name(id)
			continue
		}
		entry, fetched, err := c.Lookup(ctx, f, id)
		if err != nil {
			if ctx.Err() != nil {
				return names, ctx.Err()
			}
			logger.Warn("app name lookup failed", "app_id", id, "error", err)
			continue
		}
		if fetched {
			logger.Debug("cached app name", "app_id", id, "name", entry.Name)
		}
		names[id] = entry.Name
	}

	if err := c.Save(); err != nil {
		return names, err
	}
	return names, nil
}
