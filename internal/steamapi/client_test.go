package steamapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/slsah/internal/schema"
)

const testKey = "0123456789ABCDEF0123456789ABCDEF"

func fastRetry() *Backoff {
	return &Backoff{
		MaxRetries:       3,
		Base:             time.Millisecond,
		Factor:           2,
		Ceiling:          4 * time.Millisecond,
		RateLimitCeiling: 8 * time.Millisecond,
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	c := New(testKey,
		WithBaseURL(srv.URL),
		WithStoreURL(srv.URL+"/api"),
		WithHTTPClient(srv.Client()),
		WithRetryPolicy(fastRetry()),
	)
	return c, &calls
}

const schemaBody = `{"game":{"gameName":"Portal","gameVersion":"12","availableGameStats":{"achievements":[
 {"name":"ACH_WAKE","defaultvalue":0,"displayName":"Wake Up","hidden":0,"description":"Wake up.","icon":"https://cdn/a/wake.jpg","icongray":"https://cdn/a/wake_g.jpg"},
 {"name":"ACH_SECRET","defaultvalue":0,"displayName":"Secret","hidden":1,"icon":"https://cdn/a/s.jpg","icongray":"https://cdn/a/s_g.jpg"}
]}}}`

func TestGetSchemaForGame(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ISteamUserStats/GetSchemaForGame/v2/", r.URL.Path)
		assert.Equal(t, testKey, r.URL.Query().Get("key"))
		assert.Equal(t, "400", r.URL.Query().Get("appid"))
		assert.Equal(t, "german", r.URL.Query().Get("l"))
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(schemaBody))
	})

	info, err := c.GetSchemaForGame(context.Background(), 400, "german")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	want := &GameInfo{
		Name:    "Portal",
		Version: 12,
		Achievements: []schema.AchievementRecord{
			{APIName: "ACH_WAKE", DisplayName: "Wake Up", Description: "Wake up.", IconURL: "https://cdn/a/wake.jpg", IconGrayURL: "https://cdn/a/wake_g.jpg"},
			{APIName: "ACH_SECRET", DisplayName: "Secret", Hidden: true, IconURL: "https://cdn/a/s.jpg", IconGrayURL: "https://cdn/a/s_g.jpg"},
		},
	}
	if diff := cmp.Diff(want, info); diff != "" {
		t.Errorf("GetSchemaForGame() mismatch (-want +got):\n%s", diff)
	}
}

func TestGetSchemaForGame_NumericVersion(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"game":{"gameName":"X","gameVersion":7}}`))
	})

	info, err := c.GetSchemaForGame(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, uint32(7), info.Version)
	assert.Empty(t, info.Achievements)
}

func TestGetSchemaForGame_NoSchema(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"game":{}}`))
	})

	_, err := c.GetSchemaForGame(context.Background(), 1, "english")
	assert.ErrorIs(t, err, ErrNoSchema)
}

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []int
		wantCalls int32
		wantErr   error
	}{
		{name: "recovers after 5xx", statuses: []int{500, 502, 200}, wantCalls: 3},
		{name: "recovers after 429", statuses: []int{429, 200}, wantCalls: 2},
		{name: "gives up after max retries", statuses: []int{503, 503, 503, 503, 503}, wantCalls: 4},
		{name: "forbidden is permanent", statuses: []int{403, 200}, wantCalls: 1, wantErr: ErrUnauthorized},
		{name: "not found is permanent", statuses: []int{404, 200}, wantCalls: 1, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n atomic.Int32
			c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				i := int(n.Add(1)) - 1
				if code := tt.statuses[min(i, len(tt.statuses)-1)]; code != 200 {
					w.WriteHeader(code)
					return
				}
				_, _ = w.Write([]byte(schemaBody))
			})

			_, err := c.GetSchemaForGame(context.Background(), 400, "english")
			assert.Equal(t, tt.wantCalls, calls.Load())

			last := tt.statuses[min(int(tt.wantCalls)-1, len(tt.statuses)-1)]
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case last != 200:
				var se *StatusError
				require.True(t, errors.As(err, &se), "want StatusError, got %v", err)
				assert.Equal(t, last, se.Code)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestErrorsMaskAPIKey(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := c.GetSchemaForGame(context.Background(), 400, "english")
	require.Error(t, err)
	assert.NotContains(t, err.Error(), testKey)
	assert.Contains(t, err.Error(), "CDEF")
}

func TestDecodeErrorIsPermanent(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := c.GetSchemaForGame(context.Background(), 400, "english")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.False(t, Transient(err))
}

func TestGetPlayerAchievements(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ISteamUserStats/GetPlayerAchievements/v1/", r.URL.Path)
		assert.Equal(t, "76561197960287930", r.URL.Query().Get("steamid"))
		_, _ = w.Write([]byte(`{"playerstats":{"gameName":"Portal","success":true,"achievements":[
			{"apiname":"ACH_WAKE","achieved":1,"unlocktime":1700000000},
			{"apiname":"ACH_SECRET","achieved":0,"unlocktime":0}]}}`))
	})

	got, err := c.GetPlayerAchievements(context.Background(), 76561197960287930, 400)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Unlocked())
	assert.Equal(t, int64(1700000000), got[0].UnlockTime)
	assert.False(t, got[1].Unlocked())
}

func TestGetPlayerAchievements_NoStats(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"playerstats":{"error":"Requested app has no stats","success":false}}`))
	})

	_, err := c.GetPlayerAchievements(context.Background(), 76561197960287930, 1)
	assert.ErrorIs(t, err, ErrNoSchema)
	assert.Equal(t, int32(1), calls.Load())
}

func TestAppDetails(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/appdetails", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("key"))
		switch r.URL.Query().Get("appids") {
		case "400":
			_, _ = w.Write([]byte(`{"400":{"success":true,"data":{"type":"game","name":"Portal","steam_appid":400}}}`))
		case "401":
			_, _ = w.Write([]byte(`{"401":{"success":true,"data":{}}}`))
		default:
			_, _ = w.Write([]byte(`{"9":{"success":false}}`))
		}
	})

	got, err := c.AppDetails(context.Background(), 400)
	require.NoError(t, err)
	assert.Equal(t, &AppDetails{Name: "Portal", Type: "game"}, got)

	got, err = c.AppDetails(context.Background(), 401)
	require.NoError(t, err)
	assert.Equal(t, &AppDetails{Name: "Unknown Name", Type: "unknown"}, got)

	_, err = c.AppDetails(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContextCancelStopsRetries(t *testing.T) {
	c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	c.retry = &Backoff{MaxRetries: 5, Base: time.Hour, Factor: 2, Ceiling: time.Hour, RateLimitCeiling: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.GetSchemaForGame(ctx, 400, "english")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
