package steamapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/slsah/internal/doctor"
	"github.com/thoreinstein/slsah/internal/logging"
)

const (
	// DefaultBaseURL is the Steam Web API root.
	DefaultBaseURL = "https://api.steampowered.com"
	// DefaultStoreURL is the Steam store API root.
	DefaultStoreURL = "https://store.steampowered.com/api"
	// UserAgent is sent with every request.
	UserAgent = "slsah/1"

	defaultTimeout = 30 * time.Second
	maxBodySize    = 16 << 20
)

// Client talks to the Steam Web API.
type Client struct {
	apiKey   string
	http     *http.Client
	baseURL  string
	storeURL string
	retry    RetryPolicy
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithBaseURL points the Web API calls at another host.
func WithBaseURL(u string) Option {
	return func(cl *Client) { cl.baseURL = strings.TrimRight(u, "/") }
}

// WithStoreURL points the store calls at another host.
func WithStoreURL(u string) Option {
	return func(cl *Client) { cl.storeURL = strings.TrimRight(u, "/") }
}

// WithRetryPolicy replaces DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(cl *Client) { cl.retry = p }
}

// New returns a Client authenticating with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:   apiKey,
		http:     &http.Client{Timeout: defaultTimeout},
		baseURL:  DefaultBaseURL,
		storeURL: DefaultStoreURL,
		retry:    DefaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetSchemaForGame fetches the achievement schema of appID with texts in
// language. Apps without achievements yield ErrNoSchema.
func (c *Client) GetSchemaForGame(ctx context.Context, appID int64, language string) (*GameInfo, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("appid", strconv.FormatInt(appID, 10))
	if language != "" {
		q.Set("l", language)
	}

	var resp schemaResponse
	if err := c.get(ctx, c.baseURL+"/ISteamUserStats/GetSchemaForGame/v2/", q, &resp); err != nil {
		return nil, errors.Wrapf(err, "fetching schema for app %d", appID)
	}

	g := resp.Game
	if g.GameName == "" && len(g.AvailableGameStats.Achievements) == 0 {
		return nil, errors.Wrapf(ErrNoSchema, "app %d", appID)
	}
	return g.info(), nil
}

// GetPlayerAchievements fetches the unlock state of every achievement of
// appID for the player steamID64.
func (c *Client) GetPlayerAchievements(ctx context.Context, steamID64 uint64, appID int64) ([]PlayerAchievement, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("steamid", strconv.FormatUint(steamID64, 10))
	q.Set("appid", strconv.FormatInt(appID, 10))

	var resp playerStatsResponse
	if err := c.get(ctx, c.baseURL+"/ISteamUserStats/GetPlayerAchievements/v1/", q, &resp); err != nil {
		// The endpoint answers 400 for apps without stats.
		var se *StatusError
		if errors.As(err, &se) && se.Code == http.StatusBadRequest {
			return nil, errors.Wrapf(ErrNoSchema, "app %d", appID)
		}
		return nil, errors.Wrapf(err, "fetching achievements for app %d", appID)
	}
	if !resp.PlayerStats.Success {
		msg := resp.PlayerStats.Error
		if msg == "" {
			msg = "request unsuccessful"
		}
		return nil, errors.Newf("fetching achievements for app %d: %s", appID, msg)
	}
	return resp.PlayerStats.Achievements, nil
}

// AppDetails looks an app up in the store. Unknown apps yield ErrNotFound.
func (c *Client) AppDetails(ctx context.Context, appID int64) (*AppDetails, error) {
	id := strconv.FormatInt(appID, 10)
	q := url.Values{}
	q.Set("appids", id)

	var resp map[string]appDetailsEnvelope
	if err := c.get(ctx, c.storeURL+"/appdetails", q, &resp); err != nil {
		return nil, errors.Wrapf(err, "fetching details for app %d", appID)
	}
	env, ok := resp[id]
	if !ok || !env.Success {
		return nil, errors.Wrapf(ErrNotFound, "app %d", appID)
	}
	d := env.Data
	if d.Name == "" {
		d.Name = "Unknown Name"
	}
	if d.Type == "" {
		d.Type = "unknown"
	}
	return &d, nil
}

func (c *Client) get(ctx context.Context, endpoint string, q url.Values, out any) error {
	u := endpoint + "?" + q.Encode()
	masked := doctor.MaskURL(u)
	logger := logging.FromContext(ctx)

	return c.retry.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return &decodeError{url: masked, err: err}
		}
		req.Header.Set("User-Agent", UserAgent)
		req.Header.Set("Accept", "application/json")

		start := time.Now()
		resp, err := c.http.Do(req)
		if err != nil {
			logger.Debug("steam api request failed", "url", masked, "error", err)
			// url.Error embeds the raw URL, key included.
			var ue *url.Error
			if errors.As(err, &ue) {
				return errors.Wrapf(ue.Err, "GET %s", masked)
			}
			return err
		}
		defer resp.Body.Close()
		logger.Debug("steam api request", "url", masked, "status", resp.StatusCode, "duration", time.Since(start))

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
			return &StatusError{
				Code:       resp.StatusCode,
				URL:        masked,
				RetryAfter: retryAfter(resp.Header.Get("Retry-After")),
			}
		}

		if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(out); err != nil {
			return &decodeError{url: masked, err: err}
		}
		return nil
	})
}

// retryAfter parses the delay-seconds form of Retry-After.
func retryAfter(v string) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0
	}
	return time.Duration(n) * time.Second
}
