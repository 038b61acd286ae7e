package steamapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
)

var (
	// ErrRateLimited marks an HTTP 429 response.
	ErrRateLimited = errors.New("rate limited")

	// ErrNoSchema indicates the app has no achievement schema.
	ErrNoSchema = errors.New("app has no achievement schema")

	// ErrNotFound indicates the store does not know the app.
	ErrNotFound = errors.New("app not found")

	// ErrUnauthorized indicates a rejected or missing API key.
	ErrUnauthorized = errors.New("api key rejected")
)

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	Code int
	// URL is the request URL with credentials masked.
	URL string
	// RetryAfter is the server's Retry-After hint, zero when absent.
	RetryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Unwrap maps well-known status codes onto the package sentinels.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

// Transient reports whether a failed request is worth retrying: network
// errors, 5xx and 429 are, everything else is not.
func Transient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	var de *decodeError
	return !errors.As(err, &de)
}

// decodeError is a response body that could not be decoded. Retrying
// will not fix it.
type decodeError struct {
	url string
	err error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("decoding response from %s: %v", e.url, e.err)
}

func (e *decodeError) Unwrap() error { return e.err }
