package steamapi

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedBackOff(t *testing.T) {
	var last error
	b := &classifiedBackOff{policy: DefaultRetryPolicy(), last: &last}
	b.Reset()

	last = &StatusError{Code: http.StatusBadGateway}
	assert.Equal(t, 2*time.Second, b.NextBackOff())
	assert.Equal(t, 4*time.Second, b.NextBackOff())

	last = &StatusError{Code: http.StatusTooManyRequests}
	assert.Equal(t, 16*time.Second, b.NextBackOff(), "rate limits back off one step further")

	last = &StatusError{Code: http.StatusTooManyRequests, RetryAfter: 45 * time.Second}
	assert.Equal(t, 45*time.Second, b.NextBackOff())

	last = &StatusError{Code: http.StatusTooManyRequests, RetryAfter: 10 * time.Minute}
	assert.Equal(t, 60*time.Second, b.NextBackOff())

	last = errors.New("connection reset")
	assert.Equal(t, 30*time.Second, b.NextBackOff(), "transient waits are capped")
}

func TestBackoffDo(t *testing.T) {
	p := fastRetry()
	var waits []time.Duration
	p.Notify = func(_ error, d time.Duration) { waits = append(waits, d) }

	attempts := 0
	err := p.Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, waits)
}

func TestBackoffDo_Permanent(t *testing.T) {
	attempts := 0
	want := &StatusError{Code: http.StatusBadRequest}
	err := fastRetry().Do(context.Background(), func(context.Context) error {
		attempts++
		return want
	})
	assert.Equal(t, 1, attempts)
	assert.Same(t, want, err)
}

func TestNoRetry(t *testing.T) {
	attempts := 0
	err := NoRetry{}.Do(context.Background(), func(context.Context) error {
		attempts++
		return errors.New("boom")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"network", errors.New("dial tcp: refused"), true},
		{"server error", &StatusError{Code: 500}, true},
		{"rate limited", &StatusError{Code: 429}, true},
		{"bad request", &StatusError{Code: 400}, false},
		{"wrapped unauthorized", errors.Wrap(&StatusError{Code: 401}, "ctx"), false},
		{"canceled", context.Canceled, false},
		{"decode", &decodeError{url: "u", err: errors.New("eof")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Transient(tt.err))
		})
	}
}
