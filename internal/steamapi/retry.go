package steamapi

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/cockroachdb/errors"
)

// RetryPolicy decides how often and how long to wait between attempts.
type RetryPolicy interface {
	// Do calls op until it succeeds, fails permanently, or the policy
	// gives up. It returns the last error.
	Do(ctx context.Context, op func(context.Context) error) error
}

// Backoff is an exponential RetryPolicy.
type Backoff struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// Base is the wait before the first retry.
	Base time.Duration
	// Factor multiplies the wait after every retry.
	Factor float64
	// Ceiling caps the wait after a transient failure.
	Ceiling time.Duration
	// RateLimitCeiling caps the wait after HTTP 429.
	RateLimitCeiling time.Duration
	// Notify, if set, is called before every wait.
	Notify func(err error, wait time.Duration)
}

// DefaultRetryPolicy returns 3 retries starting at 2s, doubling up to 30s
// (60s when rate limited).
func DefaultRetryPolicy() *Backoff {
	return &Backoff{
		MaxRetries:       3,
		Base:             2 * time.Second,
		Factor:           2,
		Ceiling:          30 * time.Second,
		RateLimitCeiling: 60 * time.Second,
	}
}

// NoRetry fails on the first error.
type NoRetry struct{}

// Do calls op once.
func (NoRetry) Do(ctx context.Context, op func(context.Context) error) error {
	return op(ctx)
}

// Do implements RetryPolicy.
func (p *Backoff) Do(ctx context.Context, op func(context.Context) error) error {
	var last error
	b := &classifiedBackOff{policy: p, last: &last}
	b.Reset()

	var policy backoff.BackOff = backoff.WithMaxRetries(b, uint64(max(p.MaxRetries, 0)))
	policy = backoff.WithContext(policy, ctx)

	err := backoff.RetryNotify(func() error {
		last = op(ctx)
		if last != nil && !Transient(last) {
			return backoff.Permanent(last)
		}
		return last
	}, policy, p.Notify)
	if err != nil && Transient(err) && p.MaxRetries > 0 {
		return errors.Wrapf(err, "giving up after %d retries", p.MaxRetries)
	}
	return err
}

// classifiedBackOff picks the wait from the error that caused it: rate
// limits grow faster and have their own ceiling, and a Retry-After hint is
// honored up to that ceiling.
type classifiedBackOff struct {
	policy  *Backoff
	last    *error
	exp     *backoff.ExponentialBackOff
	retries int
}

func (b *classifiedBackOff) Reset() {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = b.policy.Base
	exp.Multiplier = b.policy.Factor
	exp.MaxInterval = b.policy.Ceiling
	exp.RandomizationFactor = 0
	exp.MaxElapsedTime = 0
	exp.Reset()
	b.exp = exp
	b.retries = 0
}

func (b *classifiedBackOff) NextBackOff() time.Duration {
	b.retries++
	next := b.exp.NextBackOff()

	var se *StatusError
	if !errors.As(*b.last, &se) || !errors.Is(se, ErrRateLimited) {
		return next
	}
	wait := time.Duration(float64(b.policy.Base) * math.Pow(b.policy.Factor, float64(b.retries)))
	if se.RetryAfter > wait {
		wait = se.RetryAfter
	}
	return min(wait, b.policy.RateLimitCeiling)
}
