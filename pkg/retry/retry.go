package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrBudgetExhausted is returned once the attempt budget has been spent
// without the operation succeeding.
var ErrBudgetExhausted = errors.New("retry budget exhausted")

// Opts bounds a retry loop: capped exponential delay between attempts, a
// maximum number of attempts and a maximum overall elapsed time.
type Opts struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	MaxAttempts  uint64
	MaxElapsed   time.Duration
}

// Permanent marks an error as non-retryable: the loop stops immediately and
// returns it as-is.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op with capped exponential backoff until it succeeds, returns a
// permanent error, the context is cancelled, or the budget is exhausted.
// Budget exhaustion is reported as ErrBudgetExhausted wrapping the last
// attempt's error.
func Do(ctx context.Context, opts Opts, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = opts.InitialDelay
	b.MaxInterval = opts.MaxDelay
	b.Multiplier = opts.Multiplier
	b.MaxElapsedTime = opts.MaxElapsed
	b.RandomizationFactor = 0

	var policy backoff.BackOff = backoff.WithContext(b, ctx)
	if opts.MaxAttempts > 0 {
		policy = backoff.WithMaxRetries(policy, opts.MaxAttempts-1)
	}

	var lastErr error
	err := backoff.Retry(func() error {
		lastErr = op()
		return lastErr
	}, policy)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var perm *backoff.PermanentError
	if errors.As(lastErr, &perm) {
		return perm.Err
	}
	return errors.Join(ErrBudgetExhausted, lastErr)
}
