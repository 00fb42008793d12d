package probe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

var errStillOffline = errors.New("still offline")

// RetryProber re-runs Inner while it reports OFFLINE, waiting Backoff between
// attempts. The returned latency covers every attempt and the waits between them.
type RetryProber struct {
	Inner    Prober
	Attempts int
	Backoff  time.Duration
}

func (r *RetryProber) Probe(ctx context.Context, target string) Result {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var (
		last    Result
		total   int64
		tries   int
		lastEnd time.Time
	)
	op := func() error {
		if tries > 0 {
			total += elapsedMS(lastEnd)
		}
		tries++
		last = r.Inner.Probe(ctx, target)
		total += last.ResponseTimeMS
		lastEnd = time.Now()
		if last.Online() {
			return nil
		}
		return errStillOffline
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.Backoff), uint64(attempts-1)),
		ctx,
	)

	err := backoff.Retry(op, policy)
	if err != nil && !errors.Is(err, errStillOffline) && tries < attempts {
		// context ended before the attempts ran out
		total += elapsedMS(lastEnd)
		last.ResponseTimeMS = total
		last.Reason = fmt.Sprintf("%s (gave up after %d/%d attempts)", last.Reason, tries, attempts)
		return last
	}
	last.ResponseTimeMS = total
	if err != nil && attempts > 1 {
		last.Reason = fmt.Sprintf("%s (after %d attempts)", last.Reason, tries)
	}
	return last
}
