package probe

import (
	"context"
	"time"

	"github.com/hamed0406/sitewatch/internal/domain"
)

// Result is the outcome of one reachability check.
//
// ResponseTimeMS is the wall-clock time of the attempt and is set on failure too.
// HTTPStatus is 0 when no status was observed (transport error, relay/task failure).
type Result struct {
	Status         domain.Status
	ResponseTimeMS int64
	HTTPStatus     int
	Reason         string
}

func (r Result) Online() bool { return r.Status == domain.StatusOnline }

// Prober checks a URL. Implementations never fail: any error, timeout or
// non-success signal is reported as OFFLINE.
type Prober interface {
	Probe(ctx context.Context, url string) Result
}

func offline(start time.Time, httpStatus int, reason string) Result {
	return Result{
		Status:         domain.StatusOffline,
		ResponseTimeMS: elapsedMS(start),
		HTTPStatus:     httpStatus,
		Reason:         reason,
	}
}

func elapsedMS(start time.Time) int64 {
	ms := time.Since(start).Milliseconds()
	if ms < 0 {
		return 0
	}
	return ms
}

func statusFor(code int) domain.Status {
	if code >= 200 && code < 300 {
		return domain.StatusOnline
	}
	return domain.StatusOffline
}
