package probe

import (
	"context"
	"testing"
	"time"

	"github.com/hamed0406/sitewatch/internal/domain"
)

// fake prober you can control
type fakeProber struct {
	results []Result
	i       int
}

func (f *fakeProber) Probe(ctx context.Context, target string) Result {
	if f.i >= len(f.results) {
		return Result{Status: domain.StatusOffline, Reason: "no more"}
	}
	r := f.results[f.i]
	f.i++
	return r
}

func TestRetryProber_SucceedsAfterRetry(t *testing.T) {
	f := &fakeProber{
		results: []Result{
			{Status: domain.StatusOffline, ResponseTimeMS: 5, Reason: "first fail"},
			{Status: domain.StatusOnline, ResponseTimeMS: 7, Reason: "ok"},
		},
	}
	rp := &RetryProber{Inner: f, Attempts: 3, Backoff: 10 * time.Millisecond}
	out := rp.Probe(context.Background(), "https://example.com")
	if !out.Online() {
		t.Fatalf("expected ONLINE after retry, got %+v", out)
	}
	if out.ResponseTimeMS < 12 {
		t.Fatalf("latency should include both attempts and the wait, got %d", out.ResponseTimeMS)
	}
	if f.i != 2 {
		t.Fatalf("expected 2 attempts, got %d", f.i)
	}
}

func TestRetryProber_AllFailAnnotates(t *testing.T) {
	f := &fakeProber{
		results: []Result{
			{Status: domain.StatusOffline, Reason: "fail1"},
			{Status: domain.StatusOffline, Reason: "fail2"},
		},
	}
	rp := &RetryProber{Inner: f, Attempts: 2}
	out := rp.Probe(context.Background(), "https://example.com")
	if out.Online() {
		t.Fatalf("expected OFFLINE")
	}
	if out.Reason != "fail2 (after 2 attempts)" {
		t.Fatalf("unexpected reason %q", out.Reason)
	}
}

func TestRetryProber_StopsOnContextCancel(t *testing.T) {
	f := &fakeProber{results: []Result{{Status: domain.StatusOffline}, {Status: domain.StatusOnline}}}
	rp := &RetryProber{Inner: f, Attempts: 2, Backoff: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	out := rp.Probe(ctx, "https://example.com")
	if out.Online() || f.i != 1 {
		t.Fatalf("want a single OFFLINE attempt, got %+v after %d attempts", out, f.i)
	}
}

func TestNew_SelectsStrategy(t *testing.T) {
	p, err := New(Options{Mode: "direct", Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.(*DirectProber); !ok {
		t.Fatalf("want *DirectProber, got %T", p)
	}

	p, err = New(Options{Mode: "RELAY", RelayURL: "https://api.allorigins.win/get", RetryAttempts: 3})
	if err != nil {
		t.Fatal(err)
	}
	rp, ok := p.(*RetryProber)
	if !ok {
		t.Fatalf("want *RetryProber wrapper, got %T", p)
	}
	if _, ok := rp.Inner.(*RelayProber); !ok {
		t.Fatalf("want relay inside retry, got %T", rp.Inner)
	}

	p, err = New(Options{Mode: "task", TaskAPIURL: "https://tasks.example/v1/"})
	if err != nil {
		t.Fatal(err)
	}
	if tp := p.(*TaskProber); tp.BaseURL != "https://tasks.example/v1" {
		t.Fatalf("base url not trimmed: %q", tp.BaseURL)
	}
}

func TestNew_RejectsBadConfig(t *testing.T) {
	for _, o := range []Options{
		{Mode: "carrier-pigeon"},
		{Mode: "relay"},
		{Mode: "task", TaskAPIURL: "ftp://tasks"},
	} {
		if _, err := New(o); err == nil {
			t.Fatalf("expected error for %+v", o)
		}
	}
}

func TestRetryProber_SingleAttemptNoAnnotation(t *testing.T) {
	f := &fakeProber{results: []Result{{Status: domain.StatusOffline, ResponseTimeMS: 3, Reason: "down"}}}
	rp := &RetryProber{Inner: f, Attempts: 1, Backoff: time.Hour}

	start := time.Now()
	out := rp.Probe(context.Background(), "https://example.com")
	if time.Since(start) > time.Second {
		t.Fatal("a single attempt must not wait")
	}
	if out.Online() || out.Reason != "down" || out.ResponseTimeMS != 3 || f.i != 1 {
		t.Fatalf("unexpected result %+v after %d attempts", out, f.i)
	}
}

func TestRetryProber_CancelledWaitAnnotates(t *testing.T) {
	f := &fakeProber{results: []Result{{Status: domain.StatusOffline, Reason: "down"}, {Status: domain.StatusOnline}}}
	rp := &RetryProber{Inner: f, Attempts: 3, Backoff: time.Hour}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	out := rp.Probe(ctx, "https://example.com")
	if out.Reason != "down (gave up after 1/3 attempts)" {
		t.Fatalf("unexpected reason %q", out.Reason)
	}
	if out.ResponseTimeMS < 15 {
		t.Fatalf("latency should include the interrupted wait, got %d", out.ResponseTimeMS)
	}
}
