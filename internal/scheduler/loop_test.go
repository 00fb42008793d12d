package scheduler

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/domain"
)

func TestLoop_DisabledReturnsImmediately(t *testing.T) {
	f := newFixture(t, Config{})
	l := NewLoop(zap.NewNop(), f.checker, 0)

	done := make(chan struct{})
	go func() { l.Run(context.Background()); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled loop should return")
	}
}

func TestLoop_ImmediatePassThenStops(t *testing.T) {
	f := newFixture(t, Config{})
	f.addSite(t, "a", domain.StatusOnline, false)
	l := NewLoop(zap.NewNop(), f.checker, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { l.Run(ctx); close(done) }()

	deadline := time.Now().Add(time.Second)
	for {
		f.prober.mu.Lock()
		n := len(f.prober.calls)
		f.prober.mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("expected an immediate cycle")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("loop did not stop on cancel")
	}
}
