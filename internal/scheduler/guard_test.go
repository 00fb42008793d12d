package scheduler

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/hamed0406/sitewatch/internal/domain"
)

func TestInFlight_AcquireRelease(t *testing.T) {
	g := NewInFlight()
	if !g.TryAcquire(1) {
		t.Fatal("first acquire should succeed")
	}
	if g.TryAcquire(1) {
		t.Fatal("second acquire should fail")
	}
	if !g.TryAcquire(2) {
		t.Fatal("other ids are independent")
	}
	g.Release(1)
	if !g.TryAcquire(1) {
		t.Fatal("acquire after release should succeed")
	}
	if g.Len() != 2 {
		t.Fatalf("Len = %d", g.Len())
	}
}

func TestInFlight_ConcurrentSingleWinner(t *testing.T) {
	g := NewInFlight()
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire(domain.SiteID(7)) {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	if wins.Load() != 1 {
		t.Fatalf("want exactly one winner, got %d", wins.Load())
	}
}
