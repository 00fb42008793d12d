package scheduler

import (
	"sync"

	"github.com/hamed0406/sitewatch/internal/domain"
)

// InFlight tracks sites whose offline notification is currently being sent.
// It only de-duplicates within one process; overlapping cycles that both
// observe the same transition before either acquires may still both notify.
type InFlight struct {
	mu    sync.Mutex
	sites map[domain.SiteID]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{sites: make(map[domain.SiteID]struct{})}
}

// TryAcquire marks id as in flight. It returns false if it already was.
func (g *InFlight) TryAcquire(id domain.SiteID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.sites[id]; busy {
		return false
	}
	g.sites[id] = struct{}{}
	return true
}

func (g *InFlight) Release(id domain.SiteID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sites, id)
}

func (g *InFlight) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sites)
}
