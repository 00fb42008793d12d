package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hamed0406/sitewatch/internal/domain"
	"github.com/hamed0406/sitewatch/internal/repo"
)

type Store struct {
	mu       sync.RWMutex
	sites    map[domain.SiteID]*domain.MonitoredSite
	admins   map[domain.AdminID]*domain.AdministratorContact
	nextSite domain.SiteID
	nextAdm  domain.AdminID
}

func New() *Store {
	return &Store{
		sites:  make(map[domain.SiteID]*domain.MonitoredSite),
		admins: make(map[domain.AdminID]*domain.AdministratorContact),
	}
}

func (m *Store) Close() error { return nil }

// ---- SiteStore ----

func (m *Store) CreateSite(ctx context.Context, s *domain.MonitoredSite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSite++
	s.ID = m.nextSite
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	cp := s.Clone()
	m.sites[s.ID] = &cp
	return nil
}

// ListSites returns copies ordered by id (insertion order).
func (m *Store) ListSites(ctx context.Context) ([]domain.MonitoredSite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.MonitoredSite, 0, len(m.sites))
	for _, s := range m.sites {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Store) GetSite(ctx context.Context, id domain.SiteID) (*domain.MonitoredSite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sites[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := s.Clone()
	return &cp, nil
}

func (m *Store) UpdateSite(ctx context.Context, id domain.SiteID, u domain.SiteUpdate) (*domain.MonitoredSite, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sites[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	u.Apply(s)
	cp := s.Clone()
	return &cp, nil
}

func (m *Store) DeleteSite(ctx context.Context, id domain.SiteID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sites[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.sites, id)
	return nil
}

// ---- AdminStore ----

func (m *Store) CreateAdmin(ctx context.Context, a *domain.AdministratorContact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextAdm++
	a.ID = m.nextAdm
	cp := *a
	m.admins[a.ID] = &cp
	return nil
}

func (m *Store) ListAdmins(ctx context.Context) ([]domain.AdministratorContact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.AdministratorContact, 0, len(m.admins))
	for _, a := range m.admins {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Store) GetAdmin(ctx context.Context, id domain.AdminID) (*domain.AdministratorContact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.admins[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *Store) UpdateAdmin(ctx context.Context, a *domain.AdministratorContact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.admins[a.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *a
	m.admins[a.ID] = &cp
	return nil
}

func (m *Store) DeleteAdmin(ctx context.Context, id domain.AdminID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.admins[id]; !ok {
		return repo.ErrNotFound
	}
	delete(m.admins, id)
	return nil
}
