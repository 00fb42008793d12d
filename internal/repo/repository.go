package repo

import (
	"context"
	"errors"

	"github.com/hamed0406/sitewatch/internal/domain"
)

// ErrNotFound is returned when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// Ports implemented by the memory, postgres and sqlite adapters.
type SiteStore interface {
	ListSites(ctx context.Context) ([]domain.MonitoredSite, error)
	GetSite(ctx context.Context, id domain.SiteID) (*domain.MonitoredSite, error)
	CreateSite(ctx context.Context, s *domain.MonitoredSite) error
	// UpdateSite applies the non-nil fields of u and returns the stored row.
	UpdateSite(ctx context.Context, id domain.SiteID, u domain.SiteUpdate) (*domain.MonitoredSite, error)
	DeleteSite(ctx context.Context, id domain.SiteID) error
}

type AdminStore interface {
	ListAdmins(ctx context.Context) ([]domain.AdministratorContact, error)
	GetAdmin(ctx context.Context, id domain.AdminID) (*domain.AdministratorContact, error)
	CreateAdmin(ctx context.Context, a *domain.AdministratorContact) error
	UpdateAdmin(ctx context.Context, a *domain.AdministratorContact) error
	DeleteAdmin(ctx context.Context, id domain.AdminID) error
}

// Store is what cmd/api wires: one backend serving both ports.
type Store interface {
	SiteStore
	AdminStore
	Close() error
}

// AdminEmails lists the non-empty addresses of all administrators.
func AdminEmails(ctx context.Context, s AdminStore) ([]string, error) {
	admins, err := s.ListAdmins(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(admins))
	for _, a := range admins {
		if a.Email != "" {
			out = append(out, a.Email)
		}
	}
	return out, nil
}
