package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/hamed0406/sitewatch/internal/domain"
	"github.com/hamed0406/sitewatch/internal/repo"
)

func TestMemoryStore_CreateAndListSites(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, name := range []string{"a", "b", "c"} {
		site := &domain.MonitoredSite{Name: name, URL: "https://" + name + ".example", Status: domain.StatusOnline}
		if err := s.CreateSite(ctx, site); err != nil {
			t.Fatalf("CreateSite: %v", err)
		}
		if site.ID == 0 || site.CreatedAt.IsZero() {
			t.Fatalf("expected id and created_at to be set: %+v", site)
		}
	}

	all, err := s.ListSites(ctx)
	if err != nil {
		t.Fatalf("ListSites: %v", err)
	}
	if len(all) != 3 || all[0].Name != "a" || all[2].Name != "c" {
		t.Fatalf("expected insertion order, got %+v", all)
	}
}

func TestMemoryStore_UpdateSitePartial(t *testing.T) {
	ctx := context.Background()
	s := New()
	site := &domain.MonitoredSite{Name: "shop", URL: "https://shop.example", Status: domain.StatusOnline, Keywords: []string{"retail"}}
	if err := s.CreateSite(ctx, site); err != nil {
		t.Fatal(err)
	}

	off := domain.StatusOffline
	rt := int64(321)
	got, err := s.UpdateSite(ctx, site.ID, domain.SiteUpdate{Status: &off, ResponseTimeMS: &rt})
	if err != nil {
		t.Fatalf("UpdateSite: %v", err)
	}
	if got.Status != domain.StatusOffline || got.ResponseTimeMS == nil || *got.ResponseTimeMS != 321 {
		t.Fatalf("update not applied: %+v", got)
	}
	if got.Name != "shop" || len(got.Keywords) != 1 {
		t.Fatalf("untouched fields changed: %+v", got)
	}

	// returned copies must not alias the stored row
	got.Keywords[0] = "mutated"
	again, _ := s.GetSite(ctx, site.ID)
	if again.Keywords[0] != "retail" {
		t.Fatalf("store leaked internal slice")
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.GetSite(ctx, 42); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("GetSite: want ErrNotFound, got %v", err)
	}
	if _, err := s.UpdateSite(ctx, 42, domain.SiteUpdate{}); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("UpdateSite: want ErrNotFound, got %v", err)
	}
	if err := s.DeleteSite(ctx, 42); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("DeleteSite: want ErrNotFound, got %v", err)
	}
	if err := s.UpdateAdmin(ctx, &domain.AdministratorContact{ID: 9}); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("UpdateAdmin: want ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_AdminsCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()
	a := &domain.AdministratorContact{Name: "Ana", Email: "ana@example.com"}
	if err := s.CreateAdmin(ctx, a); err != nil {
		t.Fatal(err)
	}
	a.Email = "ana@corp.example"
	if err := s.UpdateAdmin(ctx, a); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetAdmin(ctx, a.ID)
	if err != nil || got.Email != "ana@corp.example" {
		t.Fatalf("GetAdmin: %+v %v", got, err)
	}
	if err := s.DeleteAdmin(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	all, _ := s.ListAdmins(ctx)
	if len(all) != 0 {
		t.Fatalf("expected no admins, got %d", len(all))
	}
}
