package repo_test

import (
	"context"
	"testing"

	"github.com/hamed0406/sitewatch/internal/domain"
	"github.com/hamed0406/sitewatch/internal/repo"
	"github.com/hamed0406/sitewatch/internal/repo/memory"
	pg "github.com/hamed0406/sitewatch/internal/repo/postgres"
	"github.com/hamed0406/sitewatch/internal/repo/sqlite"
)

// Compile-time interface satisfaction checks.
// Using external test package avoids import cycle.
func TestInterfaceSatisfaction(t *testing.T) {
	var _ repo.Store = memory.New()
	var _ repo.Store = (*pg.Store)(nil)
	var _ repo.Store = (*sqlite.Store)(nil)
}

func TestAdminEmails_SkipsBlank(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	for _, a := range []*domain.AdministratorContact{
		{Name: "Ana", Email: "ana@example.com"},
		{Name: "No mail"},
		{Name: "Bo", Email: "bo@example.com"},
	} {
		if err := s.CreateAdmin(ctx, a); err != nil {
			t.Fatal(err)
		}
	}
	emails, err := repo.AdminEmails(ctx, s)
	if err != nil {
		t.Fatal(err)
	}
	if len(emails) != 2 || emails[0] != "ana@example.com" || emails[1] != "bo@example.com" {
		t.Fatalf("unexpected emails: %v", emails)
	}
}
