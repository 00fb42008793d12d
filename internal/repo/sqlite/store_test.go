package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/sitewatch/internal/domain"
	"github.com/hamed0406/sitewatch/internal/repo"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(context.Background(), filepath.Join(t.TempDir(), "sitewatch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestStore_SiteRoundTrip(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	site := &domain.MonitoredSite{Name: "Acme", URL: "https://acme.test", Status: domain.StatusOnline, Keywords: []string{"retail", "eu"}}
	require.NoError(t, st.CreateSite(ctx, site))
	assert.EqualValues(t, 1, site.ID)

	got, err := st.GetSite(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, []string{"retail", "eu"}, got.Keywords)
	assert.Nil(t, got.ResponseTimeMS)
	assert.False(t, got.Notified)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStore_UpdateSitePartial(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	site := &domain.MonitoredSite{Name: "Acme", URL: "https://acme.test", Status: domain.StatusOnline}
	require.NoError(t, st.CreateSite(ctx, site))

	off := domain.StatusOffline
	rt := int64(-1)
	notified := true
	got, err := st.UpdateSite(ctx, site.ID, domain.SiteUpdate{Status: &off, ResponseTimeMS: &rt, Notified: &notified})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOffline, got.Status)
	require.NotNil(t, got.ResponseTimeMS)
	assert.EqualValues(t, -1, *got.ResponseTimeMS)
	assert.True(t, got.Notified)
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "https://acme.test", got.URL)

	_, err = st.UpdateSite(ctx, 999, domain.SiteUpdate{Status: &off})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestStore_ListOrderAndDelete(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	for _, n := range []string{"a", "b", "c"} {
		require.NoError(t, st.CreateSite(ctx, &domain.MonitoredSite{Name: n, URL: "https://" + n + ".test", Status: domain.StatusOnline}))
	}
	require.NoError(t, st.DeleteSite(ctx, 2))
	assert.ErrorIs(t, st.DeleteSite(ctx, 2), repo.ErrNotFound)

	sites, err := st.ListSites(ctx)
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "a", sites[0].Name)
	assert.Equal(t, "c", sites[1].Name)
}

func TestStore_Admins(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	a := &domain.AdministratorContact{Name: "Ops", Email: "ops@example.com"}
	require.NoError(t, st.CreateAdmin(ctx, a))
	require.NoError(t, st.CreateAdmin(ctx, &domain.AdministratorContact{Name: "NoMail"}))

	emails, err := repo.AdminEmails(ctx, st)
	require.NoError(t, err)
	assert.Equal(t, []string{"ops@example.com"}, emails)

	a.Phone = "+100"
	require.NoError(t, st.UpdateAdmin(ctx, a))
	got, err := st.GetAdmin(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "+100", got.Phone)

	require.NoError(t, st.DeleteAdmin(ctx, a.ID))
	_, err = st.GetAdmin(ctx, a.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
