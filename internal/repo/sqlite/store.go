package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/hamed0406/sitewatch/internal/domain"
	"github.com/hamed0406/sitewatch/internal/repo"
)

var _ repo.Store = (*Store)(nil)

// Store keeps sites and administrators in a single SQLite file.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database file and migrates the schema.
func New(ctx context.Context, path string) (*Store, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one writer at a time; avoids SQLITE_BUSY under concurrent batch updates
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS client_sites (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	client_name      TEXT NOT NULL,
	client_url       TEXT NOT NULL,
	status           TEXT NOT NULL DEFAULT 'ONLINE',
	response_time_ms INTEGER,
	keywords         TEXT NOT NULL DEFAULT '[]',
	email_envied     INTEGER NOT NULL DEFAULT 0,
	created_at       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS administrators (
	id    INTEGER PRIMARY KEY AUTOINCREMENT,
	name  TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL,
	phone TEXT NOT NULL DEFAULT ''
);
`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

const siteColumns = `id, client_name, client_url, status, response_time_ms, keywords, email_envied, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSite(row scanner) (*domain.MonitoredSite, error) {
	var (
		site       domain.MonitoredSite
		id         int64
		status     string
		rt         sql.NullInt64
		keywords   string
		createdStr string
	)
	if err := row.Scan(&id, &site.Name, &site.URL, &status, &rt, &keywords, &site.Notified, &createdStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	site.ID = domain.SiteID(id)
	site.Status = domain.Status(status)
	if rt.Valid {
		v := rt.Int64
		site.ResponseTimeMS = &v
	}
	if err := json.Unmarshal([]byte(keywords), &site.Keywords); err != nil {
		return nil, fmt.Errorf("decode keywords of site %d: %w", id, err)
	}
	site.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdStr)
	return &site, nil
}

func encodeKeywords(kw []string) (string, error) {
	if kw == nil {
		kw = []string{}
	}
	b, err := json.Marshal(kw)
	return string(b), err
}

func nullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// ---- SiteStore ----

func (s *Store) CreateSite(ctx context.Context, site *domain.MonitoredSite) error {
	if site.CreatedAt.IsZero() {
		site.CreatedAt = time.Now().UTC()
	}
	kw, err := encodeKeywords(site.Keywords)
	if err != nil {
		return fmt.Errorf("encode keywords: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO client_sites (client_name, client_url, status, response_time_ms, keywords, email_envied, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		site.Name, site.URL, string(site.Status), nullInt(site.ResponseTimeMS), kw, site.Notified,
		site.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert site: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("site id: %w", err)
	}
	site.ID = domain.SiteID(id)
	return nil
}

func (s *Store) ListSites(ctx context.Context) ([]domain.MonitoredSite, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+siteColumns+` FROM client_sites ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	var out []domain.MonitoredSite
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		out = append(out, *site)
	}
	return out, rows.Err()
}

func (s *Store) GetSite(ctx context.Context, id domain.SiteID) (*domain.MonitoredSite, error) {
	site, err := scanSite(s.db.QueryRowContext(ctx, `SELECT `+siteColumns+` FROM client_sites WHERE id = ?`, int64(id)))
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("get site %d: %w", id, err)
	}
	return site, err
}

func (s *Store) UpdateSite(ctx context.Context, id domain.SiteID, u domain.SiteUpdate) (*domain.MonitoredSite, error) {
	if u.Empty() {
		return s.GetSite(ctx, id)
	}
	var (
		sets []string
		args []any
	)
	if u.Name != nil {
		sets, args = append(sets, "client_name = ?"), append(args, *u.Name)
	}
	if u.URL != nil {
		sets, args = append(sets, "client_url = ?"), append(args, *u.URL)
	}
	if u.Status != nil {
		sets, args = append(sets, "status = ?"), append(args, string(*u.Status))
	}
	if u.ResponseTimeMS != nil {
		sets, args = append(sets, "response_time_ms = ?"), append(args, *u.ResponseTimeMS)
	}
	if u.Keywords != nil {
		kw, err := encodeKeywords(*u.Keywords)
		if err != nil {
			return nil, fmt.Errorf("encode keywords: %w", err)
		}
		sets, args = append(sets, "keywords = ?"), append(args, kw)
	}
	if u.Notified != nil {
		sets, args = append(sets, "email_envied = ?"), append(args, *u.Notified)
	}
	args = append(args, int64(id))

	res, err := s.db.ExecContext(ctx, `UPDATE client_sites SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update site %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, repo.ErrNotFound
	}
	return s.GetSite(ctx, id)
}

func (s *Store) DeleteSite(ctx context.Context, id domain.SiteID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM client_sites WHERE id = ?`, int64(id))
	if err != nil {
		return fmt.Errorf("delete site %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// ---- AdminStore ----

func (s *Store) ListAdmins(ctx context.Context) ([]domain.AdministratorContact, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, phone FROM administrators ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()

	var out []domain.AdministratorContact
	for rows.Next() {
		var (
			id int64
			a  domain.AdministratorContact
		)
		if err := rows.Scan(&id, &a.Name, &a.Email, &a.Phone); err != nil {
			return nil, fmt.Errorf("scan admin: %w", err)
		}
		a.ID = domain.AdminID(id)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) GetAdmin(ctx context.Context, id domain.AdminID) (*domain.AdministratorContact, error) {
	a := domain.AdministratorContact{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT name, email, phone FROM administrators WHERE id = ?`, int64(id)).
		Scan(&a.Name, &a.Email, &a.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get admin %d: %w", id, err)
	}
	return &a, nil
}

func (s *Store) CreateAdmin(ctx context.Context, a *domain.AdministratorContact) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO administrators (name, email, phone) VALUES (?, ?, ?)`, a.Name, a.Email, a.Phone)
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("admin id: %w", err)
	}
	a.ID = domain.AdminID(id)
	return nil
}

func (s *Store) UpdateAdmin(ctx context.Context, a *domain.AdministratorContact) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE administrators SET name = ?, email = ?, phone = ? WHERE id = ?`,
		a.Name, a.Email, a.Phone, int64(a.ID))
	if err != nil {
		return fmt.Errorf("update admin %d: %w", a.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAdmin(ctx context.Context, id domain.AdminID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM administrators WHERE id = ?`, int64(id))
	if err != nil {
		return fmt.Errorf("delete admin %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repo.ErrNotFound
	}
	return nil
}
