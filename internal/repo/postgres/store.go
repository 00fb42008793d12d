package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/hamed0406/sitewatch/internal/domain"
	"github.com/hamed0406/sitewatch/internal/repo"
)

var _ repo.Store = (*Store)(nil)

type Store struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// New connects, pings and makes sure the schema exists.
func New(ctx context.Context, dsn string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctxPing); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool, log: log}, nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

const siteColumns = `id, client_name, client_url, status, response_time_ms, keywords, email_envied, created_at`

func scanSite(row pgx.Row) (*domain.MonitoredSite, error) {
	var (
		id       int64
		status   string
		site     domain.MonitoredSite
		keywords []string
	)
	if err := row.Scan(&id, &site.Name, &site.URL, &status, &site.ResponseTimeMS, &keywords, &site.Notified, &site.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, err
	}
	site.ID = domain.SiteID(id)
	site.Status = domain.Status(status)
	site.Keywords = keywords
	return &site, nil
}

// ---- SiteStore ----

func (s *Store) CreateSite(ctx context.Context, site *domain.MonitoredSite) error {
	if site.CreatedAt.IsZero() {
		site.CreatedAt = time.Now().UTC()
	}
	keywords := site.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO client_sites (client_name, client_url, status, response_time_ms, keywords, email_envied, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		site.Name, site.URL, string(site.Status), site.ResponseTimeMS, keywords, site.Notified, site.CreatedAt,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert site: %w", err)
	}
	site.ID = domain.SiteID(id)
	return nil
}

func (s *Store) ListSites(ctx context.Context) ([]domain.MonitoredSite, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+siteColumns+` FROM client_sites ORDER BY id`)
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
	site, err := scanSite(s.pool.QueryRow(ctx, `SELECT `+siteColumns+` FROM client_sites WHERE id = $1`, int64(id)))
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("get site %d: %w", id, err)
	}
	return site, err
}

func (s *Store) UpdateSite(ctx context.Context, id domain.SiteID, u domain.SiteUpdate) (*domain.MonitoredSite, error) {
	if u.Empty() {
		return s.GetSite(ctx, id)
	}
	sets, args := updateClauses(u)
	args = append(args, int64(id))
	q := `UPDATE client_sites SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING ` + siteColumns

	site, err := scanSite(s.pool.QueryRow(ctx, q, args...))
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, fmt.Errorf("update site %d: %w", id, err)
	}
	return site, err
}

// updateClauses turns the set fields of u into "col = $n" fragments.
func updateClauses(u domain.SiteUpdate) ([]string, []any) {
	var (
		sets []string
		args []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+" = $"+strconv.Itoa(len(args)))
	}
	if u.Name != nil {
		add("client_name", *u.Name)
	}
	if u.URL != nil {
		add("client_url", *u.URL)
	}
	if u.Status != nil {
		add("status", string(*u.Status))
	}
	if u.ResponseTimeMS != nil {
		add("response_time_ms", *u.ResponseTimeMS)
	}
	if u.Keywords != nil {
		kw := *u.Keywords
		if kw == nil {
			kw = []string{}
		}
		add("keywords", kw)
	}
	if u.Notified != nil {
		add("email_envied", *u.Notified)
	}
	return sets, args
}

func (s *Store) DeleteSite(ctx context.Context, id domain.SiteID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM client_sites WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete site %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}
