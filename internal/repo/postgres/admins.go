package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hamed0406/sitewatch/internal/domain"
	"github.com/hamed0406/sitewatch/internal/repo"
)

func (s *Store) ListAdmins(ctx context.Context) ([]domain.AdministratorContact, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, email, phone FROM administrators ORDER BY id`)
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
	err := s.pool.QueryRow(ctx, `SELECT name, email, phone FROM administrators WHERE id = $1`, int64(id)).
		Scan(&a.Name, &a.Email, &a.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("get admin %d: %w", id, err)
	}
	return &a, nil
}

func (s *Store) CreateAdmin(ctx context.Context, a *domain.AdministratorContact) error {
	var id int64
	err := s.pool.QueryRow(ctx,
		`INSERT INTO administrators (name, email, phone) VALUES ($1, $2, $3) RETURNING id`,
		a.Name, a.Email, a.Phone,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	a.ID = domain.AdminID(id)
	return nil
}

func (s *Store) UpdateAdmin(ctx context.Context, a *domain.AdministratorContact) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE administrators SET name = $1, email = $2, phone = $3 WHERE id = $4`,
		a.Name, a.Email, a.Phone, int64(a.ID),
	)
	if err != nil {
		return fmt.Errorf("update admin %d: %w", a.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAdmin(ctx context.Context, id domain.AdminID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM administrators WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete admin %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}
	return nil
}
