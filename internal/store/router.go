package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mikrodash/mikrodash/internal/domain"
)

type RouterStore struct {
	db *pgxpool.Pool
}

func NewRouterStore(db *pgxpool.Pool) *RouterStore {
	return &RouterStore{db: db}
}

func (s *RouterStore) Create(ctx context.Context, r *domain.Router) error {
	return s.db.QueryRow(ctx,
		`INSERT INTO routers (name, ip, username, password, tenant_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		r.Name, r.IP, r.Username, r.Password, r.TenantID,
	).Scan(&r.ID, &r.CreatedAt)
}

func (s *RouterStore) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.Router, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, ip, username, tenant_id, created_at
		 FROM routers WHERE tenant_id = $1 ORDER BY created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routers []domain.Router
	for rows.Next() {
		var r domain.Router
		if err := rows.Scan(&r.ID, &r.Name, &r.IP, &r.Username, &r.TenantID, &r.CreatedAt); err != nil {
			return nil, err
		}
		routers = append(routers, r)
	}
	return routers, rows.Err()
}

// Update matches on (id, tenant_id) jointly. Zero rows affected means the
// router doesn't exist or belongs to another tenant; callers get the same
// ErrNotFound either way.
func (s *RouterStore) Update(ctx context.Context, r *domain.Router) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE routers SET name = $1, ip = $2, username = $3, password = $4
		 WHERE id = $5 AND tenant_id = $6`,
		r.Name, r.IP, r.Username, r.Password, r.ID, r.TenantID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RouterStore) Delete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM routers WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
