package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mikrodash/mikrodash/internal/domain"
)

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

// CreateTenantAndUser inserts the tenant and its first user in one
// transaction. A tenant with zero users is meaningless, so any failure
// after Begin rolls both inserts back and the caller observes a single
// aggregate error. A duplicate email surfaces as ErrConflict; the unique
// index is the arbiter when two registrations race on the same address.
func (s *UserStore) CreateTenantAndUser(ctx context.Context, t *domain.Tenant, u *domain.User) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx,
		`INSERT INTO tenants (name) VALUES ($1)
		 RETURNING id, created_at`,
		t.Name,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx,
		`INSERT INTO users (name, email, password_hash, security_question, security_answer_hash, tenant_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		u.Name, u.Email, u.PasswordHash, u.SecurityQuestion, u.SecurityAnswerHash, t.ID,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	u.TenantID = t.ID

	return tx.Commit(ctx)
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, security_question, security_answer_hash, tenant_id, created_at
		 FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.SecurityQuestion, &u.SecurityAnswerHash, &u.TenantID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u := &domain.User{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, email, password_hash, security_question, security_answer_hash, tenant_id, created_at
		 FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.SecurityQuestion, &u.SecurityAnswerHash, &u.TenantID, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *UserStore) UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
