package domain

import (
	"context"

	"github.com/google/uuid"
)

type TenantStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
}

type UserStore interface {
	// CreateTenantAndUser inserts the tenant and its first user in a single
	// transaction: both rows exist afterwards or neither does.
	CreateTenantAndUser(ctx context.Context, t *Tenant, u *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
}

type RouterStore interface {
	Create(ctx context.Context, r *Router) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]Router, error)
	Update(ctx context.Context, r *Router) error
	Delete(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error
}
