package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a tenant-owned account. Email is globally unique across tenants;
// the uniqueness constraint in the store is the final arbiter of concurrent
// registrations with the same address.
type User struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	SecurityQuestion   string    `json:"-"`
	SecurityAnswerHash string    `json:"-"`
	TenantID           uuid.UUID `json:"tenantId"`
	CreatedAt          time.Time `json:"-"`
}
