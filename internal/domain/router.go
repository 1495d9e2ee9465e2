package domain

import (
	"time"

	"github.com/google/uuid"
)

// Router is a managed device owned by exactly one tenant. Every access path
// is filtered by the owning tenant id; the device password is write-only in
// API responses.
type Router struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	IP        string    `json:"ip"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	TenantID  uuid.UUID `json:"tenantId"`
	CreatedAt time.Time `json:"-"`
}
