package domain

import "github.com/google/uuid"

// Identity is the authenticated (user, tenant) pair carried by a verified
// session token. Handlers must take the tenant id from here, never from
// client-supplied input.
type Identity struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
}
