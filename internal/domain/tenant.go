package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is an isolated organizational account. It owns users and routers
// exclusively and is only ever created together with its first user.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"-"`
}
