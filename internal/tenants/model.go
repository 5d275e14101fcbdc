package tenants

import "time"

// Tenant is an isolated organisation. Rows belonging to one tenant are never
// visible to or mutable by another.
type Tenant struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	APIKeyHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
