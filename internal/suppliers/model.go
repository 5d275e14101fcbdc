package suppliers

import "time"

// Supplier is a tenant-scoped reference entity. Its real identity is the
// (TenantID, Code) pair: different tenants may legitimately use the same
// human-assigned supplier code.
type Supplier struct {
	ID        int64     `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
