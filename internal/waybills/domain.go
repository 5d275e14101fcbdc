package waybills

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/shared"
)

// Status is the waybill lifecycle state. It is stored as a small integer and
// parsed case-insensitively from strings at the boundary.
type Status int

const (
	StatusPending Status = iota + 1
	StatusDelivered
	StatusCancelled
	StatusDisputed
)

var statusNames = map[Status]string{
	StatusPending:   "Pending",
	StatusDelivered: "Delivered",
	StatusCancelled: "Cancelled",
	StatusDisputed:  "Disputed",
}

// ParseStatus resolves a case-insensitive status name. Unknown values are
// rejected, never coerced.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending":
		return StatusPending, nil
	case "delivered":
		return StatusDelivered, nil
	case "cancelled":
		return StatusCancelled, nil
	case "disputed":
		return StatusDisputed, nil
	default:
		return 0, fmt.Errorf("unknown status %q", s)
	}
}

// IsValid checks if the status is one of the closed set.
func (s Status) IsValid() bool {
	_, ok := statusNames[s]
	return ok
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalJSON renders the status by name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses a status name case-insensitively.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// transitions is the explicit status graph. A (from, to) pair absent from the
// table is denied; Cancelled and Disputed are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusDelivered, StatusCancelled},
	StatusDelivered: {StatusDisputed},
	StatusCancelled: {},
	StatusDisputed:  {},
}

// CanTransitionTo reports whether the status graph permits moving to target.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Waybill is a persisted delivery record. Uniqueness within a tenant is
// enforced on the (WaybillID, SupplierID, DeliveryDate) natural key; ID is a
// surrogate primary key. Version is an opaque token replaced by the store on
// every successful update.
type Waybill struct {
	ID            int64           `json:"id"`
	TenantID      string          `json:"tenant_id"`
	WaybillID     string          `json:"waybill_id"`
	ProjectID     string          `json:"project_id"`
	SupplierID    int64           `json:"supplier_id"`
	SupplierCode  string          `json:"supplier_code"`
	WaybillDate   time.Time       `json:"waybill_date"`
	DeliveryDate  time.Time       `json:"delivery_date"`
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
	Status        Status          `json:"status"`
	VehicleNumber *string         `json:"vehicle_number,omitempty"`
	DriverName    *string         `json:"driver_name,omitempty"`
	Notes         *string         `json:"notes,omitempty"`
	Version       uuid.UUID       `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// DefaultCurrency applies when a row carries no currency column.
const DefaultCurrency = "ILS"

// VersionConflictError reports an optimistic-concurrency rejection. It carries
// both the token the caller presented and the token currently stored, so the
// caller can reload and retry.
type VersionConflictError struct {
	Presented uuid.UUID
	Current   uuid.UUID
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict: presented %s, current %s", e.Presented, e.Current)
}

func (e *VersionConflictError) Unwrap() error { return shared.ErrVersionConflict }

// TransitionError reports a denied status change.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return shared.ErrInvalidTransition }
