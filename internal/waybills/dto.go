package waybills

import (
	"time"

	"github.com/shopspring/decimal"
)

// UpdateWaybillRequest carries a partial field update plus the version token
// the caller last observed. Absent fields keep their stored value.
type UpdateWaybillRequest struct {
	Version string `json:"version" validate:"required,uuid"`

	WaybillDate   *time.Time       `json:"waybill_date,omitempty"`
	DeliveryDate  *time.Time       `json:"delivery_date,omitempty"`
	ProductCode   *string          `json:"product_code,omitempty" validate:"omitempty,max=100"`
	ProductName   *string          `json:"product_name,omitempty" validate:"omitempty,max=300"`
	Quantity      *decimal.Decimal `json:"quantity,omitempty"`
	Unit          *string          `json:"unit,omitempty" validate:"omitempty,max=50"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	TotalAmount   *decimal.Decimal `json:"total_amount,omitempty"`
	Currency      *string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	Status        *string          `json:"status,omitempty"`
	VehicleNumber *string          `json:"vehicle_number,omitempty" validate:"omitempty,max=50"`
	DriverName    *string          `json:"driver_name,omitempty" validate:"omitempty,max=200"`
	Notes         *string          `json:"notes,omitempty"`
}

// ChangeStatusRequest moves a waybill along the status graph.
type ChangeStatusRequest struct {
	Status  string `json:"status" validate:"required"`
	Version string `json:"version" validate:"required,uuid"`
}

// ConflictResponse is returned on optimistic-concurrency rejection so the
// caller can decide whether to reload and retry.
type ConflictResponse struct {
	PresentedVersion string `json:"presented_version"`
	CurrentVersion   string `json:"current_version"`
}
