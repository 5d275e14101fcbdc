package reports

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/waybills"
)

// SummaryFilters bound the reporting window. Zero times mean unbounded.
type SummaryFilters struct {
	DateFrom time.Time
	DateTo   time.Time
}

// StatusBreakdown aggregates waybills sharing a lifecycle status.
type StatusBreakdown struct {
	Status      waybills.Status `json:"status"`
	Count       int64           `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// SupplierBreakdown aggregates waybills per supplier.
type SupplierBreakdown struct {
	SupplierCode  string          `json:"supplier_code"`
	SupplierName  string          `json:"supplier_name"`
	Count         int64           `json:"count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// Summary is one tenant's reconciliation report over a delivery-date window.
type Summary struct {
	TenantID    string              `json:"tenant_id"`
	DateFrom    *time.Time          `json:"date_from,omitempty"`
	DateTo      *time.Time          `json:"date_to,omitempty"`
	GeneratedAt time.Time           `json:"generated_at"`
	Count       int64               `json:"count"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	ByStatus    []StatusBreakdown   `json:"by_status"`
	BySupplier  []SupplierBreakdown `json:"by_supplier"`
}
