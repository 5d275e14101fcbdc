package imports

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/waybills"
)

// ValidatedRow is an ImportRow whose fields passed validation, with typed
// values and defaults resolved, ready for reconciliation.
type ValidatedRow struct {
	Row ImportRow

	WaybillDate  time.Time
	DeliveryDate time.Time
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	TotalAmount  decimal.Decimal
	Currency     string
	Status       waybills.Status

	// UsedDefaultCurrency feeds the batch-level summary warning.
	UsedDefaultCurrency bool
}

// buildValidatedRow types a row the engine accepted. A failure here means
// validation and parsing disagree, which is a programming error surfaced as
// such rather than a new finding.
func buildValidatedRow(row ImportRow) (ValidatedRow, error) {
	waybillDate, ok := parseDate(row.WaybillDate)
	if !ok {
		return ValidatedRow{}, fmt.Errorf("imports: row %d: unparseable waybill_date after validation", row.RowNumber)
	}
	deliveryDate, ok := parseDate(row.DeliveryDate)
	if !ok {
		return ValidatedRow{}, fmt.Errorf("imports: row %d: unparseable delivery_date after validation", row.RowNumber)
	}
	quantity, ok := parseAmount(row.Quantity)
	if !ok {
		return ValidatedRow{}, fmt.Errorf("imports: row %d: unparseable quantity after validation", row.RowNumber)
	}
	unitPrice, ok := parseAmount(row.UnitPrice)
	if !ok {
		return ValidatedRow{}, fmt.Errorf("imports: row %d: unparseable unit_price after validation", row.RowNumber)
	}
	totalAmount, ok := parseAmount(row.TotalAmount)
	if !ok {
		return ValidatedRow{}, fmt.Errorf("imports: row %d: unparseable total_amount after validation", row.RowNumber)
	}

	validated := ValidatedRow{
		Row:          row,
		WaybillDate:  waybillDate,
		DeliveryDate: deliveryDate,
		Quantity:     quantity.Round(3),
		UnitPrice:    unitPrice.Round(2),
		TotalAmount:  totalAmount.Round(2),
		Currency:     strings.TrimSpace(row.Currency),
		Status:       waybills.StatusPending,
	}
	if validated.Currency == "" {
		validated.Currency = waybills.DefaultCurrency
		validated.UsedDefaultCurrency = true
	}
	if raw := strings.TrimSpace(row.Status); raw != "" {
		status, err := waybills.ParseStatus(raw)
		if err != nil {
			return ValidatedRow{}, fmt.Errorf("imports: row %d: unparseable status after validation", row.RowNumber)
		}
		validated.Status = status
	}
	return validated, nil
}

func optional(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
