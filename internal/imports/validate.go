package imports

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/waybills"
)

// dateLayouts are the accepted date formats: ISO and day-first.
var dateLayouts = []string{"2006-01-02", "02/01/2006"}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount parses a non-negative decimal. Negative values are a format
// failure, not a business-rule one.
func parseAmount(raw string) (decimal.Decimal, bool) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || value.IsNegative() {
		return decimal.Decimal{}, false
	}
	return value, true
}

// Engine validates parsed rows against the rule catalog. It is pure: no I/O,
// no side effects, and it never stops at the first problem, so every finding
// for a row surfaces in one pass.
type Engine struct {
	cfg RuleConfig
}

func NewEngine(cfg RuleConfig) *Engine {
	return &Engine{cfg: cfg}
}

// Validate runs every applicable rule against one row and returns all
// findings. callerTenantID is the authenticated tenant from the request
// layer, the trust anchor the row's optional tenant_id echo is checked
// against.
func (e *Engine) Validate(row ImportRow, callerTenantID string) []Finding {
	var findings []Finding
	addError := func(field, message string) {
		findings = append(findings, Finding{
			RowNumber: row.RowNumber, Field: field, Message: message, IsError: true, RowData: row.Raw,
		})
	}
	addWarning := func(field, message string) {
		findings = append(findings, Finding{
			RowNumber: row.RowNumber, Field: field, Message: message, IsError: false, RowData: row.Raw,
		})
	}

	for _, column := range RequiredColumns {
		if strings.TrimSpace(row.Field(column)) == "" {
			addError(column, column+" is required")
		}
	}

	var waybillDate, deliveryDate time.Time
	var waybillDateOK, deliveryDateOK bool
	if strings.TrimSpace(row.WaybillDate) != "" {
		if waybillDate, waybillDateOK = parseDate(row.WaybillDate); !waybillDateOK {
			addError(ColWaybillDate, fmt.Sprintf("waybill_date %q must be YYYY-MM-DD or DD/MM/YYYY", row.WaybillDate))
		}
	}
	if strings.TrimSpace(row.DeliveryDate) != "" {
		if deliveryDate, deliveryDateOK = parseDate(row.DeliveryDate); !deliveryDateOK {
			addError(ColDeliveryDate, fmt.Sprintf("delivery_date %q must be YYYY-MM-DD or DD/MM/YYYY", row.DeliveryDate))
		}
	}

	var quantity, unitPrice, totalAmount decimal.Decimal
	var quantityOK, unitPriceOK, totalAmountOK bool
	if strings.TrimSpace(row.Quantity) != "" {
		if quantity, quantityOK = parseAmount(row.Quantity); !quantityOK {
			addError(ColQuantity, fmt.Sprintf("quantity %q must be a non-negative decimal", row.Quantity))
		}
	}
	if strings.TrimSpace(row.UnitPrice) != "" {
		if unitPrice, unitPriceOK = parseAmount(row.UnitPrice); !unitPriceOK {
			addError(ColUnitPrice, fmt.Sprintf("unit_price %q must be a non-negative decimal", row.UnitPrice))
		}
	}
	if strings.TrimSpace(row.TotalAmount) != "" {
		if totalAmount, totalAmountOK = parseAmount(row.TotalAmount); !totalAmountOK {
			addError(ColTotalAmount, fmt.Sprintf("total_amount %q must be a non-negative decimal", row.TotalAmount))
		}
	}

	if raw := strings.TrimSpace(row.Status); raw != "" {
		status, err := waybills.ParseStatus(raw)
		switch {
		case err != nil:
			addError(ColStatus, fmt.Sprintf("status %q must be one of Pending, Delivered, Cancelled, Disputed", raw))
		case status == waybills.StatusCancelled:
			addWarning(ColStatus, "cancelled is a terminal status: no further transitions will be accepted for this record")
		}
	}

	if raw := strings.TrimSpace(row.Currency); raw != "" && utf8.RuneCountInString(raw) != 3 {
		addError(ColCurrency, fmt.Sprintf("currency %q must be a 3-letter code", raw))
	}

	if quantityOK {
		e.checkQuantityRange(quantity, addError, addWarning)
	}
	if quantityOK && unitPriceOK && totalAmountOK {
		e.checkTotalAmount(quantity, unitPrice, totalAmount, addError, addWarning)
	}
	if waybillDateOK && deliveryDateOK && deliveryDate.Before(waybillDate) {
		addError(ColDeliveryDate, "delivery_date must not precede waybill_date")
	}

	// Security boundary, not data quality: a row claiming another tenant is
	// rejected outright, never silently corrected. The echo is trimmed like
	// every other field; the comparison itself stays exact.
	if echo := strings.TrimSpace(row.TenantID); echo != "" && echo != callerTenantID {
		addError(ColTenantID, fmt.Sprintf("row tenant %q does not match caller tenant: cross-tenant rows are rejected", echo))
	}

	return findings
}

func (e *Engine) checkQuantityRange(quantity decimal.Decimal, addError, addWarning func(field, message string)) {
	if quantity.LessThan(e.cfg.QuantityMin) || quantity.GreaterThan(e.cfg.QuantityMax) {
		addError(ColQuantity, fmt.Sprintf("quantity %s outside accepted range [%s, %s]",
			quantity, e.cfg.QuantityMin, e.cfg.QuantityMax))
		return
	}
	// Near-boundary advisory band: a percentage of the accepted range.
	band := e.cfg.QuantityMax.Sub(e.cfg.QuantityMin).
		Mul(e.cfg.QuantityBandPercent).Div(decimal.NewFromInt(100))
	nearLow := quantity.Sub(e.cfg.QuantityMin).LessThanOrEqual(band)
	nearHigh := e.cfg.QuantityMax.Sub(quantity).LessThanOrEqual(band)
	if nearLow || nearHigh {
		addWarning(ColQuantity, fmt.Sprintf("quantity %s is close to the accepted range boundary", quantity))
	}
}

func (e *Engine) checkTotalAmount(quantity, unitPrice, totalAmount decimal.Decimal, addError, addWarning func(field, message string)) {
	expected := quantity.Mul(unitPrice)
	diff := expected.Sub(totalAmount).Abs()
	switch {
	case diff.GreaterThan(e.cfg.PriceTolerance):
		addError(ColTotalAmount, fmt.Sprintf("total_amount %s does not equal quantity * unit_price (%s), off by %s",
			totalAmount, expected, diff))
	case diff.GreaterThan(e.cfg.PriceWarnBand):
		addWarning(ColTotalAmount, fmt.Sprintf("total_amount %s differs from quantity * unit_price (%s) by %s, close to tolerance",
			totalAmount, expected, diff))
	}
}
