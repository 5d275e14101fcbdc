package imports

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RuleConfig holds the validation calibration constants. The zero value is
// unusable; use DefaultRuleConfig or build one from app configuration.
type RuleConfig struct {
	// QuantityMin..QuantityMax is the accepted quantity range, inclusive.
	QuantityMin decimal.Decimal
	QuantityMax decimal.Decimal
	// QuantityBandPercent defines the near-boundary advisory band as a
	// percentage of the quantity range.
	QuantityBandPercent decimal.Decimal
	// PriceTolerance is the largest accepted |total - quantity*unit_price|.
	PriceTolerance decimal.Decimal
	// PriceWarnBand is the lower edge of the tolerance-proximity warning
	// band: a discrepancy in (PriceWarnBand, PriceTolerance] warns.
	PriceWarnBand decimal.Decimal
}

// DefaultRuleConfig returns the contractual thresholds.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{
		QuantityMin:         decimal.RequireFromString("0.5"),
		QuantityMax:         decimal.RequireFromString("50"),
		QuantityBandPercent: decimal.RequireFromString("2"),
		PriceTolerance:      decimal.RequireFromString("0.01"),
		PriceWarnBand:       decimal.RequireFromString("0.005"),
	}
}

// ParseRuleConfig builds a RuleConfig from configuration strings, falling
// back to the defaults for empty values.
func ParseRuleConfig(min, max, bandPercent, tolerance, warnBand string) (RuleConfig, error) {
	cfg := DefaultRuleConfig()
	assign := func(target *decimal.Decimal, raw, name string) error {
		if raw == "" {
			return nil
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("imports: invalid %s %q: %w", name, raw, err)
		}
		*target = value
		return nil
	}
	if err := assign(&cfg.QuantityMin, min, "quantity min"); err != nil {
		return RuleConfig{}, err
	}
	if err := assign(&cfg.QuantityMax, max, "quantity max"); err != nil {
		return RuleConfig{}, err
	}
	if err := assign(&cfg.QuantityBandPercent, bandPercent, "quantity band percent"); err != nil {
		return RuleConfig{}, err
	}
	if err := assign(&cfg.PriceTolerance, tolerance, "price tolerance"); err != nil {
		return RuleConfig{}, err
	}
	if err := assign(&cfg.PriceWarnBand, warnBand, "price warn band"); err != nil {
		return RuleConfig{}, err
	}
	if cfg.QuantityMin.GreaterThan(cfg.QuantityMax) {
		return RuleConfig{}, fmt.Errorf("imports: quantity min %s exceeds max %s", cfg.QuantityMin, cfg.QuantityMax)
	}
	return cfg, nil
}

// RuleSeverity distinguishes blocking errors from advisories.
type RuleSeverity string

const (
	SeverityError   RuleSeverity = "error"
	SeverityWarning RuleSeverity = "warning"
)

// RuleSpec documents one validation rule. The catalog is data, not logic: the
// executable rules live in validate.go and tests assert coverage against this
// table.
type RuleSpec struct {
	Name     string
	Field    string
	Severity RuleSeverity
	Message  string
}

// RuleCatalog is the canonical listing of every rule the engine applies.
var RuleCatalog = []RuleSpec{
	{Name: "required.waybill_id", Field: ColWaybillID, Severity: SeverityError, Message: "waybill_id is required"},
	{Name: "required.waybill_date", Field: ColWaybillDate, Severity: SeverityError, Message: "waybill_date is required"},
	{Name: "required.delivery_date", Field: ColDeliveryDate, Severity: SeverityError, Message: "delivery_date is required"},
	{Name: "required.project_id", Field: ColProjectID, Severity: SeverityError, Message: "project_id is required"},
	{Name: "required.supplier_id", Field: ColSupplierID, Severity: SeverityError, Message: "supplier_id is required"},
	{Name: "required.product_code", Field: ColProductCode, Severity: SeverityError, Message: "product_code is required"},
	{Name: "required.product_name", Field: ColProductName, Severity: SeverityError, Message: "product_name is required"},
	{Name: "required.quantity", Field: ColQuantity, Severity: SeverityError, Message: "quantity is required"},
	{Name: "required.unit", Field: ColUnit, Severity: SeverityError, Message: "unit is required"},
	{Name: "required.unit_price", Field: ColUnitPrice, Severity: SeverityError, Message: "unit_price is required"},
	{Name: "required.total_amount", Field: ColTotalAmount, Severity: SeverityError, Message: "total_amount is required"},
	{Name: "required.delivery_address", Field: ColDeliveryAddress, Severity: SeverityError, Message: "delivery_address is required"},
	{Name: "format.waybill_date", Field: ColWaybillDate, Severity: SeverityError, Message: "waybill_date must be YYYY-MM-DD or DD/MM/YYYY"},
	{Name: "format.delivery_date", Field: ColDeliveryDate, Severity: SeverityError, Message: "delivery_date must be YYYY-MM-DD or DD/MM/YYYY"},
	{Name: "format.quantity", Field: ColQuantity, Severity: SeverityError, Message: "quantity must be a non-negative decimal"},
	{Name: "format.unit_price", Field: ColUnitPrice, Severity: SeverityError, Message: "unit_price must be a non-negative decimal"},
	{Name: "format.total_amount", Field: ColTotalAmount, Severity: SeverityError, Message: "total_amount must be a non-negative decimal"},
	{Name: "format.status", Field: ColStatus, Severity: SeverityError, Message: "status must be one of Pending, Delivered, Cancelled, Disputed"},
	{Name: "format.currency", Field: ColCurrency, Severity: SeverityError, Message: "currency must be a 3-letter code"},
	{Name: "business.quantity_range", Field: ColQuantity, Severity: SeverityError, Message: "quantity outside accepted range"},
	{Name: "business.quantity_near_boundary", Field: ColQuantity, Severity: SeverityWarning, Message: "quantity close to range boundary"},
	{Name: "business.total_mismatch", Field: ColTotalAmount, Severity: SeverityError, Message: "total_amount does not equal quantity * unit_price"},
	{Name: "business.total_near_tolerance", Field: ColTotalAmount, Severity: SeverityWarning, Message: "total_amount discrepancy close to tolerance"},
	{Name: "business.date_order", Field: ColDeliveryDate, Severity: SeverityError, Message: "delivery_date precedes waybill_date"},
	{Name: "security.tenant_mismatch", Field: ColTenantID, Severity: SeverityError, Message: "row tenant does not match caller tenant"},
	{Name: "advisory.cancelled_terminal", Field: ColStatus, Severity: SeverityWarning, Message: "cancelled is a terminal status for this record"},
}
