package imports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const callerTenant = "acme"

func validRow() ImportRow {
	return ImportRow{
		RowNumber:       1,
		WaybillID:       "WB-1001",
		WaybillDate:     "2026-03-01",
		DeliveryDate:    "2026-03-02",
		ProjectID:       "PRJ-7",
		SupplierID:      "SUP-42",
		ProductCode:     "CEM-50",
		ProductName:     "Cement 50kg",
		Quantity:        "10",
		Unit:            "bag",
		UnitPrice:       "150.75",
		TotalAmount:     "1507.50",
		DeliveryAddress: "12 Herzl St, Tel Aviv",
	}
}

func findingsFor(t *testing.T, fs []Finding, field string) []Finding {
	t.Helper()
	var matched []Finding
	for _, f := range fs {
		if f.Field == field {
			matched = append(matched, f)
		}
	}
	return matched
}

func errorCount(fs []Finding) int {
	n := 0
	for _, f := range fs {
		if f.IsError {
			n++
		}
	}
	return n
}

func TestValidate_CleanRowHasNoFindings(t *testing.T) {
	engine := NewEngine(DefaultRuleConfig())
	findings := engine.Validate(validRow(), callerTenant)
	assert.Empty(t, findings)
}

func TestValidate_RequiredFields(t *testing.T) {
	engine := NewEngine(DefaultRuleConfig())
	row := validRow()
	row.WaybillID = ""
	row.DeliveryAddress = "   "

	findings := engine.Validate(row, callerTenant)
	assert.Len(t, findingsFor(t, findings, ColWaybillID), 1)
	assert.Len(t, findingsFor(t, findings, ColDeliveryAddress), 1)
	for _, f := range findings {
		assert.True(t, f.IsError)
		assert.Equal(t, 1, f.RowNumber)
	}
}

func TestValidate_AllRulesRunPastFirstError(t *testing.T) {
	engine := NewEngine(DefaultRuleConfig())
	row := validRow()
	row.WaybillID = ""
	row.Quantity = "not-a-number"
	row.Status = "shipped"

	findings := engine.Validate(row, callerTenant)
	assert.GreaterOrEqual(t, errorCount(findings), 3,
		"validation must not stop at the first error")
}

func TestValidate_DateFormats(t *testing.T) {
	engine := NewEngine(DefaultRuleConfig())

	row := validRow()
	row.WaybillDate = "01/03/2026"
	row.DeliveryDate = "02/03/2026"
	assert.Empty(t, engine.Validate(row, callerTenant), "DD/MM/YYYY must be accepted")

	row = validRow()
	row.WaybillDate = "03-01-2026"
	findings := engine.Validate(row, callerTenant)
	require.Len(t, findingsFor(t, findings, ColWaybillDate), 1)
	assert.True(t, findings[0].IsError)
}

func TestValidate_DateOrder(t *testing.T) {
	engine := NewEngine(DefaultRuleConfig())

	row := validRow()
	row.WaybillDate = "2026-03-02"
	row.DeliveryDate = "2026-03-01"
	findings := engine.Validate(row, callerTenant)
	require.Len(t, findings, 1)
	assert.True(t, findings[0].IsError)
	assert.Equal(t, ColDeliveryDate, findings[0].Field)

	row.DeliveryDate = "2026-03-02"
	assert.Empty(t, engine.Validate(row, callerTenant), "equal dates are accepted")
}

func TestValidate_QuantityBoundaries(t *testing.T) {
	engine := NewEngine(DefaultRuleConfig())
	cases := []struct {
		quantity  string
		unitPrice string
		total     string
		accepted  bool
	}{
		{"0.5", "2", "1.00", true},
		{"50", "2", "100.00", true},
		{"0.49", "2", "0.98", false},
		{"50.01", "2", "100.02", false},
	}
	for _, tc := range cases {
		row := validRow()
		row.Quantity = tc.quantity
		row.UnitPrice = tc.unitPrice
		row.TotalAmount = tc.total
		findings := engine.Validate(row, callerTenant)
		if tc.accepted {
			assert.Zero(t, errorCount(findings), "quantity %s must be accepted", tc.quantity)
		} else {
			assert.NotZero(t, errorCount(findings), "quantity %s must be rejected", tc.quantity)
		}
	}
}

func TestValidate_QuantityNearBoundaryWarns(t *testing.T) {
	engine := NewEngine(DefaultRuleConfig())
	row := validRow()
	row.Quantity = "0.5"
	row.UnitPrice = "2"
	row.TotalAmount = "1.00"

	findings := engine.Validate(row, callerTenant)
	require.Len(t, findingsFor(t, findings, ColQuantity), 1)
	assert.False(t, findings[0].IsError, "boundary value warns, never errors")
}

func TestValidate_NegativeAmountsRejected(t *testing.T) {
	engine := NewEngine(DefaultRuleConfig())
	row := validRow()
	row.UnitPrice = "-3"
	findings := engine.Validate(row, callerTenant)
	assert.NotZero(t, errorCount(findingsFor(t, findings, ColUnitPrice)))
}

func TestValidate_TotalAmountTolerance(t *testing.T) {
	engine := NewEngine(DefaultRuleConfig())
	cases := []struct {
		total   string
		isError bool
		warns   bool
	}{
		{"1507.50", false, false},
		{"1507.508", false, true},
		{"1510.00", true, false},
	}
	for _, tc := range cases {
		row := validRow()
		row.TotalAmount = tc.total
		findings := findingsFor(t, engine.Validate(row, callerTenant), ColTotalAmount)
		if !tc.isError && !tc.warns {
			assert.Empty(t, findings, "total %s must pass clean", tc.total)
			continue
		}
		require.Len(t, findings, 1, "total %s", tc.total)
		assert.Equal(t, tc.isError, findings[0].IsError, "total %s", tc.total)
	}
}

func TestValidate_StatusRules(t *testing.T) {
	engine := NewEngine(DefaultRuleConfig())

	row := validRow()
	row.Status = "DELIVERED"
	assert.Empty(t, engine.Validate(row, callerTenant), "status matching is case-insensitive")

	row.Status = "shipped"
	findings := engine.Validate(row, callerTenant)
	require.Len(t, findings, 1)
	assert.True(t, findings[0].IsError)

	row.Status = "cancelled"
	findings = engine.Validate(row, callerTenant)
	require.Len(t, findings, 1)
	assert.False(t, findings[0].IsError, "cancelled gets a terminal-status advisory, not an error")
}

func TestValidate_CurrencyLength(t *testing.T) {
	engine := NewEngine(DefaultRuleConfig())

	row := validRow()
	row.Currency = "USD"
	assert.Empty(t, engine.Validate(row, callerTenant))

	row.Currency = "SHEKEL"
	findings := engine.Validate(row, callerTenant)
	require.Len(t, findings, 1)
	assert.True(t, findings[0].IsError)
}

func TestValidate_TenantMismatchExactlyOneError(t *testing.T) {
	engine := NewEngine(DefaultRuleConfig())

	// Even with several other invalid fields, exactly one tenant-mismatch
	// finding appears, and it is always an error.
	row := validRow()
	row.TenantID = "someone-else"
	row.Quantity = "bad"
	row.Status = "bad"

	findings := engine.Validate(row, callerTenant)
	tenantFindings := findingsFor(t, findings, ColTenantID)
	require.Len(t, tenantFindings, 1)
	assert.True(t, tenantFindings[0].IsError)
}

func TestValidate_TenantCaseSensitive(t *testing.T) {
	engine := NewEngine(DefaultRuleConfig())
	row := validRow()
	row.TenantID = "Acme"

	findings := engine.Validate(row, callerTenant)
	require.Len(t, findingsFor(t, findings, ColTenantID), 1, "tenant comparison is exact, case-sensitive")
}

func TestValidate_AbsentTenantFieldTrustsCaller(t *testing.T) {
	engine := NewEngine(DefaultRuleConfig())
	row := validRow()
	row.TenantID = ""
	assert.Empty(t, engine.Validate(row, callerTenant))
}

func TestValidate_TenantEchoTrimmedBeforeComparing(t *testing.T) {
	engine := NewEngine(DefaultRuleConfig())

	// Hand-edited CSVs pad fields with stray whitespace; that is not a
	// cross-tenant claim.
	row := validRow()
	row.TenantID = " acme "
	assert.Empty(t, engine.Validate(row, callerTenant))

	row.TenantID = " someone-else "
	findings := findingsFor(t, engine.Validate(row, callerTenant), ColTenantID)
	require.Len(t, findings, 1)
	assert.True(t, findings[0].IsError)
}
