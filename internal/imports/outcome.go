package imports

import (
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/waybills"
)

// Finding is one validation result for one row. Errors exclude the row from
// persistence; warnings never do.
type Finding struct {
	RowNumber int    `json:"row_number"`
	Field     string `json:"field,omitempty"`
	Message   string `json:"message"`
	IsError   bool   `json:"is_error"`
	RowData   string `json:"row_data,omitempty"`
}

// ImportOutcome summarises one import batch. SuccessCount + ErrorCount always
// equals TotalRows: a row with at least one error finding is an error row even
// when other fields parsed.
type ImportOutcome struct {
	TotalRows    int                `json:"total_rows"`
	SuccessCount int                `json:"success_count"`
	ErrorCount   int                `json:"error_count"`
	Findings     []Finding          `json:"errors"`
	Warnings     []string           `json:"warnings"`
	Persisted    []waybills.Waybill `json:"persisted_waybills"`
}

// hasError reports whether any finding in fs is an error.
func hasError(fs []Finding) bool {
	for _, f := range fs {
		if f.IsError {
			return true
		}
	}
	return false
}
