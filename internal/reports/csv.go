package reports

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"
)

// WriteSummaryCSV serialises a summary to CSV: a totals header block, then
// the per-status and per-supplier breakdowns.
func WriteSummaryCSV(w io.Writer, summary Summary) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	records := [][]string{
		{"Tenant", summary.TenantID},
		{"Generated At", summary.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Date From", windowLabel(summary.DateFrom)},
		{"Date To", windowLabel(summary.DateTo)},
		{"Waybills", strconv.FormatInt(summary.Count, 10)},
		{"Total Amount", summary.TotalAmount.StringFixed(2)},
		{},
		{"Status", "Count", "Total Amount"},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	for _, b := range summary.ByStatus {
		if err := writer.Write([]string{
			b.Status.String(),
			strconv.FormatInt(b.Count, 10),
			b.TotalAmount.StringFixed(2),
		}); err != nil {
			return err
		}
	}

	if err := writer.Write([]string{}); err != nil {
		return err
	}
	if err := writer.Write([]string{"Supplier Code", "Supplier Name", "Count", "Total Quantity", "Total Amount"}); err != nil {
		return err
	}
	for _, b := range summary.BySupplier {
		if err := writer.Write([]string{
			b.SupplierCode,
			b.SupplierName,
			strconv.FormatInt(b.Count, 10),
			b.TotalQuantity.StringFixed(3),
			b.TotalAmount.StringFixed(2),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func windowLabel(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
