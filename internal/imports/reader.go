package imports

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// readRows decodes a CSV upload into ImportRows. The stream is read as UTF-8
// with byte-order-mark tolerance. The first non-empty line names the columns;
// order is irrelevant. Malformed lines become error findings, never abort the
// read: the returned error is reserved for I/O failures.
func readRows(r io.Reader) ([]ImportRow, []Finding, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	columns, err := readHeader(reader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	var (
		rows     []ImportRow
		findings []Finding
		rowNum   int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rowNum++
				findings = append(findings, Finding{
					RowNumber: rowNum,
					Message:   fmt.Sprintf("malformed CSV line: %v", parseErr.Err),
					IsError:   true,
				})
				continue
			}
			return nil, nil, fmt.Errorf("imports: read csv: %w", err)
		}
		if isBlank(record) {
			continue
		}
		rowNum++
		rows = append(rows, buildRow(rowNum, columns, record))
	}
	return rows, findings, nil
}

// readHeader consumes lines until the first non-empty one and maps canonical
// column names to field positions.
func readHeader(reader *csv.Reader) (map[string]int, error) {
	for {
		record, err := reader.Read()
		if err != nil {
			return nil, err
		}
		if isBlank(record) {
			continue
		}
		columns := make(map[string]int, len(record))
		for i, name := range record {
			name = strings.ToLower(strings.TrimSpace(name))
			if name == "" {
				continue
			}
			if _, dup := columns[name]; !dup {
				columns[name] = i
			}
		}
		return columns, nil
	}
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func buildRow(rowNumber int, columns map[string]int, record []string) ImportRow {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}
	return ImportRow{
		RowNumber:       rowNumber,
		WaybillID:       field(ColWaybillID),
		WaybillDate:     field(ColWaybillDate),
		DeliveryDate:    field(ColDeliveryDate),
		ProjectID:       field(ColProjectID),
		SupplierID:      field(ColSupplierID),
		ProductCode:     field(ColProductCode),
		ProductName:     field(ColProductName),
		Quantity:        field(ColQuantity),
		Unit:            field(ColUnit),
		UnitPrice:       field(ColUnitPrice),
		TotalAmount:     field(ColTotalAmount),
		DeliveryAddress: field(ColDeliveryAddress),
		Currency:        field(ColCurrency),
		Status:          field(ColStatus),
		VehicleNumber:   field(ColVehicleNumber),
		DriverName:      field(ColDriverName),
		Notes:           field(ColNotes),
		ProjectName:     field(ColProjectName),
		SupplierName:    field(ColSupplierName),
		TenantID:        field(ColTenantID),
		Raw:             strings.Join(record, ","),
	}
}
