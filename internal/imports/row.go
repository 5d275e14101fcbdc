package imports

// Canonical snake_case CSV column names. Header order is irrelevant; columns
// are matched by name.
const (
	ColWaybillID       = "waybill_id"
	ColWaybillDate     = "waybill_date"
	ColDeliveryDate    = "delivery_date"
	ColProjectID       = "project_id"
	ColSupplierID      = "supplier_id"
	ColProductCode     = "product_code"
	ColProductName     = "product_name"
	ColQuantity        = "quantity"
	ColUnit            = "unit"
	ColUnitPrice       = "unit_price"
	ColTotalAmount     = "total_amount"
	ColDeliveryAddress = "delivery_address"
	ColCurrency        = "currency"
	ColStatus          = "status"
	ColVehicleNumber   = "vehicle_number"
	ColDriverName      = "driver_name"
	ColNotes           = "notes"
	ColProjectName     = "project_name"
	ColSupplierName    = "supplier_name"
	ColTenantID        = "tenant_id"
)

// RequiredColumns lists the fields that must be non-empty on every row.
var RequiredColumns = []string{
	ColWaybillID, ColWaybillDate, ColDeliveryDate, ColProjectID, ColSupplierID,
	ColProductCode, ColProductName, ColQuantity, ColUnit, ColUnitPrice,
	ColTotalAmount, ColDeliveryAddress,
}

// ImportRow holds one CSV line exactly as parsed: raw strings, immutable once
// built. RowNumber is 1-indexed from the first data row.
type ImportRow struct {
	RowNumber int

	WaybillID       string
	WaybillDate     string
	DeliveryDate    string
	ProjectID       string
	SupplierID      string
	ProductCode     string
	ProductName     string
	Quantity        string
	Unit            string
	UnitPrice       string
	TotalAmount     string
	DeliveryAddress string

	Currency      string
	Status        string
	VehicleNumber string
	DriverName    string
	Notes         string
	ProjectName   string
	SupplierName  string
	TenantID      string

	// Raw is the original line joined back for error snapshots.
	Raw string
}

// Field returns the raw value for a canonical column name.
func (r ImportRow) Field(column string) string {
	switch column {
	case ColWaybillID:
		return r.WaybillID
	case ColWaybillDate:
		return r.WaybillDate
	case ColDeliveryDate:
		return r.DeliveryDate
	case ColProjectID:
		return r.ProjectID
	case ColSupplierID:
		return r.SupplierID
	case ColProductCode:
		return r.ProductCode
	case ColProductName:
		return r.ProductName
	case ColQuantity:
		return r.Quantity
	case ColUnit:
		return r.Unit
	case ColUnitPrice:
		return r.UnitPrice
	case ColTotalAmount:
		return r.TotalAmount
	case ColDeliveryAddress:
		return r.DeliveryAddress
	case ColCurrency:
		return r.Currency
	case ColStatus:
		return r.Status
	case ColVehicleNumber:
		return r.VehicleNumber
	case ColDriverName:
		return r.DriverName
	case ColNotes:
		return r.Notes
	case ColProjectName:
		return r.ProjectName
	case ColSupplierName:
		return r.SupplierName
	case ColTenantID:
		return r.TenantID
	default:
		return ""
	}
}
