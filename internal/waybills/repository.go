package waybills

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/shared"
)

// ListFilters narrows waybill listings. Every query is additionally
// predicated on the caller's tenant ID.
type ListFilters struct {
	Status       *Status
	SupplierCode string
	ProjectID    string
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int
	Limit        int
}

type Repository interface {
	List(ctx context.Context, tenantID string, filters ListFilters) ([]Waybill, int, error)
	Get(ctx context.Context, tenantID string, id int64) (Waybill, error)
	// UpdateWithVersion applies the mutable fields of w only when the stored
	// version token equals expected, issuing a fresh token on success. A
	// stale token yields *VersionConflictError carrying the current token.
	UpdateWithVersion(ctx context.Context, w Waybill, expected uuid.UUID) (Waybill, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const selectColumns = `w.id, w.tenant_id, w.waybill_id, w.project_id, w.supplier_id, s.code,
	w.waybill_date, w.delivery_date, w.product_code, w.product_name, w.quantity, w.unit,
	w.unit_price, w.total_amount, w.currency, w.status, w.vehicle_number, w.driver_name,
	w.notes, w.version, w.created_at, w.updated_at`

func scanWaybill(row pgx.Row) (Waybill, error) {
	var w Waybill
	err := row.Scan(&w.ID, &w.TenantID, &w.WaybillID, &w.ProjectID, &w.SupplierID, &w.SupplierCode,
		&w.WaybillDate, &w.DeliveryDate, &w.ProductCode, &w.ProductName, &w.Quantity, &w.Unit,
		&w.UnitPrice, &w.TotalAmount, &w.Currency, &w.Status, &w.VehicleNumber, &w.DriverName,
		&w.Notes, &w.Version, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

func (r *repository) List(ctx context.Context, tenantID string, filters ListFilters) ([]Waybill, int, error) {
	where := ` FROM waybills w JOIN suppliers s ON s.id = w.supplier_id WHERE w.tenant_id = $1`
	args := []interface{}{tenantID}

	appendCond := func(cond string, value interface{}) {
		args = append(args, value)
		where += ` AND ` + cond + `$` + strconv.Itoa(len(args))
	}
	if filters.Status != nil {
		appendCond("w.status = ", int(*filters.Status))
	}
	if filters.SupplierCode != "" {
		appendCond("s.code = ", filters.SupplierCode)
	}
	if filters.ProjectID != "" {
		appendCond("w.project_id = ", filters.ProjectID)
	}
	if filters.DateFrom != nil {
		appendCond("w.delivery_date >= ", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		appendCond("w.delivery_date <= ", *filters.DateTo)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + selectColumns + where + ` ORDER BY w.delivery_date DESC, w.waybill_id`
	if filters.Limit > 0 {
		offset := (filters.Page - 1) * filters.Limit
		if offset < 0 {
			offset = 0
		}
		query += ` LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
		args = append(args, filters.Limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Waybill
	for rows.Next() {
		w, err := scanWaybill(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, w)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, tenantID string, id int64) (Waybill, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+selectColumns+` FROM waybills w JOIN suppliers s ON s.id = w.supplier_id
		 WHERE w.tenant_id = $1 AND w.id = $2`, tenantID, id)
	w, err := scanWaybill(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Waybill{}, shared.ErrNotFound
	}
	return w, err
}

func (r *repository) UpdateWithVersion(ctx context.Context, w Waybill, expected uuid.UUID) (Waybill, error) {
	newVersion := uuid.New()
	tag, err := r.db.Exec(ctx,
		`UPDATE waybills SET
			waybill_date = $1, delivery_date = $2, product_code = $3, product_name = $4,
			quantity = $5, unit = $6, unit_price = $7, total_amount = $8, currency = $9,
			status = $10, vehicle_number = $11, driver_name = $12, notes = $13,
			version = $14, updated_at = $15
		 WHERE tenant_id = $16 AND id = $17 AND version = $18`,
		w.WaybillDate, w.DeliveryDate, w.ProductCode, w.ProductName,
		w.Quantity, w.Unit, w.UnitPrice, w.TotalAmount, w.Currency,
		int(w.Status), w.VehicleNumber, w.DriverName, w.Notes,
		newVersion, time.Now(),
		w.TenantID, w.ID, expected)
	if err != nil {
		return Waybill{}, err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a vanished row from a stale token.
		current, err := r.Get(ctx, w.TenantID, w.ID)
		if err != nil {
			return Waybill{}, err
		}
		return Waybill{}, &VersionConflictError{Presented: expected, Current: current.Version}
	}
	return r.Get(ctx, w.TenantID, w.ID)
}
