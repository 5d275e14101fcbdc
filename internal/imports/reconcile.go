package imports

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/platform/db"
	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/waybills"
)

// BatchStore persists one import batch atomically: either every row's upsert
// and reference-entity creation commits, or none do.
type BatchStore interface {
	ReconcileBatch(ctx context.Context, tenantID string, rows []ValidatedRow) ([]waybills.Waybill, error)
}

// Store reconciles validated rows against the ledger inside a single
// transaction per batch.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ReconcileBatch runs every row through reconciliation in one transaction.
// Any failure here is fatal for the whole batch, unlike per-row validation
// errors which were filtered out before this point.
func (s *Store) ReconcileBatch(ctx context.Context, tenantID string, rows []ValidatedRow) ([]waybills.Waybill, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	persisted := make([]waybills.Waybill, 0, len(rows))
	err := db.WithTx(ctx, s.pool, func(tx pgx.Tx) error {
		if err := ensureTenant(ctx, tx, tenantID); err != nil {
			return fmt.Errorf("ensure tenant: %w", err)
		}
		for _, row := range rows {
			waybill, err := reconcileRow(ctx, tx, tenantID, row)
			if err != nil {
				return fmt.Errorf("row %d: %w", row.Row.RowNumber, err)
			}
			persisted = append(persisted, waybill)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return persisted, nil
}

// ensureTenant creates the tenant row with a generated display name when it
// does not pre-exist. The import must not hard-fail on a missing tenant; the
// placeholder carries no usable API credential.
func ensureTenant(ctx context.Context, tx pgx.Tx, tenantID string) error {
	now := time.Now()
	_, err := tx.Exec(ctx,
		`INSERT INTO tenants (id, name, api_key_hash, created_at, updated_at)
		 VALUES ($1, $2, '', $3, $3)
		 ON CONFLICT (id) DO NOTHING`,
		tenantID, "Tenant "+tenantID, now)
	return err
}

func ensureProject(ctx context.Context, tx pgx.Tx, tenantID string, row ValidatedRow) error {
	name := strings.TrimSpace(row.Row.ProjectName)
	if name == "" {
		name = "Project " + strings.TrimSpace(row.Row.ProjectID)
	}
	now := time.Now()
	_, err := tx.Exec(ctx,
		`INSERT INTO projects (tenant_id, id, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)
		 ON CONFLICT (tenant_id, id) DO NOTHING`,
		tenantID, strings.TrimSpace(row.Row.ProjectID), name, now)
	return err
}

// ensureSupplier resolves the supplier's surrogate ID, creating the record on
// first reference. Identity is the (tenant_id, code) pair: the same code
// under another tenant is a distinct supplier.
func ensureSupplier(ctx context.Context, tx pgx.Tx, tenantID string, row ValidatedRow) (int64, error) {
	code := strings.TrimSpace(row.Row.SupplierID)
	name := strings.TrimSpace(row.Row.SupplierName)
	if name == "" {
		name = "Supplier " + code
	}
	now := time.Now()
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO suppliers (tenant_id, code, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)
		 ON CONFLICT (tenant_id, code) DO UPDATE SET updated_at = suppliers.updated_at
		 RETURNING id`,
		tenantID, code, name, now).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// reconcileRow ensures the reference entities exist, then upserts the waybill
// on its natural key (waybill_id, supplier_id, delivery_date) scoped to the
// tenant. An existing match has all mutable fields overwritten and its
// version token bumped; a miss inserts with a fresh token.
func reconcileRow(ctx context.Context, tx pgx.Tx, tenantID string, row ValidatedRow) (waybills.Waybill, error) {
	if err := ensureProject(ctx, tx, tenantID, row); err != nil {
		return waybills.Waybill{}, fmt.Errorf("ensure project: %w", err)
	}
	supplierID, err := ensureSupplier(ctx, tx, tenantID, row)
	if err != nil {
		return waybills.Waybill{}, fmt.Errorf("ensure supplier: %w", err)
	}

	version := uuid.New()
	now := time.Now()
	var w waybills.Waybill
	err = tx.QueryRow(ctx,
		`INSERT INTO waybills (
			tenant_id, waybill_id, project_id, supplier_id, waybill_date, delivery_date,
			product_code, product_name, quantity, unit, unit_price, total_amount,
			currency, status, vehicle_number, driver_name, notes, version, created_at, updated_at
		 ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $19)
		 ON CONFLICT (tenant_id, waybill_id, supplier_id, delivery_date) DO UPDATE SET
			project_id = EXCLUDED.project_id,
			waybill_date = EXCLUDED.waybill_date,
			product_code = EXCLUDED.product_code,
			product_name = EXCLUDED.product_name,
			quantity = EXCLUDED.quantity,
			unit = EXCLUDED.unit,
			unit_price = EXCLUDED.unit_price,
			total_amount = EXCLUDED.total_amount,
			currency = EXCLUDED.currency,
			status = EXCLUDED.status,
			vehicle_number = EXCLUDED.vehicle_number,
			driver_name = EXCLUDED.driver_name,
			notes = EXCLUDED.notes,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at
		 RETURNING id, tenant_id, waybill_id, project_id, supplier_id, waybill_date, delivery_date,
			product_code, product_name, quantity, unit, unit_price, total_amount,
			currency, status, vehicle_number, driver_name, notes, version, created_at, updated_at`,
		tenantID, strings.TrimSpace(row.Row.WaybillID), strings.TrimSpace(row.Row.ProjectID), supplierID,
		row.WaybillDate, row.DeliveryDate,
		strings.TrimSpace(row.Row.ProductCode), strings.TrimSpace(row.Row.ProductName),
		row.Quantity, strings.TrimSpace(row.Row.Unit), row.UnitPrice, row.TotalAmount,
		row.Currency, int(row.Status),
		optional(row.Row.VehicleNumber), optional(row.Row.DriverName), optional(row.Row.Notes),
		version, now).
		Scan(&w.ID, &w.TenantID, &w.WaybillID, &w.ProjectID, &w.SupplierID, &w.WaybillDate, &w.DeliveryDate,
			&w.ProductCode, &w.ProductName, &w.Quantity, &w.Unit, &w.UnitPrice, &w.TotalAmount,
			&w.Currency, &w.Status, &w.VehicleNumber, &w.DriverName, &w.Notes, &w.Version, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return waybills.Waybill{}, fmt.Errorf("upsert waybill: %w", err)
	}
	w.SupplierCode = strings.TrimSpace(row.Row.SupplierID)
	return w, nil
}
