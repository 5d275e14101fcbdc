package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/waybills"
)

// Repository runs the aggregate queries behind a summary. Every query is
// tenant-scoped; the delivery date bounds are optional.
type Repository interface {
	Totals(ctx context.Context, tenantID string, f SummaryFilters) (int64, decimal.Decimal, error)
	StatusTotals(ctx context.Context, tenantID string, f SummaryFilters) ([]StatusBreakdown, error)
	SupplierTotals(ctx context.Context, tenantID string, f SummaryFilters) ([]SupplierBreakdown, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// windowClause appends the optional delivery-date bounds to a WHERE clause
// that already filters on tenant_id as $1.
func windowClause(f SummaryFilters) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	idx := 2
	if !f.DateFrom.IsZero() {
		clauses = append(clauses, fmt.Sprintf("w.delivery_date >= $%d", idx))
		args = append(args, f.DateFrom)
		idx++
	}
	if !f.DateTo.IsZero() {
		clauses = append(clauses, fmt.Sprintf("w.delivery_date <= $%d", idx))
		args = append(args, f.DateTo)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(clauses, " AND "), args
}

func (r *pgxRepository) Totals(ctx context.Context, tenantID string, f SummaryFilters) (int64, decimal.Decimal, error) {
	window, args := windowClause(f)
	query := `SELECT COUNT(*), COALESCE(SUM(w.total_amount), 0)
		FROM waybills w
		WHERE w.tenant_id = $1` + window

	var (
		count int64
		total decimal.Decimal
	)
	err := r.pool.QueryRow(ctx, query, append([]any{tenantID}, args...)...).Scan(&count, &total)
	if err != nil {
		return 0, decimal.Decimal{}, fmt.Errorf("reports: totals: %w", err)
	}
	return count, total, nil
}

func (r *pgxRepository) StatusTotals(ctx context.Context, tenantID string, f SummaryFilters) ([]StatusBreakdown, error) {
	window, args := windowClause(f)
	query := `SELECT w.status, COUNT(*), COALESCE(SUM(w.total_amount), 0)
		FROM waybills w
		WHERE w.tenant_id = $1` + window + `
		GROUP BY w.status
		ORDER BY w.status`

	rows, err := r.pool.Query(ctx, query, append([]any{tenantID}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("reports: status totals: %w", err)
	}
	defer rows.Close()

	var out []StatusBreakdown
	for rows.Next() {
		var b StatusBreakdown
		var status int
		if err := rows.Scan(&status, &b.Count, &b.TotalAmount); err != nil {
			return nil, fmt.Errorf("reports: scan status totals: %w", err)
		}
		b.Status = waybills.Status(status)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *pgxRepository) SupplierTotals(ctx context.Context, tenantID string, f SummaryFilters) ([]SupplierBreakdown, error) {
	window, args := windowClause(f)
	query := `SELECT s.code, s.name, COUNT(*), COALESCE(SUM(w.quantity), 0), COALESCE(SUM(w.total_amount), 0)
		FROM waybills w
		JOIN suppliers s ON s.id = w.supplier_id
		WHERE w.tenant_id = $1` + window + `
		GROUP BY s.code, s.name
		ORDER BY SUM(w.total_amount) DESC, s.code`

	rows, err := r.pool.Query(ctx, query, append([]any{tenantID}, args...)...)
	if err != nil {
		return nil, fmt.Errorf("reports: supplier totals: %w", err)
	}
	defer rows.Close()

	var out []SupplierBreakdown
	for rows.Next() {
		var b SupplierBreakdown
		if err := rows.Scan(&b.SupplierCode, &b.SupplierName, &b.Count, &b.TotalQuantity, &b.TotalAmount); err != nil {
			return nil, fmt.Errorf("reports: scan supplier totals: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
