package suppliers

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/shared"
)

// ListFilters narrows supplier listings. TenantID is mandatory; every query
// this repository runs is predicated on it.
type ListFilters struct {
	Search string
	Page   int
	Limit  int
}

type Repository interface {
	List(ctx context.Context, tenantID string, filters ListFilters) ([]Supplier, int, error)
	GetByCode(ctx context.Context, tenantID, code string) (Supplier, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, tenantID string, filters ListFilters) ([]Supplier, int, error) {
	query := `SELECT id, tenant_id, code, name, created_at, updated_at FROM suppliers WHERE tenant_id = $1`
	args := []interface{}{tenantID}

	countQuery := `SELECT COUNT(*) FROM suppliers WHERE tenant_id = $1`
	countArgs := []interface{}{tenantID}

	if filters.Search != "" {
		query += ` AND (name ILIKE $2 OR code ILIKE $2)`
		args = append(args, "%"+filters.Search+"%")
		countQuery += ` AND (name ILIKE $2 OR code ILIKE $2)`
		countArgs = append(countArgs, "%"+filters.Search+"%")
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY code`
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

	var suppliers []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.TenantID, &s.Code, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, total, rows.Err()
}

func (r *repository) GetByCode(ctx context.Context, tenantID, code string) (Supplier, error) {
	var s Supplier
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, code, name, created_at, updated_at FROM suppliers WHERE tenant_id = $1 AND code = $2`,
		tenantID, code).
		Scan(&s.ID, &s.TenantID, &s.Code, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Supplier{}, shared.ErrNotFound
	}
	return s, err
}
