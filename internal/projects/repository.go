package projects

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/shared"
)

type Repository interface {
	List(ctx context.Context, tenantID string) ([]Project, error)
	Get(ctx context.Context, tenantID, id string) (Project, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, tenantID string) ([]Project, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, tenant_id, name, created_at, updated_at FROM projects WHERE tenant_id = $1 ORDER BY id`,
		tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.TenantID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *repository) Get(ctx context.Context, tenantID, id string) (Project, error) {
	var p Project
	err := r.db.QueryRow(ctx,
		`SELECT id, tenant_id, name, created_at, updated_at FROM projects WHERE tenant_id = $1 AND id = $2`,
		tenantID, id).
		Scan(&p.ID, &p.TenantID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Project{}, shared.ErrNotFound
	}
	return p, err
}
