package tenants

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MaxDunkelx/waybill-management-system--sub001/internal/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Tenant, error)
	Get(ctx context.Context, id string) (Tenant, error)
	Create(ctx context.Context, tenant Tenant) (Tenant, error)
	UpdateAPIKeyHash(ctx context.Context, id, hash string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Tenant, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, api_key_hash, created_at, updated_at FROM tenants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []Tenant
	for rows.Next() {
		var t Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.APIKeyHash, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Tenant, error) {
	var t Tenant
	err := r.db.QueryRow(ctx,
		`SELECT id, name, api_key_hash, created_at, updated_at FROM tenants WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.APIKeyHash, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Tenant{}, shared.ErrNotFound
	}
	return t, err
}

func (r *repository) Create(ctx context.Context, tenant Tenant) (Tenant, error) {
	now := time.Now()
	_, err := r.db.Exec(ctx,
		`INSERT INTO tenants (id, name, api_key_hash, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		tenant.ID, tenant.Name, tenant.APIKeyHash, now, now)
	if err != nil {
		return Tenant{}, err
	}
	tenant.CreatedAt = now
	tenant.UpdatedAt = now
	return tenant, nil
}

func (r *repository) UpdateAPIKeyHash(ctx context.Context, id, hash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tenants SET api_key_hash = $1, updated_at = $2 WHERE id = $3`, hash, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
