package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
)

// AdminRepository manages the admins set.
type AdminRepository interface {
	Exists(ctx context.Context, uid string) (bool, error)
	Add(ctx context.Context, admin *domain.Admin) error
	Remove(ctx context.Context, uid string) error
	List(ctx context.Context) ([]domain.Admin, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository constructs repository.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) Exists(ctx context.Context, uid string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM admins WHERE uid=$1)`, uid).Scan(&exists); err != nil {
		return false, mapPgError(err)
	}
	return exists, nil
}

func (r *adminRepository) Add(ctx context.Context, admin *domain.Admin) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO admins (uid, email) VALUES ($1,$2)`, admin.UID, admin.Email)
	return mapPgError(err)
}

func (r *adminRepository) Remove(ctx context.Context, uid string) error {
	return expectAffected(r.pool.Exec(ctx, `DELETE FROM admins WHERE uid=$1`, uid))
}

func (r *adminRepository) List(ctx context.Context) ([]domain.Admin, error) {
	rows, err := r.pool.Query(ctx, `SELECT uid, email FROM admins ORDER BY email`)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Admin
	for rows.Next() {
		var admin domain.Admin
		if err := rows.Scan(&admin.UID, &admin.Email); err != nil {
			return nil, err
		}
		result = append(result, admin)
	}
	return result, rows.Err()
}
