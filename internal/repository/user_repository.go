package repository

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
)

// DirectoryUser is a record in the local identity directory.
type DirectoryUser struct {
	UID           string
	Email         string
	Disabled      bool
	RevokedBefore *time.Time
}

// UserRepository reads the local identity directory backing the jwt provider.
type UserRepository interface {
	Upsert(ctx context.Context, user *DirectoryUser) error
	GetByID(ctx context.Context, uid string) (*DirectoryUser, error)
	GetByEmail(ctx context.Context, email string) (*DirectoryUser, error)
	RevokeTokens(ctx context.Context, uid string, before time.Time) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

// Identity projects the directory record onto the domain identity.
func (u *DirectoryUser) Identity() domain.Identity {
	return domain.Identity{UID: u.UID, Email: u.Email}
}

func (r *userRepository) Upsert(ctx context.Context, user *DirectoryUser) error {
	const query = `
        INSERT INTO users (uid, email, disabled)
        VALUES ($1, $2, $3)
        ON CONFLICT (uid) DO UPDATE SET email=EXCLUDED.email, disabled=EXCLUDED.disabled`
	_, err := r.pool.Exec(ctx, query, user.UID, strings.ToLower(user.Email), user.Disabled)
	return mapPgError(err)
}

func (r *userRepository) GetByID(ctx context.Context, uid string) (*DirectoryUser, error) {
	return r.get(ctx, `SELECT uid, email, disabled, revoked_before FROM users WHERE uid=$1`, uid)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*DirectoryUser, error) {
	return r.get(ctx, `SELECT uid, email, disabled, revoked_before FROM users WHERE email=$1`, strings.ToLower(email))
}

func (r *userRepository) RevokeTokens(ctx context.Context, uid string, before time.Time) error {
	return expectAffected(r.pool.Exec(ctx, `UPDATE users SET revoked_before=$1 WHERE uid=$2`, before, uid))
}

func (r *userRepository) get(ctx context.Context, query string, arg string) (*DirectoryUser, error) {
	var user DirectoryUser
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.UID,
		&user.Email,
		&user.Disabled,
		&user.RevokedBefore,
	); err != nil {
		return nil, mapPgError(err)
	}
	return &user, nil
}
