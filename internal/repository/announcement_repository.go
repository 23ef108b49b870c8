package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
)

// AnnouncementRepository persists announcements.
type AnnouncementRepository interface {
	Create(ctx context.Context, announcement *domain.Announcement) error
	Update(ctx context.Context, announcement *domain.Announcement) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Announcement, error)
	List(ctx context.Context) ([]domain.Announcement, error)
}

type announcementRepository struct {
	pool *pgxpool.Pool
}

// NewAnnouncementRepository builds repository.
func NewAnnouncementRepository(pool *pgxpool.Pool) AnnouncementRepository {
	return &announcementRepository{pool: pool}
}

func (r *announcementRepository) Create(ctx context.Context, announcement *domain.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	const query = `INSERT INTO announcements (id, content) VALUES ($1,$2) RETURNING created_at`
	return mapPgError(r.pool.QueryRow(ctx, query, announcement.ID, announcement.Content).Scan(&announcement.CreatedAt))
}

func (r *announcementRepository) Update(ctx context.Context, announcement *domain.Announcement) error {
	const query = `UPDATE announcements SET content=$1 WHERE id=$2 RETURNING created_at`
	return mapPgError(r.pool.QueryRow(ctx, query, announcement.Content, announcement.ID).Scan(&announcement.CreatedAt))
}

func (r *announcementRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.pool.Exec(ctx, `DELETE FROM announcements WHERE id=$1`, id))
}

func (r *announcementRepository) GetByID(ctx context.Context, id string) (*domain.Announcement, error) {
	var a domain.Announcement
	err := r.pool.QueryRow(ctx, `SELECT id, content, created_at FROM announcements WHERE id=$1`, id).
		Scan(&a.ID, &a.Content, &a.CreatedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &a, nil
}

func (r *announcementRepository) List(ctx context.Context) ([]domain.Announcement, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, content, created_at FROM announcements ORDER BY created_at DESC`)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Announcement
	for rows.Next() {
		var a domain.Announcement
		if err := rows.Scan(&a.ID, &a.Content, &a.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}
