package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
)

// SubscriptionRepository stores newsletter emails and push device tokens.
type SubscriptionRepository interface {
	// Create fails with ErrDuplicate when (kind, value) is already stored.
	Create(ctx context.Context, sub *domain.Subscription) error
	FindByValue(ctx context.Context, kind domain.SubscriptionKind, value string) (*domain.Subscription, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository builds repository.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	const query = `
        INSERT INTO subscriptions (id, kind, value) VALUES ($1,$2,$3)
        RETURNING subscribed_at`
	return mapPgError(r.pool.QueryRow(ctx, query, sub.ID, sub.Kind, sub.Value).Scan(&sub.SubscribedAt))
}

func (r *subscriptionRepository) FindByValue(ctx context.Context, kind domain.SubscriptionKind, value string) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.pool.QueryRow(ctx,
		`SELECT id, kind, value, subscribed_at FROM subscriptions WHERE kind=$1 AND value=$2`, kind, value,
	).Scan(&sub.ID, &sub.Kind, &sub.Value, &sub.SubscribedAt)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &sub, nil
}
