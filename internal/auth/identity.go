package auth

import (
	"context"
	"errors"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
)

var (
	// ErrInvalidToken covers malformed, expired, revoked or unsigned credentials.
	ErrInvalidToken = errors.New("invalid token")
	// ErrUserNotFound is returned when the provider has no such user.
	ErrUserNotFound = errors.New("user not found")
)

// IdentityProvider verifies credentials and looks up users. Users are never
// created or deleted through it.
type IdentityProvider interface {
	VerifyToken(ctx context.Context, token string) (*domain.Identity, error)
	GetUser(ctx context.Context, uid string) (*domain.Identity, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.Identity, error)
}
