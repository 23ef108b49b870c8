package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
)

// Claims describes the local JWT payload.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// LocalProvider verifies HS256 tokens against the users directory table.
// Disabled users and tokens issued before a user's revocation time are rejected.
type LocalProvider struct {
	secret []byte
	issuer string
	users  repository.UserRepository
	now    func() time.Time
}

// NewLocalProvider builds a provider.
func NewLocalProvider(secret, issuer string, users repository.UserRepository) *LocalProvider {
	return &LocalProvider{secret: []byte(secret), issuer: issuer, users: users, now: time.Now}
}

// IssueToken signs a token for uid. Used by hubctl and tests.
func (p *LocalProvider) IssueToken(uid, email string, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = time.Hour
	}
	issuedAt := p.now()
	expiresAt := issuedAt.Add(ttl)
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			Issuer:    p.issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// VerifyToken checks signature, issuer, expiry and revocation.
func (p *LocalProvider) VerifyToken(ctx context.Context, tokenStr string) (*domain.Identity, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	user, err := p.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", ErrInvalidToken)
		}
		return nil, err
	}
	if user.Disabled {
		return nil, fmt.Errorf("%w: user disabled", ErrInvalidToken)
	}
	if user.RevokedBefore != nil && claims.IssuedAt != nil && claims.IssuedAt.Time.Before(*user.RevokedBefore) {
		return nil, fmt.Errorf("%w: token revoked", ErrInvalidToken)
	}

	identity := user.Identity()
	return &identity, nil
}

// GetUser returns the directory entry for uid.
func (p *LocalProvider) GetUser(ctx context.Context, uid string) (*domain.Identity, error) {
	user, err := p.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	identity := user.Identity()
	return &identity, nil
}

// GetUserByEmail resolves an email address to its directory entry.
func (p *LocalProvider) GetUserByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	user, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	identity := user.Identity()
	return &identity, nil
}
