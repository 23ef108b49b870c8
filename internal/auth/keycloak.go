package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/Nerzal/gocloak/v13"
	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/ManasMalla/devfest-vizag-2025/internal/config"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
)

// keycloakClaims is the subset of a Keycloak access token the hub reads.
type keycloakClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// KeycloakProvider verifies RS256 access tokens against the realm JWKS and
// looks users up through the admin API with a service account.
type KeycloakProvider struct {
	client   *gocloak.GoCloak
	jwks     *keyfunc.JWKS
	tokens   *serviceTokenCache
	realm    string
	issuer   string
	audience string
	leeway   time.Duration
	logger   *zap.Logger
}

// serviceTokenRefreshMargin renews the service account token this long
// before Keycloak would expire it.
const serviceTokenRefreshMargin = 30 * time.Second

// serviceTokenCache holds the client-credentials token shared by admin API
// calls. Concurrent callers wait for a single login.
type serviceTokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	login     func(ctx context.Context) (*gocloak.JWT, error)
	now       func() time.Time
}

func (c *serviceTokenCache) get(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.now().Before(c.expiresAt) {
		return c.token, nil
	}
	creds, err := c.login(ctx)
	if err != nil {
		return "", fmt.Errorf("keycloak service login: %w", err)
	}
	c.token = creds.AccessToken
	c.expiresAt = c.now().Add(time.Duration(creds.ExpiresIn)*time.Second - serviceTokenRefreshMargin)
	return c.token, nil
}

// invalidate drops token if it is still the cached one.
func (c *serviceTokenCache) invalidate(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token == token {
		c.token = ""
	}
}

// NewKeycloakProvider fetches the realm JWKS once; keys refresh in the background.
func NewKeycloakProvider(cfg config.KeycloakConfig, logger *zap.Logger) (*KeycloakProvider, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	realmURL := fmt.Sprintf("%s/realms/%s", baseURL, cfg.Realm)

	jwks, err := keyfunc.Get(realmURL+"/protocol/openid-connect/certs", keyfunc.Options{
		RefreshInterval:  time.Hour,
		RefreshRateLimit: 5 * time.Minute,
		RefreshTimeout:   10 * time.Second,
		RefreshErrorHandler: func(err error) {
			logger.Warn("keycloak jwks refresh failed", zap.Error(err))
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch keycloak jwks: %w", err)
	}

	client := gocloak.NewClient(baseURL)
	return &KeycloakProvider{
		client: client,
		jwks:   jwks,
		tokens: &serviceTokenCache{
			login: func(ctx context.Context) (*gocloak.JWT, error) {
				return client.LoginClient(ctx, cfg.ClientID, cfg.ClientSecret, cfg.Realm)
			},
			now: time.Now,
		},
		realm:    cfg.Realm,
		issuer:   realmURL,
		audience: cfg.Audience,
		leeway:   30 * time.Second,
		logger:   logger,
	}, nil
}

// Close stops the JWKS refresh goroutine.
func (p *KeycloakProvider) Close() {
	p.jwks.EndBackground()
}

// VerifyToken validates the token and treats disabled accounts as revoked.
func (p *KeycloakProvider) VerifyToken(ctx context.Context, tokenStr string) (*domain.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithIssuer(p.issuer),
		jwt.WithLeeway(p.leeway),
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithExpirationRequired(),
	}
	if p.audience != "" {
		opts = append(opts, jwt.WithAudience(p.audience))
	}

	claims := &keycloakClaims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, p.jwks.Keyfunc, opts...)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user, err := p.lookupByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", ErrInvalidToken)
		}
		return nil, err
	}
	if user.Enabled != nil && !*user.Enabled {
		return nil, fmt.Errorf("%w: user disabled", ErrInvalidToken)
	}
	return toIdentity(user), nil
}

// GetUser returns the Keycloak user with id uid.
func (p *KeycloakProvider) GetUser(ctx context.Context, uid string) (*domain.Identity, error) {
	user, err := p.lookupByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return toIdentity(user), nil
}

// GetUserByEmail resolves an exact email match.
func (p *KeycloakProvider) GetUserByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	token, err := p.tokens.get(ctx)
	if err != nil {
		return nil, err
	}
	users, err := p.client.GetUsers(ctx, token, p.realm, gocloak.GetUsersParams{
		Email: gocloak.StringP(email),
		Exact: gocloak.BoolP(true),
		Max:   gocloak.IntP(2),
	})
	if err != nil {
		p.dropRejectedToken(token, err)
		return nil, fmt.Errorf("keycloak get users: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrUserNotFound
	}
	if len(users) > 1 {
		return nil, fmt.Errorf("keycloak: multiple users matched %s", email)
	}
	return toIdentity(users[0]), nil
}

func (p *KeycloakProvider) lookupByID(ctx context.Context, uid string) (*gocloak.User, error) {
	token, err := p.tokens.get(ctx)
	if err != nil {
		return nil, err
	}
	user, err := p.client.GetUserByID(ctx, token, p.realm, uid)
	if err != nil {
		var apiErr *gocloak.APIError
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return nil, ErrUserNotFound
		}
		p.dropRejectedToken(token, err)
		return nil, fmt.Errorf("keycloak get user: %w", err)
	}
	return user, nil
}

// dropRejectedToken forgets a service token the admin API refused, so the
// next call logs in again.
func (p *KeycloakProvider) dropRejectedToken(token string, err error) {
	var apiErr *gocloak.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		p.logger.Warn("keycloak rejected cached service token")
		p.tokens.invalidate(token)
	}
}

func toIdentity(user *gocloak.User) *domain.Identity {
	return &domain.Identity{
		UID:   gocloak.PString(user.ID),
		Email: strings.ToLower(gocloak.PString(user.Email)),
	}
}
