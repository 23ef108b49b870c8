package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/events"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
	"github.com/ManasMalla/devfest-vizag-2025/pkg/util/errorutil"
)

// AdminService manages the admins set.
type AdminService struct {
	admins     repository.AdminRepository
	identities auth.IdentityProvider
	authz      *Authorizer
	dispatcher events.Dispatcher
}

// AdminDependencies bundles collaborators for AdminService.
type AdminDependencies struct {
	AdminRepo        repository.AdminRepository
	IdentityProvider auth.IdentityProvider
	Authorizer       *Authorizer
	Dispatcher       events.Dispatcher
}

// AddAdminInput names the user to promote.
type AddAdminInput struct {
	Email string `json:"email" validate:"required,email"`
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	return &AdminService{
		admins:     deps.AdminRepo,
		identities: deps.IdentityProvider,
		authz:      deps.Authorizer,
		dispatcher: deps.Dispatcher,
	}
}

// ListAdmins returns every admin ordered by email.
func (s *AdminService) ListAdmins(ctx context.Context, identity *domain.Identity) ([]domain.Admin, error) {
	if _, err := s.authz.RequireAdmin(ctx, identity); err != nil {
		return nil, err
	}
	return s.admins.List(ctx)
}

// AddAdmin promotes the user registered under input.Email.
func (s *AdminService) AddAdmin(ctx context.Context, identity *domain.Identity, input AddAdminInput) (*domain.Admin, error) {
	actor, err := s.authz.RequireAdmin(ctx, identity)
	if err != nil {
		return nil, err
	}
	admin, err := s.promote(ctx, input)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, events.New(events.EventAdminsChanged, admin.UID, actor.UID, nil))
	return admin, nil
}

// RemoveAdmin demotes uid. Admins cannot remove themselves.
func (s *AdminService) RemoveAdmin(ctx context.Context, identity *domain.Identity, uid string) error {
	actor, err := s.authz.RequireAdmin(ctx, identity)
	if err != nil {
		return err
	}
	if uid == actor.UID {
		return errorutil.NewConflict("You cannot remove yourself as an admin.", nil)
	}
	if err := s.admins.Remove(ctx, uid); err != nil {
		return notFound(err, "Admin")
	}
	publish(ctx, s.dispatcher, events.New(events.EventAdminsChanged, uid, actor.UID, nil))
	return nil
}

// BootstrapAdmin creates the first admin. It refuses once any admin exists.
func (s *AdminService) BootstrapAdmin(ctx context.Context, input AddAdminInput) (*domain.Admin, error) {
	existing, err := s.admins.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, errorutil.NewConflict("An admin already exists. Use an admin account to add more.", nil)
	}
	admin, err := s.promote(ctx, input)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, events.New(events.EventAdminsChanged, admin.UID, "", nil))
	return admin, nil
}

func (s *AdminService) promote(ctx context.Context, input AddAdminInput) (*domain.Admin, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := validateInput(input); err != nil {
		return nil, err
	}
	user, err := s.identities.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, errorutil.NewNotFound("User", map[string]any{"email": input.Email})
		}
		return nil, errorutil.NewIntegrationError(err)
	}
	admin := &domain.Admin{UID: user.UID, Email: input.Email}
	if err := s.admins.Add(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errorutil.NewConflict("This user is already an admin.", nil)
		}
		return nil, err
	}
	return admin, nil
}
