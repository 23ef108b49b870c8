package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
)

// Actor is the caller as seen by one authorization check.
type Actor struct {
	UID    string
	Email  string
	Role   domain.Role
	TeamID *string
	Name   string
}

// Gate verifies credentials and derives roles from the admins and volunteers
// collections. Nothing is cached between calls.
type Gate struct {
	provider   IdentityProvider
	admins     repository.AdminRepository
	volunteers repository.VolunteerRepository
	logger     *zap.Logger
}

// NewGate wires a gate.
func NewGate(provider IdentityProvider, admins repository.AdminRepository, volunteers repository.VolunteerRepository, logger *zap.Logger) *Gate {
	return &Gate{provider: provider, admins: admins, volunteers: volunteers, logger: logger}
}

// Provider exposes the underlying identity provider.
func (g *Gate) Provider() IdentityProvider {
	return g.provider
}

// Verify returns the caller identity, or nil for any failure.
func (g *Gate) Verify(ctx context.Context, token string) *domain.Identity {
	if token == "" {
		return nil
	}
	identity, err := g.provider.VerifyToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			g.logger.Debug("rejected credential", zap.Error(err))
		} else {
			g.logger.Warn("identity provider unavailable", zap.Error(err))
		}
		return nil
	}
	return identity
}

// ResolveRole derives the role of uid: Admin if listed in admins, Team Lead if
// a volunteer profile has isLead set, Volunteer if a profile exists, otherwise
// Attendee.
func (g *Gate) ResolveRole(ctx context.Context, identity domain.Identity) (Actor, error) {
	actor := Actor{UID: identity.UID, Email: identity.Email, Role: domain.RoleAttendee, Name: identity.Email}

	isAdmin, err := g.admins.Exists(ctx, identity.UID)
	if err != nil {
		return Actor{}, err
	}

	volunteer, err := g.volunteers.GetByID(ctx, identity.UID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		volunteer = nil
	case err != nil:
		return Actor{}, err
	}
	if volunteer != nil {
		actor.TeamID = volunteer.TeamID
		if volunteer.FullName != "" {
			actor.Name = volunteer.FullName
		}
	}

	switch {
	case isAdmin:
		actor.Role = domain.RoleAdmin
	case volunteer != nil && volunteer.IsLead:
		actor.Role = domain.RoleTeamLead
	case volunteer != nil:
		actor.Role = domain.RoleVolunteer
	}
	return actor, nil
}
