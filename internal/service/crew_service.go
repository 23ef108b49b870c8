package service

import (
	"context"
	"strings"

	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/events"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
)

// CrewService manages teams and volunteer profiles.
type CrewService struct {
	teams      repository.TeamRepository
	volunteers repository.VolunteerRepository
	authz      *Authorizer
	dispatcher events.Dispatcher
}

// CrewDependencies bundles collaborators for CrewService.
type CrewDependencies struct {
	TeamRepo      repository.TeamRepository
	VolunteerRepo repository.VolunteerRepository
	Authorizer    *Authorizer
	Dispatcher    events.Dispatcher
}

// TeamInput names a team.
type TeamInput struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// Dashboard is the crew overview.
type Dashboard struct {
	Teams      []domain.Team
	Volunteers []domain.Volunteer
	Role       domain.Role
}

// NewCrewService constructs the service.
func NewCrewService(deps CrewDependencies) *CrewService {
	return &CrewService{
		teams:      deps.TeamRepo,
		volunteers: deps.VolunteerRepo,
		authz:      deps.Authorizer,
		dispatcher: deps.Dispatcher,
	}
}

// Me resolves the caller's current role and team.
func (s *CrewService) Me(ctx context.Context, identity *domain.Identity) (auth.Actor, error) {
	return s.authz.Actor(ctx, identity)
}

// Dashboard lists teams by name and every volunteer.
func (s *CrewService) Dashboard(ctx context.Context, identity *domain.Identity) (*Dashboard, error) {
	actor, err := s.authz.Require(ctx, identity, auth.Request{Action: auth.ActionViewCrew})
	if err != nil {
		return nil, err
	}
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, err
	}
	volunteers, err := s.volunteers.List(ctx, repository.VolunteerFilter{})
	if err != nil {
		return nil, err
	}
	return &Dashboard{Teams: teams, Volunteers: volunteers, Role: actor.Role}, nil
}

// SaveTeam creates a team when id is empty, otherwise renames it.
func (s *CrewService) SaveTeam(ctx context.Context, identity *domain.Identity, id string, input TeamInput) (*domain.Team, error) {
	actor, err := s.authz.RequireAdmin(ctx, identity)
	if err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	team := &domain.Team{ID: id, Name: input.Name}
	if id == "" {
		err = s.teams.Create(ctx, team)
	} else {
		err = s.teams.Update(ctx, team)
	}
	if err != nil {
		return nil, notFound(err, "Team")
	}
	publish(ctx, s.dispatcher, events.New(events.EventTeamSaved, team.ID, actor.UID, nil))
	return team, nil
}

// DeleteTeam unassigns every member and removes the team atomically.
func (s *CrewService) DeleteTeam(ctx context.Context, identity *domain.Identity, id string) error {
	actor, err := s.authz.RequireAdmin(ctx, identity)
	if err != nil {
		return err
	}
	unassigned, err := s.teams.DeleteAndUnassign(ctx, id)
	if err != nil {
		return notFound(err, "Team")
	}
	publish(ctx, s.dispatcher, events.New(events.EventTeamDeleted, id, actor.UID,
		events.TeamDeletedPayload{UnassignedVolunteers: unassigned}))
	return nil
}

// AssignVolunteerTeam moves a volunteer into a team, or out of any team when
// teamID is empty.
func (s *CrewService) AssignVolunteerTeam(ctx context.Context, identity *domain.Identity, volunteerID, teamID string) error {
	actor, err := s.authz.RequireAdmin(ctx, identity)
	if err != nil {
		return err
	}
	var target *string
	if teamID = strings.TrimSpace(teamID); teamID != "" {
		if _, err := s.teams.GetByID(ctx, teamID); err != nil {
			return notFound(err, "Team")
		}
		target = &teamID
	}
	if err := s.volunteers.SetTeam(ctx, volunteerID, target); err != nil {
		return notFound(err, "Volunteer")
	}
	publish(ctx, s.dispatcher, events.New(events.EventVolunteerUpdated, volunteerID, actor.UID, nil))
	return nil
}

// SetLeadStatus flags or unflags a volunteer as lead.
func (s *CrewService) SetLeadStatus(ctx context.Context, identity *domain.Identity, volunteerID string, isLead bool) error {
	actor, err := s.authz.RequireAdmin(ctx, identity)
	if err != nil {
		return err
	}
	if err := s.volunteers.SetLead(ctx, volunteerID, isLead); err != nil {
		return notFound(err, "Volunteer")
	}
	publish(ctx, s.dispatcher, events.New(events.EventVolunteerUpdated, volunteerID, actor.UID, nil))
	return nil
}
