package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManasMalla/devfest-vizag-2025/internal/api/dto"
	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/service"
	"github.com/ManasMalla/devfest-vizag-2025/pkg/util/errorutil"
)

// CrewHandler exposes teams, volunteers and the caller's role.
type CrewHandler struct {
	service *service.CrewService
}

// NewCrewHandler constructs handler.
func NewCrewHandler(crewService *service.CrewService) *CrewHandler {
	return &CrewHandler{service: crewService}
}

// Me GET /api/me.
func (h *CrewHandler) Me(c *fiber.Ctx) error {
	actor, err := h.service.Me(c.UserContext(), auth.IdentityFromContext(c))
	if err != nil {
		return err
	}
	return ok(c, dto.MeResponse{UID: actor.UID, Email: actor.Email, Role: actor.Role, TeamID: actor.TeamID})
}

// Dashboard GET /api/dashboard.
func (h *CrewHandler) Dashboard(c *fiber.Ctx) error {
	board, err := h.service.Dashboard(c.UserContext(), auth.IdentityFromContext(c))
	if err != nil {
		return err
	}
	resp := dto.DashboardResponse{
		Teams:      make([]dto.TeamResponse, 0, len(board.Teams)),
		Volunteers: make([]dto.VolunteerResponse, 0, len(board.Volunteers)),
		Role:       board.Role,
	}
	for i := range board.Teams {
		resp.Teams = append(resp.Teams, teamResponse(&board.Teams[i]))
	}
	for i := range board.Volunteers {
		resp.Volunteers = append(resp.Volunteers, volunteerResponse(&board.Volunteers[i]))
	}
	return ok(c, resp)
}

// CreateTeam POST /api/teams.
func (h *CrewHandler) CreateTeam(c *fiber.Ctx) error {
	var input service.TeamInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	team, err := h.service.SaveTeam(c.UserContext(), auth.IdentityFromContext(c), "", input)
	if err != nil {
		return err
	}
	return created(c, teamResponse(team))
}

// UpdateTeam PUT /api/teams/:id.
func (h *CrewHandler) UpdateTeam(c *fiber.Ctx) error {
	var input service.TeamInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	team, err := h.service.SaveTeam(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), input)
	if err != nil {
		return err
	}
	return ok(c, teamResponse(team))
}

// DeleteTeam DELETE /api/teams/:id.
func (h *CrewHandler) DeleteTeam(c *fiber.Ctx) error {
	if err := h.service.DeleteTeam(c.UserContext(), auth.IdentityFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return noContent(c)
}

// AssignTeam PUT /api/volunteers/:id/team.
func (h *CrewHandler) AssignTeam(c *fiber.Ctx) error {
	var req dto.AssignTeamRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	teamID := ""
	if req.TeamID != nil {
		teamID = *req.TeamID
	}
	if err := h.service.AssignVolunteerTeam(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), teamID); err != nil {
		return err
	}
	return noContent(c)
}

// SetLead PUT /api/volunteers/:id/lead.
func (h *CrewHandler) SetLead(c *fiber.Ctx) error {
	var req dto.SetLeadRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.IsLead == nil {
		return errorutil.NewValidationError("Invalid input.", map[string]any{"isLead": "This field is required."})
	}
	if err := h.service.SetLeadStatus(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), *req.IsLead); err != nil {
		return err
	}
	return noContent(c)
}

func teamResponse(team *domain.Team) dto.TeamResponse {
	return dto.TeamResponse{ID: team.ID, Name: team.Name}
}

func volunteerResponse(v *domain.Volunteer) dto.VolunteerResponse {
	return dto.VolunteerResponse{
		ID:       v.ID,
		FullName: v.FullName,
		Email:    v.Email,
		Phone:    v.Phone,
		JobTitle: v.JobTitle,
		TeamID:   v.TeamID,
		IsLead:   v.IsLead,
	}
}
