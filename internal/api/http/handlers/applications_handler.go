package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManasMalla/devfest-vizag-2025/internal/api/dto"
	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/service"
)

// ApplicationsHandler exposes the application workflow.
type ApplicationsHandler struct {
	service *service.ApplicationService
}

// NewApplicationsHandler constructs handler.
func NewApplicationsHandler(applicationService *service.ApplicationService) *ApplicationsHandler {
	return &ApplicationsHandler{service: applicationService}
}

// Submit POST /api/applications.
func (h *ApplicationsHandler) Submit(c *fiber.Ctx) error {
	var input service.SubmitApplicationInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	app, err := h.service.Submit(c.UserContext(), auth.IdentityFromContext(c), input)
	if err != nil {
		return err
	}
	return created(c, applicationResponse(app))
}

// List GET /api/applications.
func (h *ApplicationsHandler) List(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	page, err := h.service.List(c.UserContext(), auth.IdentityFromContext(c), service.ApplicationQuery{
		Status:   c.Query("status"),
		JobTitle: c.Query("jobTitle"),
		Cursor:   c.Query("cursor"),
		Limit:    limit,
	})
	if err != nil {
		return err
	}
	items := make([]dto.ApplicationResponse, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, applicationResponse(&page.Items[i]))
	}
	return ok(c, dto.ApplicationPageResponse{Items: items, NextCursor: page.NextCursor})
}

// UpdateStatus PATCH /api/applications/:id/status.
func (h *ApplicationsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateApplicationStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	app, err := h.service.UpdateStatus(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return ok(c, applicationResponse(app))
}

// Provision POST /api/applications/:id/provision.
func (h *ApplicationsHandler) Provision(c *fiber.Ctx) error {
	volunteer, err := h.service.Provision(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return created(c, volunteerResponse(volunteer))
}

func applicationResponse(app *domain.Application) dto.ApplicationResponse {
	answers := app.Answers
	if answers == nil {
		answers = map[string]string{}
	}
	return dto.ApplicationResponse{
		ID:                   app.ID,
		JobID:                app.JobID,
		JobTitle:             app.JobTitle,
		UserID:               app.UserID,
		UserEmail:            app.UserEmail,
		FullName:             app.FullName,
		Phone:                app.Phone,
		Whatsapp:             app.Whatsapp,
		Answers:              answers,
		SubmittedAt:          app.SubmittedAt,
		Status:               app.Status,
		AvailableTransitions: app.Status.AvailableTransitions(),
	}
}
