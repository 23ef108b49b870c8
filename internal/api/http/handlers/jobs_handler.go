package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManasMalla/devfest-vizag-2025/internal/api/dto"
	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/service"
)

// JobsHandler exposes job postings.
type JobsHandler struct {
	service *service.JobService
}

// NewJobsHandler constructs handler.
func NewJobsHandler(jobService *service.JobService) *JobsHandler {
	return &JobsHandler{service: jobService}
}

// List GET /api/jobs.
func (h *JobsHandler) List(c *fiber.Ctx) error {
	jobs, err := h.service.ListJobs(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, jobResponse(&jobs[i]))
	}
	return ok(c, items)
}

// Get GET /api/jobs/:id.
func (h *JobsHandler) Get(c *fiber.Ctx) error {
	job, err := h.service.GetJob(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, jobResponse(job))
}

// Create POST /api/jobs.
func (h *JobsHandler) Create(c *fiber.Ctx) error {
	var input service.JobInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	job, err := h.service.SaveJob(c.UserContext(), auth.IdentityFromContext(c), "", input)
	if err != nil {
		return err
	}
	return created(c, jobResponse(job))
}

// Update PUT /api/jobs/:id.
func (h *JobsHandler) Update(c *fiber.Ctx) error {
	var input service.JobInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	job, err := h.service.SaveJob(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), input)
	if err != nil {
		return err
	}
	return ok(c, jobResponse(job))
}

// Delete DELETE /api/jobs/:id.
func (h *JobsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteJob(c.UserContext(), auth.IdentityFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return noContent(c)
}

// Toggle POST /api/jobs/:id/toggle.
func (h *JobsHandler) Toggle(c *fiber.Ctx) error {
	job, err := h.service.ToggleJobStatus(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, jobResponse(job))
}

func jobResponse(job *domain.Job) dto.JobResponse {
	questions := job.AdditionalQuestions
	if questions == nil {
		questions = []string{}
	}
	return dto.JobResponse{
		ID:                  job.ID,
		Title:               job.Title,
		Description:         job.Description,
		Category:            job.Category,
		AdditionalQuestions: questions,
		Status:              job.EffectiveStatus(),
	}
}
