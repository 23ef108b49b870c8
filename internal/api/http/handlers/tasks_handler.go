package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManasMalla/devfest-vizag-2025/internal/api/dto"
	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/service"
)

// TasksHandler exposes crew tasks.
type TasksHandler struct {
	service *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{service: taskService}
}

// List GET /api/tasks?teamId=.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	tasks, err := h.service.List(c.UserContext(), auth.IdentityFromContext(c), c.Query("teamId"))
	if err != nil {
		return err
	}
	items := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, taskResponse(&tasks[i]))
	}
	return ok(c, items)
}

// Create POST /api/tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	var input service.CreateTaskInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	task, err := h.service.Create(c.UserContext(), auth.IdentityFromContext(c), input)
	if err != nil {
		return err
	}
	return created(c, taskResponse(task))
}

// Update PUT /api/tasks/:id.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	var input service.UpdateTaskInput
	if err := parseBody(c, &input); err != nil {
		return err
	}
	task, err := h.service.Update(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), input)
	if err != nil {
		return err
	}
	return ok(c, taskResponse(task))
}

// UpdateStatus PATCH /api/tasks/:id/status.
func (h *TasksHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateTaskStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	task, err := h.service.UpdateStatus(c.UserContext(), auth.IdentityFromContext(c), c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return ok(c, taskResponse(task))
}

// Delete DELETE /api/tasks/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), auth.IdentityFromContext(c), c.Params("id")); err != nil {
		return err
	}
	return noContent(c)
}

func taskResponse(task *domain.Task) dto.TaskResponse {
	return dto.TaskResponse{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Status:       task.Status,
		AssigneeID:   task.AssigneeID,
		AssigneeName: task.AssigneeName,
		TeamID:       task.TeamID,
		DueDate:      task.DueDate,
		CreatedAt:    task.CreatedAt,
		CreatedBy:    task.CreatedBy,
		CreatorName:  task.CreatorName,
	}
}
