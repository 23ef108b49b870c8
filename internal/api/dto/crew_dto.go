package dto

import (
	"time"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
)

// TeamResponse view.
type TeamResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// VolunteerResponse view.
type VolunteerResponse struct {
	ID       string  `json:"id"`
	FullName string  `json:"fullName"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	JobTitle string  `json:"jobTitle"`
	TeamID   *string `json:"teamId"`
	IsLead   bool    `json:"isLead"`
}

// TaskResponse view.
type TaskResponse struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Status       domain.TaskStatus `json:"status"`
	AssigneeID   string            `json:"assigneeId"`
	AssigneeName string            `json:"assigneeName"`
	TeamID       *string           `json:"teamId"`
	DueDate      *time.Time        `json:"dueDate"`
	CreatedAt    time.Time         `json:"createdAt"`
	CreatedBy    string            `json:"createdBy"`
	CreatorName  string            `json:"creatorName"`
}

// DashboardResponse groups the crew overview.
type DashboardResponse struct {
	Teams      []TeamResponse      `json:"teams"`
	Volunteers []VolunteerResponse `json:"volunteers"`
	Role       domain.Role         `json:"role"`
}

// MeResponse describes the caller.
type MeResponse struct {
	UID    string      `json:"uid"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	TeamID *string     `json:"teamId"`
}

// AssignTeamRequest payload. A null or empty teamId removes the volunteer from any team.
type AssignTeamRequest struct {
	TeamID *string `json:"teamId"`
}

// SetLeadRequest payload.
type SetLeadRequest struct {
	IsLead *bool `json:"isLead"`
}

// UpdateTaskStatusRequest payload.
type UpdateTaskStatusRequest struct {
	Status domain.TaskStatus `json:"status"`
}
