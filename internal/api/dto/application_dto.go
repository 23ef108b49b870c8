package dto

import (
	"time"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
)

// ApplicationResponse is the admin view of an application.
type ApplicationResponse struct {
	ID                   string                     `json:"id"`
	JobID                string                     `json:"jobId"`
	JobTitle             string                     `json:"jobTitle"`
	UserID               string                     `json:"userId"`
	UserEmail            string                     `json:"userEmail"`
	FullName             string                     `json:"fullName"`
	Phone                string                     `json:"phone"`
	Whatsapp             string                     `json:"whatsapp"`
	Answers              map[string]string          `json:"answers"`
	SubmittedAt          time.Time                  `json:"submittedAt"`
	Status               domain.ApplicationStatus   `json:"status"`
	AvailableTransitions []domain.ApplicationStatus `json:"availableTransitions"`
}

// ApplicationPageResponse is one page of the admin listing.
type ApplicationPageResponse struct {
	Items      []ApplicationResponse `json:"items"`
	NextCursor *string               `json:"nextCursor"`
}

// UpdateApplicationStatusRequest payload.
type UpdateApplicationStatusRequest struct {
	Status domain.ApplicationStatus `json:"status"`
}
