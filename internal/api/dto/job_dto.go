package dto

import "github.com/ManasMalla/devfest-vizag-2025/internal/domain"

// JobResponse is the public view of a posting.
type JobResponse struct {
	ID                  string             `json:"id"`
	Title               string             `json:"title"`
	Description         string             `json:"description"`
	Category            domain.JobCategory `json:"category"`
	AdditionalQuestions []string           `json:"additionalQuestions"`
	Status              domain.JobStatus   `json:"status"`
}
