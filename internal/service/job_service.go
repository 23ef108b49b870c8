package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ManasMalla/devfest-vizag-2025/internal/cache"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/events"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
	"github.com/ManasMalla/devfest-vizag-2025/pkg/util/errorutil"
)

// JobService manages job postings.
type JobService struct {
	jobs       repository.JobRepository
	authz      *Authorizer
	listings   *cache.Listings
	dispatcher events.Dispatcher
}

// JobDependencies bundles collaborators for JobService.
type JobDependencies struct {
	JobRepo    repository.JobRepository
	Authorizer *Authorizer
	Listings   *cache.Listings
	Dispatcher events.Dispatcher
}

// JobInput is the create/update payload of a posting.
type JobInput struct {
	Title               string             `json:"title" validate:"required,min=3"`
	Description         string             `json:"description" validate:"required,min=10"`
	Category            domain.JobCategory `json:"category" validate:"required,oneof=Lead Volunteer"`
	AdditionalQuestions []string           `json:"additionalQuestions" validate:"dive,max=500"`
}

func (in *JobInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	questions := make([]string, 0, len(in.AdditionalQuestions))
	for _, q := range in.AdditionalQuestions {
		for _, line := range strings.Split(q, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				questions = append(questions, line)
			}
		}
	}
	in.AdditionalQuestions = questions
}

// NewJobService constructs the service.
func NewJobService(deps JobDependencies) *JobService {
	return &JobService{
		jobs:       deps.JobRepo,
		authz:      deps.Authorizer,
		listings:   deps.Listings,
		dispatcher: deps.Dispatcher,
	}
}

// ListJobs returns every posting ordered by title. Legacy postings without a
// status read as open.
func (s *JobService) ListJobs(ctx context.Context) ([]domain.Job, error) {
	jobs, err := cache.Fetch(ctx, s.listings, cache.KeyJobs, s.jobs.List)
	if err != nil {
		return nil, err
	}
	for i := range jobs {
		jobs[i].Status = jobs[i].EffectiveStatus()
	}
	return jobs, nil
}

// GetJob returns one posting.
func (s *JobService) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Job")
	}
	job.Status = job.EffectiveStatus()
	return job, nil
}

// SaveJob creates a posting when id is empty, otherwise updates it. The
// open/closed status is only changed through ToggleJobStatus.
func (s *JobService) SaveJob(ctx context.Context, identity *domain.Identity, id string, input JobInput) (*domain.Job, error) {
	actor, err := s.authz.RequireAdmin(ctx, identity)
	if err != nil {
		return nil, err
	}
	input.normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	job := &domain.Job{
		ID:                  id,
		Title:               input.Title,
		Description:         input.Description,
		Category:            input.Category,
		AdditionalQuestions: input.AdditionalQuestions,
	}
	if id == "" {
		job.Status = domain.JobStatusOpen
		if err := s.jobs.Create(ctx, job); err != nil {
			return nil, err
		}
	} else {
		if err := s.jobs.Update(ctx, job); err != nil {
			return nil, notFound(err, "Job")
		}
		if job, err = s.jobs.GetByID(ctx, id); err != nil {
			return nil, notFound(err, "Job")
		}
		job.Status = job.EffectiveStatus()
	}

	publish(ctx, s.dispatcher, events.New(events.EventJobSaved, job.ID, actor.UID, nil))
	return job, nil
}

// DeleteJob removes a posting. Its applications are kept.
func (s *JobService) DeleteJob(ctx context.Context, identity *domain.Identity, id string) error {
	actor, err := s.authz.RequireAdmin(ctx, identity)
	if err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, id); err != nil {
		return notFound(err, "Job")
	}
	publish(ctx, s.dispatcher, events.New(events.EventJobDeleted, id, actor.UID, nil))
	return nil
}

// ToggleJobStatus flips a posting between open and closed.
func (s *JobService) ToggleJobStatus(ctx context.Context, identity *domain.Identity, id string) (*domain.Job, error) {
	actor, err := s.authz.RequireAdmin(ctx, identity)
	if err != nil {
		return nil, err
	}
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Job")
	}
	next := domain.JobStatusClosed
	if !job.IsOpen() {
		next = domain.JobStatusOpen
	}
	if err := s.jobs.SetStatus(ctx, id, next); err != nil {
		return nil, notFound(err, "Job")
	}
	job.Status = next

	publish(ctx, s.dispatcher, events.New(events.EventJobStatusToggled, id, actor.UID, nil))
	return job, nil
}

// notFound names the missing resource when err is a repository miss.
func notFound(err error, resource string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return errorutil.NewNotFound(resource, nil)
	}
	return err
}
