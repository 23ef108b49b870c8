package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/events"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
	"github.com/ManasMalla/devfest-vizag-2025/pkg/util/errorutil"
)

const maxApplicationPageSize = 100

// ApplicationService runs the volunteer application workflow.
type ApplicationService struct {
	applications repository.ApplicationRepository
	jobs         repository.JobRepository
	volunteers   repository.VolunteerRepository
	identities   auth.IdentityProvider
	authz        *Authorizer
	dispatcher   events.Dispatcher
	logger       *zap.Logger
	pageSize     int
}

// ApplicationDependencies bundles collaborators for ApplicationService.
type ApplicationDependencies struct {
	ApplicationRepo  repository.ApplicationRepository
	JobRepo          repository.JobRepository
	VolunteerRepo    repository.VolunteerRepository
	IdentityProvider auth.IdentityProvider
	Authorizer       *Authorizer
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
	PageSize         int
}

// SubmitApplicationInput is the applicant's form. Answers are keyed by question text.
type SubmitApplicationInput struct {
	JobID    string            `json:"jobId" validate:"required"`
	FullName string            `json:"fullName" validate:"required,min=2"`
	Phone    string            `json:"phone" validate:"required,min=10"`
	Whatsapp string            `json:"whatsapp" validate:"required,min=10"`
	Answers  map[string]string `json:"answers"`
}

func (in *SubmitApplicationInput) normalize() {
	in.JobID = strings.TrimSpace(in.JobID)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Whatsapp = strings.TrimSpace(in.Whatsapp)
	answers := make(map[string]string, len(in.Answers))
	for question, answer := range in.Answers {
		answers[strings.TrimSpace(question)] = strings.TrimSpace(answer)
	}
	in.Answers = answers
}

// ApplicationQuery filters the admin listing. "All" or empty disables a filter.
type ApplicationQuery struct {
	Status   string
	JobTitle string
	Cursor   string
	Limit    int
}

// ApplicationPage is one page of the admin listing. NextCursor is nil on the last page.
type ApplicationPage struct {
	Items      []domain.Application
	NextCursor *string
}

// NewApplicationService constructs the service.
func NewApplicationService(deps ApplicationDependencies) *ApplicationService {
	pageSize := deps.PageSize
	if pageSize <= 0 {
		pageSize = repository.DefaultApplicationPageSize
	}
	return &ApplicationService{
		applications: deps.ApplicationRepo,
		jobs:         deps.JobRepo,
		volunteers:   deps.VolunteerRepo,
		identities:   deps.IdentityProvider,
		authz:        deps.Authorizer,
		dispatcher:   deps.Dispatcher,
		logger:       deps.Logger,
		pageSize:     pageSize,
	}
}

// Submit files an application for the caller. The email is taken from the
// identity provider. Open status and uniqueness are re-checked atomically by
// the store at insert time.
func (s *ApplicationService) Submit(ctx context.Context, identity *domain.Identity, input SubmitApplicationInput) (*domain.Application, error) {
	if identity == nil || identity.UID == "" {
		return nil, errorutil.NewUnauthenticated("You must be signed in to apply.")
	}
	input.normalize()
	if err := validateInput(input); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetByID(ctx, input.JobID)
	if err != nil {
		return nil, notFound(err, "Job")
	}
	if !job.IsOpen() {
		return nil, errJobClosed()
	}
	if err := checkAnswers(job, input.Answers); err != nil {
		return nil, err
	}

	if _, err := s.applications.FindByUserAndJob(ctx, identity.UID, job.ID); err == nil {
		return nil, errAlreadyApplied()
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	user, err := s.identities.GetUser(ctx, identity.UID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, errorutil.NewUnauthenticated("You must be signed in to apply.")
		}
		return nil, errorutil.NewIntegrationError(err)
	}

	app := &domain.Application{
		JobID:     job.ID,
		UserID:    identity.UID,
		UserEmail: user.Email,
		FullName:  input.FullName,
		Phone:     input.Phone,
		Whatsapp:  input.Whatsapp,
		Answers:   input.Answers,
	}
	if err := s.applications.CreateForOpenJob(ctx, app); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, errAlreadyApplied()
		case errors.Is(err, repository.ErrJobClosed):
			return nil, errJobClosed()
		case errors.Is(err, repository.ErrNotFound):
			return nil, errorutil.NewNotFound("Job", nil)
		}
		return nil, err
	}

	publish(ctx, s.dispatcher, events.New(events.EventApplicationSubmitted, app.ID, identity.UID, nil))
	return app, nil
}

// List returns one page of applications, newest first.
func (s *ApplicationService) List(ctx context.Context, identity *domain.Identity, query ApplicationQuery) (*ApplicationPage, error) {
	if _, err := s.authz.Require(ctx, identity, auth.Request{Action: auth.ActionReviewApplications}); err != nil {
		return nil, err
	}

	filter := repository.ApplicationFilter{StartAfterID: strings.TrimSpace(query.Cursor), Limit: query.Limit}
	if status := strings.TrimSpace(query.Status); status != "" && !strings.EqualFold(status, "All") {
		parsed := domain.ApplicationStatus(status)
		if !parsed.Valid() {
			return nil, fieldError("status", "Unknown application status.")
		}
		filter.Status = &parsed
	}
	if title := strings.TrimSpace(query.JobTitle); title != "" && !strings.EqualFold(title, "All") {
		filter.JobTitle = &title
	}
	switch {
	case filter.Limit <= 0:
		filter.Limit = s.pageSize
	case filter.Limit > maxApplicationPageSize:
		filter.Limit = maxApplicationPageSize
	}

	items, err := s.applications.List(ctx, filter)
	if err != nil {
		var indexErr *repository.IndexError
		if errors.As(err, &indexErr) {
			s.logger.Error("application listing needs a composite index",
				zap.String("collection", indexErr.Collection),
				zap.String("index", indexErr.Index),
				zap.String("operator_action", "create the index by running the migrations"))
			return nil, errorutil.NewBackendPrecondition(err)
		}
		if errors.Is(err, repository.ErrNotFound) && filter.StartAfterID != "" {
			return nil, fieldError("cursor", "Unknown cursor.")
		}
		return nil, err
	}

	page := &ApplicationPage{Items: items}
	if len(items) == filter.Limit {
		next := items[len(items)-1].ID
		page.NextCursor = &next
	}
	if page.Items == nil {
		page.Items = []domain.Application{}
	}
	return page, nil
}

// UpdateStatus moves an application along the transition table.
func (s *ApplicationService) UpdateStatus(ctx context.Context, identity *domain.Identity, id string, next domain.ApplicationStatus) (*domain.Application, error) {
	actor, err := s.authz.Require(ctx, identity, auth.Request{Action: auth.ActionReviewApplications})
	if err != nil {
		return nil, err
	}
	if !next.Valid() {
		return nil, fieldError("status", "Unknown application status.")
	}

	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Application")
	}
	current := app.Status
	if !current.CanTransitionTo(next) {
		return nil, errorutil.NewInvalidTransition("No actions available.", map[string]any{
			"current":   current,
			"requested": next,
			"available": current.AvailableTransitions(),
		})
	}

	if err := s.applications.UpdateStatus(ctx, id, current, next); err != nil {
		if errors.Is(err, repository.ErrStale) {
			return nil, errorutil.NewConflict("This application was updated by someone else. Reload and try again.", nil)
		}
		return nil, notFound(err, "Application")
	}
	app.Status = next

	publish(ctx, s.dispatcher, events.New(events.EventApplicationStatusChanged, id, actor.UID,
		events.ApplicationStatusChangedPayload{OldStatus: current, NewStatus: next}))
	return app, nil
}

// Provision creates the volunteer profile of an accepted applicant.
func (s *ApplicationService) Provision(ctx context.Context, identity *domain.Identity, id string) (*domain.Volunteer, error) {
	actor, err := s.authz.RequireAdmin(ctx, identity)
	if err != nil {
		return nil, err
	}
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Application")
	}
	if app.Status != domain.ApplicationStatusAccepted {
		return nil, errorutil.NewConflict("Only accepted applications can be provisioned.", map[string]any{"status": app.Status})
	}

	volunteer := &domain.Volunteer{
		ID:       app.UserID,
		FullName: app.FullName,
		Email:    app.UserEmail,
		Phone:    app.Phone,
		JobTitle: app.JobTitle,
	}
	if err := s.volunteers.Create(ctx, volunteer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errorutil.NewConflict("A volunteer profile already exists for this user.", nil)
		}
		return nil, err
	}

	publish(ctx, s.dispatcher, events.New(events.EventVolunteerProvisioned, volunteer.ID, actor.UID, nil))
	return volunteer, nil
}

func checkAnswers(job *domain.Job, answers map[string]string) error {
	known := make(map[string]struct{}, len(job.AdditionalQuestions))
	for _, q := range job.AdditionalQuestions {
		known[q] = struct{}{}
	}
	for question := range answers {
		if _, ok := known[question]; !ok {
			return fieldError("answers", "Answers must match the job's questions.")
		}
	}
	return nil
}

func errJobClosed() error {
	return errorutil.NewConflict("This job is no longer open for applications.", nil)
}

func errAlreadyApplied() error {
	return errorutil.NewConflict("You have already applied for this job.", nil)
}
