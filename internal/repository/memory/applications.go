package memory

import (
	"context"
	"sort"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
)

type applicationRepo struct{ s *Store }

func (r *applicationRepo) CreateForOpenJob(_ context.Context, app *domain.Application) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	job, ok := r.s.jobs[app.JobID]
	if !ok {
		return repository.ErrNotFound
	}
	if !job.IsOpen() {
		return repository.ErrJobClosed
	}
	for _, existing := range r.s.applications {
		if existing.UserID == app.UserID && existing.JobID == app.JobID {
			return repository.ErrDuplicate
		}
	}

	app.ID = newID(app.ID)
	if app.Answers == nil {
		app.Answers = map[string]string{}
	}
	app.JobTitle = job.Title
	app.Status = domain.ApplicationStatusApplied
	app.SubmittedAt = r.s.now().UTC()
	r.s.applications[app.ID] = cloneApplication(*app)
	return nil
}

func (r *applicationRepo) GetByID(_ context.Context, id string) (*domain.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stored, ok := r.s.applications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	app := cloneApplication(stored)
	return &app, nil
}

func (r *applicationRepo) FindByUserAndJob(_ context.Context, userID, jobID string) (*domain.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, stored := range r.s.applications {
		if stored.UserID == userID && stored.JobID == jobID {
			app := cloneApplication(stored)
			return &app, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *applicationRepo) UpdateStatus(_ context.Context, id string, current, next domain.ApplicationStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.applications[id]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Status != current {
		return repository.ErrStale
	}
	stored.Status = next
	r.s.applications[id] = stored
	return nil
}

func (r *applicationRepo) List(_ context.Context, filter repository.ApplicationFilter) ([]domain.Application, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	index := repository.RequiredApplicationIndex(filter)
	if !r.s.indexes[index] {
		return nil, &repository.IndexError{Collection: "applications", Index: index}
	}

	var cursor *domain.Application
	if filter.StartAfterID != "" {
		stored, ok := r.s.applications[filter.StartAfterID]
		if !ok {
			return nil, repository.ErrNotFound
		}
		cursor = &stored
	}

	matches := make([]domain.Application, 0)
	for _, app := range r.s.applications {
		if filter.Status != nil && app.Status != *filter.Status {
			continue
		}
		if filter.JobTitle != nil && app.JobTitle != *filter.JobTitle {
			continue
		}
		if cursor != nil && !before(app, *cursor) {
			continue
		}
		matches = append(matches, app)
	}
	sort.Slice(matches, func(i, j int) bool { return before(matches[j], matches[i]) })

	limit := filter.Limit
	if limit <= 0 {
		limit = repository.DefaultApplicationPageSize
	}
	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]domain.Application, len(matches))
	for i, app := range matches {
		out[i] = cloneApplication(app)
	}
	return out, nil
}

// before compares (SubmittedAt, ID) tuples, the listing key in ascending order.
func before(a, b domain.Application) bool {
	if !a.SubmittedAt.Equal(b.SubmittedAt) {
		return a.SubmittedAt.Before(b.SubmittedAt)
	}
	return a.ID < b.ID
}
