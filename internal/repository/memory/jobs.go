package memory

import (
	"context"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
)

type jobRepo struct{ s *Store }

func (r *jobRepo) Create(_ context.Context, job *domain.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	job.ID = newID(job.ID)
	if _, ok := r.s.jobs[job.ID]; ok {
		return repository.ErrDuplicate
	}
	if job.Status == "" {
		job.Status = domain.JobStatusOpen
	}
	r.s.jobs[job.ID] = cloneJob(*job)
	return nil
}

func (r *jobRepo) Update(_ context.Context, job *domain.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.jobs[job.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title = job.Title
	stored.Description = job.Description
	stored.Category = job.Category
	stored.AdditionalQuestions = copyStrings(job.AdditionalQuestions)
	r.s.jobs[job.ID] = stored
	return nil
}

func (r *jobRepo) SetStatus(_ context.Context, id string, status domain.JobStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.jobs[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Status = status
	r.s.jobs[id] = stored
	return nil
}

func (r *jobRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.jobs, id)
	return nil
}

func (r *jobRepo) GetByID(_ context.Context, id string) (*domain.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stored, ok := r.s.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	job := cloneJob(stored)
	return &job, nil
}

func (r *jobRepo) List(_ context.Context) ([]domain.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Job, 0, len(r.s.jobs))
	for _, j := range r.s.jobs {
		out = append(out, cloneJob(j))
	}
	sortByString(out, func(j domain.Job) string { return j.Title })
	return out, nil
}

// PutLegacyJob stores a job verbatim, including an empty status.
func (s *Store) PutLegacyJob(job domain.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job.ID = newID(job.ID)
	s.jobs[job.ID] = cloneJob(job)
}
