package memory

import (
	"context"
	"sort"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
)

type volunteerRepo struct{ s *Store }

func (r *volunteerRepo) Create(_ context.Context, v *domain.Volunteer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v.ID = newID(v.ID)
	if _, ok := r.s.volunteers[v.ID]; ok {
		return repository.ErrDuplicate
	}
	r.s.volunteers[v.ID] = cloneVolunteer(*v)
	return nil
}

func (r *volunteerRepo) GetByID(_ context.Context, id string) (*domain.Volunteer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stored, ok := r.s.volunteers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	v := cloneVolunteer(stored)
	return &v, nil
}

func (r *volunteerRepo) FindLead(_ context.Context, teamID string) (*domain.Volunteer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, stored := range r.s.volunteers {
		if stored.IsLead && stored.InTeam(teamID) {
			v := cloneVolunteer(stored)
			return &v, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *volunteerRepo) List(_ context.Context, filter repository.VolunteerFilter) ([]domain.Volunteer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Volunteer, 0, len(r.s.volunteers))
	for _, v := range r.s.volunteers {
		if filter.TeamID != nil && !v.InTeam(*filter.TeamID) {
			continue
		}
		if filter.IsLead != nil && v.IsLead != *filter.IsLead {
			continue
		}
		out = append(out, cloneVolunteer(v))
	}
	sortByString(out, func(v domain.Volunteer) string { return v.FullName })
	return out, nil
}

func (r *volunteerRepo) SetTeam(_ context.Context, id string, teamID *string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.volunteers[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.TeamID = copyStringPtr(teamID)
	r.s.volunteers[id] = stored
	return nil
}

func (r *volunteerRepo) SetLead(_ context.Context, id string, isLead bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.volunteers[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.IsLead = isLead
	r.s.volunteers[id] = stored
	return nil
}

type teamRepo struct{ s *Store }

func (r *teamRepo) Create(_ context.Context, team *domain.Team) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	team.ID = newID(team.ID)
	if _, ok := r.s.teams[team.ID]; ok {
		return repository.ErrDuplicate
	}
	r.s.teams[team.ID] = *team
	return nil
}

func (r *teamRepo) Update(_ context.Context, team *domain.Team) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.teams[team.ID]; !ok {
		return repository.ErrNotFound
	}
	r.s.teams[team.ID] = *team
	return nil
}

func (r *teamRepo) GetByID(_ context.Context, id string) (*domain.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stored, ok := r.s.teams[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &stored, nil
}

func (r *teamRepo) List(_ context.Context) ([]domain.Team, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Team, 0, len(r.s.teams))
	for _, t := range r.s.teams {
		out = append(out, t)
	}
	sortByString(out, func(t domain.Team) string { return t.Name })
	return out, nil
}

func (r *teamRepo) DeleteAndUnassign(_ context.Context, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.teams[id]; !ok {
		return 0, repository.ErrNotFound
	}
	var unassigned int64
	for vid, v := range r.s.volunteers {
		if v.InTeam(id) {
			v.TeamID = nil
			r.s.volunteers[vid] = v
			unassigned++
		}
	}
	delete(r.s.teams, id)
	return unassigned, nil
}

type taskRepo struct{ s *Store }

func (r *taskRepo) Create(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	task.ID = newID(task.ID)
	if _, ok := r.s.tasks[task.ID]; ok {
		return repository.ErrDuplicate
	}
	task.CreatedAt = r.s.now().UTC()
	r.s.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (r *taskRepo) Update(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.tasks[task.ID]
	if !ok {
		return repository.ErrNotFound
	}
	updated := cloneTask(*task)
	updated.CreatedAt = stored.CreatedAt
	updated.CreatedBy = stored.CreatedBy
	updated.CreatorName = stored.CreatorName
	r.s.tasks[task.ID] = updated
	return nil
}

func (r *taskRepo) UpdateStatus(_ context.Context, id string, status domain.TaskStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.tasks[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Status = status
	r.s.tasks[id] = stored
	return nil
}

func (r *taskRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tasks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.tasks, id)
	return nil
}

func (r *taskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stored, ok := r.s.tasks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	t := cloneTask(stored)
	return &t, nil
}

func (r *taskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Task, 0, len(r.s.tasks))
	for _, t := range r.s.tasks {
		if filter.TeamID != nil && (t.TeamID == nil || *t.TeamID != *filter.TeamID) {
			continue
		}
		if filter.AssigneeID != nil && t.AssigneeID != *filter.AssigneeID {
			continue
		}
		out = append(out, cloneTask(t))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type adminRepo struct{ s *Store }

func (r *adminRepo) Exists(_ context.Context, uid string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.admins[uid]
	return ok, nil
}

func (r *adminRepo) Add(_ context.Context, admin *domain.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.admins[admin.UID]; ok {
		return repository.ErrDuplicate
	}
	r.s.admins[admin.UID] = *admin
	return nil
}

func (r *adminRepo) Remove(_ context.Context, uid string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.admins[uid]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.admins, uid)
	return nil
}

func (r *adminRepo) List(_ context.Context) ([]domain.Admin, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Admin, 0, len(r.s.admins))
	for _, a := range r.s.admins {
		out = append(out, a)
	}
	sortByString(out, func(a domain.Admin) string { return a.Email })
	return out, nil
}
