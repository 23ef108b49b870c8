package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/events"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
	"github.com/ManasMalla/devfest-vizag-2025/pkg/util/errorutil"
)

// TaskService manages crew tasks.
type TaskService struct {
	tasks          repository.TaskRepository
	volunteers     repository.VolunteerRepository
	teams          repository.TeamRepository
	authz          *Authorizer
	dispatcher     events.Dispatcher
	ownershipCheck bool
}

// TaskDependencies bundles collaborators for TaskService.
type TaskDependencies struct {
	TaskRepo       repository.TaskRepository
	VolunteerRepo  repository.VolunteerRepository
	TeamRepo       repository.TeamRepository
	Authorizer     *Authorizer
	Dispatcher     events.Dispatcher
	OwnershipCheck bool
}

// CreateTaskInput describes a new task. An empty assignee means the caller.
// Admins may name a team instead; the task then goes to its lead.
type CreateTaskInput struct {
	Title       string            `json:"title" validate:"required,min=3"`
	Description string            `json:"description" validate:"max=2000"`
	AssigneeID  string            `json:"assigneeId"`
	TeamID      string            `json:"teamId"`
	DueDate     *time.Time        `json:"dueDate"`
	Status      domain.TaskStatus `json:"status" validate:"omitempty,oneof='To Do' 'In Progress' Done"`
}

// UpdateTaskInput edits the descriptive fields of a task.
type UpdateTaskInput struct {
	Title       string            `json:"title" validate:"required,min=3"`
	Description string            `json:"description" validate:"max=2000"`
	DueDate     *time.Time        `json:"dueDate"`
	Status      domain.TaskStatus `json:"status" validate:"required,oneof='To Do' 'In Progress' Done"`
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		tasks:          deps.TaskRepo,
		volunteers:     deps.VolunteerRepo,
		teams:          deps.TeamRepo,
		authz:          deps.Authorizer,
		dispatcher:     deps.Dispatcher,
		ownershipCheck: deps.OwnershipCheck,
	}
}

// List returns tasks newest first, optionally limited to one team.
func (s *TaskService) List(ctx context.Context, identity *domain.Identity, teamID string) ([]domain.Task, error) {
	if _, err := s.authz.Require(ctx, identity, auth.Request{Action: auth.ActionViewCrew}); err != nil {
		return nil, err
	}
	filter := repository.TaskFilter{}
	if teamID = strings.TrimSpace(teamID); teamID != "" {
		filter.TeamID = &teamID
	}
	tasks, err := s.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return tasks, nil
}

// Create routes a new task to its assignee according to the caller's role.
func (s *TaskService) Create(ctx context.Context, identity *domain.Identity, input CreateTaskInput) (*domain.Task, error) {
	actor, err := s.authz.Actor(ctx, identity)
	if err != nil {
		return nil, err
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.AssigneeID = strings.TrimSpace(input.AssigneeID)
	input.TeamID = strings.TrimSpace(input.TeamID)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	assignee, err := s.resolveAssignee(ctx, actor, input)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = domain.TaskStatusToDo
	}
	task := &domain.Task{
		Title:        input.Title,
		Description:  input.Description,
		Status:       status,
		AssigneeID:   assignee.ID,
		AssigneeName: assignee.FullName,
		TeamID:       assignee.TeamID,
		DueDate:      input.DueDate,
		CreatedBy:    actor.UID,
		CreatorName:  actor.Name,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	publish(ctx, s.dispatcher, events.New(events.EventTaskSaved, task.ID, actor.UID, nil))
	return task, nil
}

// resolveAssignee applies the creation rules. Admin tasks for someone else
// always land on the lead of the chosen team.
func (s *TaskService) resolveAssignee(ctx context.Context, actor auth.Actor, input CreateTaskInput) (*domain.Volunteer, error) {
	assigneeID := input.AssigneeID
	if assigneeID == "" && input.TeamID == "" {
		assigneeID = actor.UID
	}

	if assigneeID == actor.UID {
		if !auth.Authorize(auth.Request{Actor: actor, Action: auth.ActionCreateTaskForSelf, TargetOwnerUID: actor.UID}) {
			return nil, errorutil.NewForbidden("")
		}
		self, err := s.volunteers.GetByID(ctx, actor.UID)
		if errors.Is(err, repository.ErrNotFound) {
			return &domain.Volunteer{ID: actor.UID, FullName: actor.Name, TeamID: actor.TeamID}, nil
		}
		return self, err
	}

	if actor.Role == domain.RoleAdmin {
		return s.teamLead(ctx, actor, assigneeID, input.TeamID)
	}

	assignee, err := s.volunteers.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fieldError("assigneeId", "Unknown assignee.")
		}
		return nil, err
	}
	if !auth.Authorize(auth.Request{
		Actor:          actor,
		Action:         auth.ActionCreateTaskForTeamMember,
		TargetOwnerUID: assignee.ID,
		TargetTeamID:   assignee.TeamID,
	}) {
		return nil, errorutil.NewForbidden("")
	}
	return assignee, nil
}

func (s *TaskService) teamLead(ctx context.Context, actor auth.Actor, assigneeID, teamID string) (*domain.Volunteer, error) {
	if !auth.Authorize(auth.Request{Actor: actor, Action: auth.ActionCreateTaskForAnyone}) {
		return nil, errorutil.NewForbidden("")
	}
	if teamID == "" && assigneeID != "" {
		assignee, err := s.volunteers.GetByID(ctx, assigneeID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fieldError("assigneeId", "Unknown assignee.")
			}
			return nil, err
		}
		if assignee.TeamID != nil {
			teamID = *assignee.TeamID
		}
	}
	if teamID == "" {
		return nil, fieldError("teamId", "teamId is required")
	}
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, notFound(err, "Team")
	}
	lead, err := s.volunteers.FindLead(ctx, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errorutil.NewConflict("This team has no designated lead.", map[string]any{"teamId": teamID})
		}
		return nil, err
	}
	return lead, nil
}

// Update edits a task. Assignment is fixed at creation.
func (s *TaskService) Update(ctx context.Context, identity *domain.Identity, id string, input UpdateTaskInput) (*domain.Task, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	actor, task, err := s.authorizeModify(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	task.Title = input.Title
	task.Description = input.Description
	task.DueDate = input.DueDate
	task.Status = input.Status
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, notFound(err, "Task")
	}
	publish(ctx, s.dispatcher, events.New(events.EventTaskSaved, id, actor.UID, nil))
	return task, nil
}

// UpdateStatus sets any valid status; tasks have no transition table.
func (s *TaskService) UpdateStatus(ctx context.Context, identity *domain.Identity, id string, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, fieldError("status", "Status must be one of: To Do, In Progress, Done.")
	}
	actor, task, err := s.authorizeModify(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	if err := s.tasks.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFound(err, "Task")
	}
	task.Status = status
	publish(ctx, s.dispatcher, events.New(events.EventTaskSaved, id, actor.UID, nil))
	return task, nil
}

// Delete removes a task.
func (s *TaskService) Delete(ctx context.Context, identity *domain.Identity, id string) error {
	actor, _, err := s.authorizeModify(ctx, identity, id)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id); err != nil {
		return notFound(err, "Task")
	}
	publish(ctx, s.dispatcher, events.New(events.EventTaskDeleted, id, actor.UID, nil))
	return nil
}

func (s *TaskService) authorizeModify(ctx context.Context, identity *domain.Identity, id string) (auth.Actor, *domain.Task, error) {
	actor, err := s.authz.Actor(ctx, identity)
	if err != nil {
		return auth.Actor{}, nil, err
	}
	if !actor.Role.IsVolunteerRole() {
		return auth.Actor{}, nil, errorutil.NewForbidden("")
	}
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return auth.Actor{}, nil, notFound(err, "Task")
	}
	if !auth.Authorize(auth.Request{
		Actor:             actor,
		Action:            auth.ActionModifyTask,
		TargetOwnerUID:    task.CreatedBy,
		TargetAssigneeUID: task.AssigneeID,
		TargetTeamID:      task.TeamID,
		OwnershipCheck:    s.ownershipCheck,
	}) {
		return auth.Actor{}, nil, errorutil.NewForbidden("")
	}
	return actor, task, nil
}
