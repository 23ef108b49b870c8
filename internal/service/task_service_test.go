package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/pkg/util/errorutil"
)

func TestAdminTaskRoutesToTeamLead(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.admin(t, "admin")
	stage := f.team(t, "Stage")
	f.volunteer(t, "lead", stage, true)
	f.volunteer(t, "member", stage, false)

	t.Run("by team", func(t *testing.T) {
		task, err := f.tasks.Create(ctx, admin, CreateTaskInput{Title: "Check mics", TeamID: stage})
		require.NoError(t, err)
		assert.Equal(t, "lead", task.AssigneeID)
		assert.Equal(t, "Volunteer lead", task.AssigneeName)
		require.NotNil(t, task.TeamID)
		assert.Equal(t, stage, *task.TeamID)
		assert.Equal(t, domain.TaskStatusToDo, task.Status)
		assert.Equal(t, "admin", task.CreatedBy)
	})

	t.Run("by member", func(t *testing.T) {
		task, err := f.tasks.Create(ctx, admin, CreateTaskInput{Title: "Tape cables", AssigneeID: "member"})
		require.NoError(t, err)
		assert.Equal(t, "lead", task.AssigneeID)
	})
}

func TestAdminTaskRoutingFailures(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.admin(t, "admin")
	leaderless := f.team(t, "Food")
	f.volunteer(t, "floater", "", false)

	_, err := f.tasks.Create(ctx, admin, CreateTaskInput{Title: "Order lunch", TeamID: leaderless})
	require.Error(t, err)
	assert.True(t, errorutil.Is(err, errorutil.CodeConflict))

	_, err = f.tasks.Create(ctx, admin, CreateTaskInput{Title: "Order lunch", AssigneeID: "floater"})
	require.Error(t, err)
	assert.True(t, errorutil.Is(err, errorutil.CodeValidation))
	assert.Contains(t, errorutil.ToDomainError(err).Details, "teamId")

	_, err = f.tasks.Create(ctx, admin, CreateTaskInput{Title: "Order lunch", TeamID: "missing"})
	assert.True(t, errorutil.Is(err, errorutil.CodeNotFound))

	tasks, err := f.tasks.List(ctx, admin, "")
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTeamLeadAssignsWithinOwnTeam(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	stage := f.team(t, "Stage")
	desk := f.team(t, "Desk")
	lead := f.volunteer(t, "lead", stage, true)
	f.volunteer(t, "mate", stage, false)
	f.volunteer(t, "other", desk, false)

	task, err := f.tasks.Create(ctx, lead, CreateTaskInput{Title: "Sound check", AssigneeID: "mate"})
	require.NoError(t, err)
	assert.Equal(t, "mate", task.AssigneeID)
	assert.Equal(t, "Volunteer lead", task.CreatorName)

	_, err = f.tasks.Create(ctx, lead, CreateTaskInput{Title: "Sound check", AssigneeID: "other"})
	assert.True(t, errorutil.Is(err, errorutil.CodeUnauthorized))

	_, err = f.tasks.Create(ctx, lead, CreateTaskInput{Title: "Sound check", AssigneeID: "ghost"})
	assert.True(t, errorutil.Is(err, errorutil.CodeValidation))
}

func TestVolunteerCreatesTasksForSelfOnly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	stage := f.team(t, "Stage")
	vol := f.volunteer(t, "vol", stage, false)
	f.volunteer(t, "mate", stage, false)

	task, err := f.tasks.Create(ctx, vol, CreateTaskInput{Title: "Collect badges"})
	require.NoError(t, err)
	assert.Equal(t, "vol", task.AssigneeID)
	require.NotNil(t, task.TeamID)
	assert.Equal(t, stage, *task.TeamID)

	_, err = f.tasks.Create(ctx, vol, CreateTaskInput{Title: "Collect badges", AssigneeID: "mate"})
	assert.True(t, errorutil.Is(err, errorutil.CodeUnauthorized))
}

func TestAttendeeCannotTouchTasks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	vol := f.volunteer(t, "vol", "", false)
	attendee := f.user(t, "guest")

	task, err := f.tasks.Create(ctx, vol, CreateTaskInput{Title: "Collect badges"})
	require.NoError(t, err)

	_, err = f.tasks.Create(ctx, attendee, CreateTaskInput{Title: "Collect badges"})
	assert.True(t, errorutil.Is(err, errorutil.CodeUnauthorized))
	_, err = f.tasks.List(ctx, attendee, "")
	assert.True(t, errorutil.Is(err, errorutil.CodeUnauthorized))
	_, err = f.tasks.UpdateStatus(ctx, attendee, task.ID, domain.TaskStatusDone)
	assert.True(t, errorutil.Is(err, errorutil.CodeUnauthorized))
	assert.True(t, errorutil.Is(f.tasks.Delete(ctx, attendee, task.ID), errorutil.CodeUnauthorized))
	_, err = f.tasks.Create(ctx, nil, CreateTaskInput{Title: "Collect badges"})
	assert.True(t, errorutil.Is(err, errorutil.CodeUnauthenticated))
}

func TestTaskModificationWithoutOwnershipCheck(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.volunteer(t, "owner", "", false)
	stranger := f.volunteer(t, "stranger", "", false)

	task, err := f.tasks.Create(ctx, owner, CreateTaskInput{Title: "Hang banners"})
	require.NoError(t, err)

	updated, err := f.tasks.UpdateStatus(ctx, stranger, task.ID, domain.TaskStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)

	updated, err = f.tasks.Update(ctx, stranger, task.ID, UpdateTaskInput{Title: "Hang more banners", Status: domain.TaskStatusDone})
	require.NoError(t, err)
	assert.Equal(t, "Hang more banners", updated.Title)
	assert.Equal(t, "owner", updated.AssigneeID)

	_, err = f.tasks.UpdateStatus(ctx, stranger, task.ID, domain.TaskStatus("Blocked"))
	assert.True(t, errorutil.Is(err, errorutil.CodeValidation))

	require.NoError(t, f.tasks.Delete(ctx, stranger, task.ID))
	assert.True(t, errorutil.Is(f.tasks.Delete(ctx, stranger, task.ID), errorutil.CodeNotFound))
}

func TestTaskModificationWithOwnershipCheck(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, withOwnershipCheck())
	stage := f.team(t, "Stage")
	owner := f.volunteer(t, "owner", stage, false)
	lead := f.volunteer(t, "lead", stage, true)
	stranger := f.volunteer(t, "stranger", "", false)
	admin := f.admin(t, "admin")

	task, err := f.tasks.Create(ctx, owner, CreateTaskInput{Title: "Hang banners"})
	require.NoError(t, err)

	_, err = f.tasks.UpdateStatus(ctx, stranger, task.ID, domain.TaskStatusDone)
	assert.True(t, errorutil.Is(err, errorutil.CodeUnauthorized))

	for _, caller := range []*domain.Identity{owner, lead, admin} {
		_, err := f.tasks.UpdateStatus(ctx, caller, task.ID, domain.TaskStatusInProgress)
		assert.NoError(t, err, caller.UID)
	}
}
