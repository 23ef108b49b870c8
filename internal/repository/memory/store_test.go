package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
)

func stepClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestApplicationsCreateGuards(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	job := &domain.Job{Title: "Stage crew", Category: domain.JobCategoryVolunteer}
	require.NoError(t, repos.Jobs.Create(ctx, job))
	assert.Equal(t, domain.JobStatusOpen, job.Status)

	app := &domain.Application{JobID: job.ID, UserID: "u1"}
	require.NoError(t, repos.Applications.CreateForOpenJob(ctx, app))
	assert.Equal(t, "Stage crew", app.JobTitle)
	assert.Equal(t, domain.ApplicationStatusApplied, app.Status)

	err := repos.Applications.CreateForOpenJob(ctx, &domain.Application{JobID: job.ID, UserID: "u1"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	require.NoError(t, repos.Jobs.SetStatus(ctx, job.ID, domain.JobStatusClosed))
	err = repos.Applications.CreateForOpenJob(ctx, &domain.Application{JobID: job.ID, UserID: "u2"})
	assert.ErrorIs(t, err, repository.ErrJobClosed)

	err = repos.Applications.CreateForOpenJob(ctx, &domain.Application{JobID: "missing", UserID: "u2"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestApplicationsListPagesInSubmissionOrder(t *testing.T) {
	ctx := context.Background()
	store := New(WithClock(stepClock(time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC))))
	repos := store.Repositories()

	job := &domain.Job{Title: "Registration desk"}
	require.NoError(t, repos.Jobs.Create(ctx, job))
	for i := 0; i < 7; i++ {
		require.NoError(t, repos.Applications.CreateForOpenJob(ctx, &domain.Application{
			JobID:  job.ID,
			UserID: fmt.Sprintf("user-%d", i),
		}))
	}

	var seen []domain.Application
	cursor := ""
	for {
		page, err := repos.Applications.List(ctx, repository.ApplicationFilter{StartAfterID: cursor, Limit: 3})
		require.NoError(t, err)
		seen = append(seen, page...)
		if len(page) < 3 {
			break
		}
		cursor = page[len(page)-1].ID
	}

	require.Len(t, seen, 7)
	for i := 1; i < len(seen); i++ {
		assert.True(t, seen[i-1].SubmittedAt.After(seen[i].SubmittedAt))
	}
	assert.Equal(t, "user-6", seen[0].UserID)
}

func TestApplicationsListRequiresIndex(t *testing.T) {
	ctx := context.Background()
	repos := New(WithIndexes(repository.IndexApplicationsBySubmitted)).Repositories()

	_, err := repos.Applications.List(ctx, repository.ApplicationFilter{})
	require.NoError(t, err)

	status := domain.ApplicationStatusApplied
	title := "Stage crew"
	_, err = repos.Applications.List(ctx, repository.ApplicationFilter{Status: &status, JobTitle: &title})
	require.ErrorIs(t, err, repository.ErrIndexRequired)

	var indexErr *repository.IndexError
	require.ErrorAs(t, err, &indexErr)
	assert.Equal(t, repository.IndexApplicationsByStatusAndJobTitle, indexErr.Index)
}

func TestApplicationsUpdateStatusCompareAndSet(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	job := &domain.Job{Title: "Photography"}
	require.NoError(t, repos.Jobs.Create(ctx, job))
	app := &domain.Application{JobID: job.ID, UserID: "u1"}
	require.NoError(t, repos.Applications.CreateForOpenJob(ctx, app))

	require.NoError(t, repos.Applications.UpdateStatus(ctx, app.ID, domain.ApplicationStatusApplied, domain.ApplicationStatusShortlisted))
	err := repos.Applications.UpdateStatus(ctx, app.ID, domain.ApplicationStatusApplied, domain.ApplicationStatusRejected)
	assert.ErrorIs(t, err, repository.ErrStale)
}

func TestTeamDeleteUnassignsMembers(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	team := &domain.Team{Name: "Logistics"}
	require.NoError(t, repos.Teams.Create(ctx, team))
	for _, id := range []string{"v1", "v2", "v3"} {
		require.NoError(t, repos.Volunteers.Create(ctx, &domain.Volunteer{ID: id, TeamID: &team.ID}))
	}
	require.NoError(t, repos.Volunteers.Create(ctx, &domain.Volunteer{ID: "v4"}))

	n, err := repos.Teams.DeleteAndUnassign(ctx, team.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	_, err = repos.Teams.GetByID(ctx, team.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	volunteers, err := repos.Volunteers.List(ctx, repository.VolunteerFilter{})
	require.NoError(t, err)
	for _, v := range volunteers {
		assert.Nil(t, v.TeamID, v.ID)
	}
}

func TestAgendaTrackRenameAndDelete(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	track := &domain.AgendaTrack{Name: "Hall A"}
	require.NoError(t, repos.Agenda.CreateTrack(ctx, track))
	item := &domain.AgendaItem{Title: "Keynote", TrackID: track.ID, TrackName: track.Name, StartTime: "09:00", EndTime: "09:45"}
	require.NoError(t, repos.Agenda.CreateItem(ctx, item))

	n, err := repos.Agenda.RenameTrack(ctx, track.ID, "Main Hall")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	stored, err := repos.Agenda.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Main Hall", stored.TrackName)

	assert.ErrorIs(t, repos.Agenda.DeleteTrackIfUnused(ctx, track.ID), repository.ErrReferenced)
	require.NoError(t, repos.Agenda.DeleteItem(ctx, item.ID))
	require.NoError(t, repos.Agenda.DeleteTrackIfUnused(ctx, track.ID))
}

func TestAgendaItemWritesResolveTrack(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()

	err := repos.Agenda.CreateItem(ctx, &domain.AgendaItem{Title: "Keynote", TrackID: "missing", StartTime: "09:00", EndTime: "09:45"})
	assert.ErrorIs(t, err, repository.ErrDanglingReference)
	items, err := repos.Agenda.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	track := &domain.AgendaTrack{Name: "Hall B"}
	require.NoError(t, repos.Agenda.CreateTrack(ctx, track))
	item := &domain.AgendaItem{Title: "Codelab", TrackID: track.ID, TrackName: "ignored", StartTime: "10:00", EndTime: "11:00"}
	require.NoError(t, repos.Agenda.CreateItem(ctx, item))
	assert.Equal(t, "Hall B", item.TrackName)

	item.TrackID = "missing"
	assert.ErrorIs(t, repos.Agenda.UpdateItem(ctx, item), repository.ErrDanglingReference)
	stored, err := repos.Agenda.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, track.ID, stored.TrackID)
}

func TestAgendaTrackDeleteRacesItemCreates(t *testing.T) {
	ctx := context.Background()

	for round := 0; round < 25; round++ {
		repos := New().Repositories()
		track := &domain.AgendaTrack{Name: "Main"}
		require.NoError(t, repos.Agenda.CreateTrack(ctx, track))

		const writers = 8
		var (
			wg        sync.WaitGroup
			deleteErr error
			createErr = make([]error, writers)
		)
		wg.Add(writers + 1)
		go func() {
			defer wg.Done()
			deleteErr = repos.Agenda.DeleteTrackIfUnused(ctx, track.ID)
		}()
		for i := 0; i < writers; i++ {
			go func(i int) {
				defer wg.Done()
				createErr[i] = repos.Agenda.CreateItem(ctx, &domain.AgendaItem{
					Title: fmt.Sprintf("Talk %d", i), TrackID: track.ID, StartTime: "09:00", EndTime: "10:00",
				})
			}(i)
		}
		wg.Wait()

		for _, err := range createErr {
			if err != nil {
				require.ErrorIs(t, err, repository.ErrDanglingReference)
			}
		}
		items, err := repos.Agenda.ListItems(ctx)
		require.NoError(t, err)
		if deleteErr == nil {
			assert.Empty(t, items, "round %d", round)
			continue
		}
		require.ErrorIs(t, deleteErr, repository.ErrReferenced)
		_, err = repos.Agenda.GetTrack(ctx, track.ID)
		require.NoError(t, err)
		for _, item := range items {
			assert.Equal(t, "Main", item.TrackName)
		}
	}
}

func TestReturnedDocumentsAreCopies(t *testing.T) {
	ctx := context.Background()
	repos := New().Repositories()
	job := &domain.Job{Title: "Hosts", AdditionalQuestions: []string{"Why?"}}
	require.NoError(t, repos.Jobs.Create(ctx, job))

	got, err := repos.Jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	got.AdditionalQuestions[0] = "changed"

	again, err := repos.Jobs.GetByID(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Why?", again.AdditionalQuestions[0])
}
