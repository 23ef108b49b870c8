package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
	"github.com/ManasMalla/devfest-vizag-2025/pkg/util/errorutil"
)

func TestDeleteTeamUnassignsMembers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.admin(t, "admin")
	team, err := f.crew.SaveTeam(ctx, admin, "", TeamInput{Name: "  Registration  "})
	require.NoError(t, err)
	assert.Equal(t, "Registration", team.Name)

	f.volunteer(t, "a", team.ID, true)
	f.volunteer(t, "b", team.ID, false)
	keep := f.team(t, "Stage")
	f.volunteer(t, "c", keep, false)

	require.NoError(t, f.crew.DeleteTeam(ctx, admin, team.ID))

	members, err := f.repos.Volunteers.List(ctx, repository.VolunteerFilter{TeamID: &team.ID})
	require.NoError(t, err)
	assert.Empty(t, members)
	for _, uid := range []string{"a", "b"} {
		v, err := f.repos.Volunteers.GetByID(ctx, uid)
		require.NoError(t, err)
		assert.Nil(t, v.TeamID, uid)
	}
	c, err := f.repos.Volunteers.GetByID(ctx, "c")
	require.NoError(t, err)
	require.NotNil(t, c.TeamID)
	assert.Equal(t, keep, *c.TeamID)

	assert.True(t, errorutil.Is(f.crew.DeleteTeam(ctx, admin, team.ID), errorutil.CodeNotFound))
	assert.Contains(t, f.cacheStore.Published(), "/volunteer/dashboard")
}

func TestAssignVolunteerTeamAndLead(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.admin(t, "admin")
	stage := f.team(t, "Stage")
	vol := f.volunteer(t, "vol", "", false)

	require.NoError(t, f.crew.AssignVolunteerTeam(ctx, admin, "vol", stage))
	require.NoError(t, f.crew.SetLeadStatus(ctx, admin, "vol", true))

	me, err := f.crew.Me(ctx, vol)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTeamLead, me.Role)
	require.NotNil(t, me.TeamID)
	assert.Equal(t, stage, *me.TeamID)

	require.NoError(t, f.crew.AssignVolunteerTeam(ctx, admin, "vol", ""))
	me, err = f.crew.Me(ctx, vol)
	require.NoError(t, err)
	assert.Nil(t, me.TeamID)

	assert.True(t, errorutil.Is(f.crew.AssignVolunteerTeam(ctx, admin, "vol", "missing"), errorutil.CodeNotFound))
	assert.True(t, errorutil.Is(f.crew.AssignVolunteerTeam(ctx, admin, "ghost", stage), errorutil.CodeNotFound))
	assert.True(t, errorutil.Is(f.crew.SetLeadStatus(ctx, vol, "vol", false), errorutil.CodeUnauthorized))
}

func TestDashboardRequiresCrewRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.team(t, "Stage")
	vol := f.volunteer(t, "vol", "", false)

	dash, err := f.crew.Dashboard(ctx, vol)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVolunteer, dash.Role)
	assert.Len(t, dash.Teams, 1)
	assert.Len(t, dash.Volunteers, 1)

	_, err = f.crew.Dashboard(ctx, f.user(t, "guest"))
	assert.True(t, errorutil.Is(err, errorutil.CodeUnauthorized))

	me, err := f.crew.Me(ctx, f.user(t, "guest"))
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAttendee, me.Role)
}

func TestSaveTeamValidatesName(t *testing.T) {
	f := newFixture(t)
	_, err := f.crew.SaveTeam(context.Background(), f.admin(t, "admin"), "", TeamInput{Name: "x"})
	require.True(t, errorutil.Is(err, errorutil.CodeValidation))
	assert.Contains(t, errorutil.ToDomainError(err).Details, "name")
}
