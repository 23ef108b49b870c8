package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository/memory"
)

func TestGateResolveRole(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()
	gate := NewGate(NewLocalProvider("s", "i", repos.Users), repos.Admins, repos.Volunteers, zap.NewNop())

	team := "team-1"
	require.NoError(t, repos.Admins.Add(ctx, &domain.Admin{UID: "admin", Email: "admin@example.com"}))
	require.NoError(t, repos.Volunteers.Create(ctx, &domain.Volunteer{ID: "lead", FullName: "Lead", TeamID: &team, IsLead: true}))
	require.NoError(t, repos.Volunteers.Create(ctx, &domain.Volunteer{ID: "vol", FullName: "Vol", TeamID: &team}))

	cases := map[string]domain.Role{
		"admin":    domain.RoleAdmin,
		"lead":     domain.RoleTeamLead,
		"vol":      domain.RoleVolunteer,
		"stranger": domain.RoleAttendee,
	}
	for uid, want := range cases {
		actor, err := gate.ResolveRole(ctx, domain.Identity{UID: uid})
		require.NoError(t, err)
		assert.Equal(t, want, actor.Role, uid)

		again, err := gate.ResolveRole(ctx, domain.Identity{UID: uid})
		require.NoError(t, err)
		assert.Equal(t, actor, again, uid)
	}

	lead, err := gate.ResolveRole(ctx, domain.Identity{UID: "lead"})
	require.NoError(t, err)
	require.NotNil(t, lead.TeamID)
	assert.Equal(t, team, *lead.TeamID)
	assert.Equal(t, "Lead", lead.Name)
}

func TestGateRoleFollowsMembershipChanges(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()
	gate := NewGate(NewLocalProvider("s", "i", repos.Users), repos.Admins, repos.Volunteers, zap.NewNop())
	require.NoError(t, repos.Volunteers.Create(ctx, &domain.Volunteer{ID: "u1"}))

	actor, err := gate.ResolveRole(ctx, domain.Identity{UID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVolunteer, actor.Role)

	require.NoError(t, repos.Volunteers.SetLead(ctx, "u1", true))
	actor, err = gate.ResolveRole(ctx, domain.Identity{UID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTeamLead, actor.Role)

	require.NoError(t, repos.Admins.Add(ctx, &domain.Admin{UID: "u1"}))
	actor, err = gate.ResolveRole(ctx, domain.Identity{UID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, actor.Role)

	require.NoError(t, repos.Admins.Remove(ctx, "u1"))
	require.NoError(t, repos.Volunteers.SetLead(ctx, "u1", false))
	actor, err = gate.ResolveRole(ctx, domain.Identity{UID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleVolunteer, actor.Role)
}

func TestGateVerifyReturnsNilOnFailure(t *testing.T) {
	ctx := context.Background()
	repos := memory.New().Repositories()
	provider := NewLocalProvider("s", "i", repos.Users)
	gate := NewGate(provider, repos.Admins, repos.Volunteers, zap.NewNop())
	require.NoError(t, repos.Users.Upsert(ctx, &repository.DirectoryUser{UID: "u1", Email: "u1@example.com"}))

	assert.Nil(t, gate.Verify(ctx, ""))
	assert.Nil(t, gate.Verify(ctx, "garbage"))

	token, _, err := provider.IssueToken("u1", "u1@example.com", time.Hour)
	require.NoError(t, err)
	identity := gate.Verify(ctx, token)
	require.NotNil(t, identity)
	assert.Equal(t, "u1", identity.UID)
}
