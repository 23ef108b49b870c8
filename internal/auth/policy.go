package auth

import "github.com/ManasMalla/devfest-vizag-2025/internal/domain"

// Action names an operation guarded by the policy table.
type Action string

const (
	ActionManageCatalog           Action = "catalog.manage"
	ActionReviewApplications      Action = "applications.review"
	ActionSubmitApplication       Action = "applications.submit"
	ActionViewCrew                Action = "crew.view"
	ActionCreateTaskForSelf       Action = "tasks.create.self"
	ActionCreateTaskForTeamMember Action = "tasks.create.member"
	ActionCreateTaskForAnyone     Action = "tasks.create.any"
	ActionModifyTask              Action = "tasks.modify"
)

// Request carries everything a decision depends on.
type Request struct {
	Actor  Actor
	Action Action

	// TargetOwnerUID is the assignee for task creation, or the creator of the task being modified.
	TargetOwnerUID string
	// TargetAssigneeUID is the current assignee of the task being modified.
	TargetAssigneeUID string
	// TargetTeamID is the team of the assignee or task.
	TargetTeamID *string
	// OwnershipCheck limits task modification to the people attached to the task.
	OwnershipCheck bool
}

// Authorize is a pure decision over the request.
func Authorize(req Request) bool {
	actor := req.Actor
	switch req.Action {
	case ActionManageCatalog, ActionReviewApplications, ActionCreateTaskForAnyone:
		return actor.Role == domain.RoleAdmin
	case ActionSubmitApplication:
		return actor.UID != ""
	case ActionViewCrew:
		return actor.Role.IsVolunteerRole()
	case ActionCreateTaskForSelf:
		return actor.Role.IsVolunteerRole() && req.TargetOwnerUID == actor.UID
	case ActionCreateTaskForTeamMember:
		switch actor.Role {
		case domain.RoleAdmin:
			return true
		case domain.RoleTeamLead:
			return sameTeam(actor.TeamID, req.TargetTeamID)
		}
		return false
	case ActionModifyTask:
		if !actor.Role.IsVolunteerRole() {
			return false
		}
		if !req.OwnershipCheck || actor.Role == domain.RoleAdmin {
			return true
		}
		if actor.UID == req.TargetOwnerUID || actor.UID == req.TargetAssigneeUID {
			return true
		}
		return actor.Role == domain.RoleTeamLead && sameTeam(actor.TeamID, req.TargetTeamID)
	}
	return false
}

func sameTeam(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}
