package domain

// Role is the authorization level derived from admin and volunteer records.
type Role string

const (
	RoleAdmin     Role = "Admin"
	RoleTeamLead  Role = "Team Lead"
	RoleVolunteer Role = "Volunteer"
	RoleAttendee  Role = "Attendee"
)

// IsVolunteerRole reports whether the role belongs to the organizing crew.
func (r Role) IsVolunteerRole() bool {
	return r == RoleAdmin || r == RoleTeamLead || r == RoleVolunteer
}

// Identity is the verified caller returned by the identity provider.
type Identity struct {
	UID   string
	Email string
}

// Admin is an entry of the admins set, keyed by uid.
type Admin struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}
