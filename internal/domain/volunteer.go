package domain

// Volunteer is the crew profile keyed by uid.
type Volunteer struct {
	ID       string
	FullName string
	Email    string
	Phone    string
	JobTitle string
	TeamID   *string
	IsLead   bool
}

// InTeam reports whether the volunteer belongs to teamID.
func (v *Volunteer) InTeam(teamID string) bool {
	return v != nil && v.TeamID != nil && *v.TeamID == teamID
}

// Team represents a volunteer sub-group.
type Team struct {
	ID   string
	Name string
}
