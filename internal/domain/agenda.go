package domain

// AgendaCategories lists the accepted session categories.
var AgendaCategories = []string{"Cloud", "AI", "Web", "Mobile", "Firebase", "Other"}

// AgendaTrack groups sessions into a room or theme.
type AgendaTrack struct {
	ID   string
	Name string
}

// AgendaItem is a scheduled session. TrackName mirrors the referenced track.
type AgendaItem struct {
	ID          string
	Title       string
	Speaker     string
	Description string
	TrackID     string
	TrackName   string
	StartTime   string
	EndTime     string
	Category    string
}
