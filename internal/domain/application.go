package domain

import "time"

// ApplicationStatus enumerates lifecycle states for job applications.
type ApplicationStatus string

const (
	ApplicationStatusApplied     ApplicationStatus = "Applied"
	ApplicationStatusShortlisted ApplicationStatus = "Shortlisted"
	ApplicationStatusAccepted    ApplicationStatus = "Accepted"
	ApplicationStatusRejected    ApplicationStatus = "Rejected"
)

// ApplicationStatuses lists every status in display order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusApplied,
	ApplicationStatusShortlisted,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
}

// Valid reports whether s is a known status.
func (s ApplicationStatus) Valid() bool {
	for _, known := range ApplicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusApplied:     {ApplicationStatusShortlisted, ApplicationStatusRejected},
	ApplicationStatusShortlisted: {ApplicationStatusAccepted, ApplicationStatusRejected},
	ApplicationStatusRejected:    {ApplicationStatusApplied, ApplicationStatusShortlisted},
	ApplicationStatusAccepted:    {},
}

// AvailableTransitions returns the statuses reachable from s.
func (s ApplicationStatus) AvailableTransitions() []ApplicationStatus {
	next := applicationTransitions[s]
	out := make([]ApplicationStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether next is reachable from s in one step.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, candidate := range applicationTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// Application is a user's submission against a job.
type Application struct {
	ID          string
	JobID       string
	JobTitle    string
	UserID      string
	UserEmail   string
	FullName    string
	Phone       string
	Whatsapp    string
	Answers     map[string]string
	SubmittedAt time.Time
	Status      ApplicationStatus
}
