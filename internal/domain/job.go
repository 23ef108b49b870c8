package domain

// JobCategory groups postings by seniority.
type JobCategory string

const (
	JobCategoryLead      JobCategory = "Lead"
	JobCategoryVolunteer JobCategory = "Volunteer"
)

// JobStatus toggles whether a posting accepts applications.
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// Job is a volunteer posting.
type Job struct {
	ID                  string
	Title               string
	Description         string
	Category            JobCategory
	AdditionalQuestions []string
	Status              JobStatus
}

// EffectiveStatus treats legacy postings without a status as open.
func (j *Job) EffectiveStatus() JobStatus {
	if j.Status == "" {
		return JobStatusOpen
	}
	return j.Status
}

// IsOpen reports whether the posting accepts applications.
func (j *Job) IsOpen() bool {
	return j.EffectiveStatus() == JobStatusOpen
}
