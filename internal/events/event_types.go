package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventJobSaved                 EventType = "job_saved"
	EventJobDeleted               EventType = "job_deleted"
	EventJobStatusToggled         EventType = "job_status_toggled"
	EventApplicationSubmitted     EventType = "application_submitted"
	EventApplicationStatusChanged EventType = "application_status_changed"
	EventVolunteerProvisioned     EventType = "volunteer_provisioned"
	EventVolunteerUpdated         EventType = "volunteer_updated"
	EventTeamSaved                EventType = "team_saved"
	EventTeamDeleted              EventType = "team_deleted"
	EventTaskSaved                EventType = "task_saved"
	EventTaskDeleted              EventType = "task_deleted"
	EventAgendaChanged            EventType = "agenda_changed"
	EventAgendaTrackChanged       EventType = "agenda_track_changed"
	EventAnnouncementCreated      EventType = "announcement_created"
	EventAnnouncementChanged      EventType = "announcement_changed"
	EventAdminsChanged            EventType = "admins_changed"
	EventSubscriptionAdded        EventType = "subscription_added"
)

// AllEventTypes lists every event type in declaration order.
var AllEventTypes = []EventType{
	EventJobSaved,
	EventJobDeleted,
	EventJobStatusToggled,
	EventApplicationSubmitted,
	EventApplicationStatusChanged,
	EventVolunteerProvisioned,
	EventVolunteerUpdated,
	EventTeamSaved,
	EventTeamDeleted,
	EventTaskSaved,
	EventTaskDeleted,
	EventAgendaChanged,
	EventAgendaTrackChanged,
	EventAnnouncementCreated,
	EventAnnouncementChanged,
	EventAdminsChanged,
	EventSubscriptionAdded,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	ResourceID string      `json:"resource_id"`
	ActorUID   string      `json:"actor_uid,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload,omitempty"`
}

// New stamps an event with an id and the current time.
func New(eventType EventType, resourceID, actorUID string, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		ResourceID: resourceID,
		ActorUID:   actorUID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	}
}

// ApplicationStatusChangedPayload payload.
type ApplicationStatusChangedPayload struct {
	OldStatus domain.ApplicationStatus `json:"old_status"`
	NewStatus domain.ApplicationStatus `json:"new_status"`
}

// AnnouncementCreatedPayload payload.
type AnnouncementCreatedPayload struct {
	Content string `json:"content"`
}

// TeamDeletedPayload payload.
type TeamDeletedPayload struct {
	UnassignedVolunteers int64 `json:"unassigned_volunteers"`
}

// AgendaTrackRenamedPayload payload.
type AgendaTrackRenamedPayload struct {
	Name              string `json:"name"`
	PropagatedToItems int64  `json:"propagated_to_items"`
}
