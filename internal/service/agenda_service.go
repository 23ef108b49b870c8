package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ManasMalla/devfest-vizag-2025/internal/cache"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/events"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
	"github.com/ManasMalla/devfest-vizag-2025/pkg/util/errorutil"
)

// AgendaService manages sessions and tracks.
type AgendaService struct {
	agenda     repository.AgendaRepository
	authz      *Authorizer
	listings   *cache.Listings
	dispatcher events.Dispatcher
}

// AgendaDependencies bundles collaborators for AgendaService.
type AgendaDependencies struct {
	AgendaRepo repository.AgendaRepository
	Authorizer *Authorizer
	Listings   *cache.Listings
	Dispatcher events.Dispatcher
}

// AgendaItemInput is a session payload. Times are "HH:MM".
type AgendaItemInput struct {
	Title       string `json:"title" validate:"required,min=3"`
	Speaker     string `json:"speaker" validate:"max=200"`
	Description string `json:"description" validate:"max=5000"`
	TrackID     string `json:"trackId" validate:"required"`
	StartTime   string `json:"startTime" validate:"required,clock"`
	EndTime     string `json:"endTime" validate:"required,clock"`
	Category    string `json:"category" validate:"omitempty,oneof=Cloud AI Web Mobile Firebase Other"`
}

// TrackInput names a track.
type TrackInput struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// NewAgendaService constructs the service.
func NewAgendaService(deps AgendaDependencies) *AgendaService {
	return &AgendaService{
		agenda:     deps.AgendaRepo,
		authz:      deps.Authorizer,
		listings:   deps.Listings,
		dispatcher: deps.Dispatcher,
	}
}

// ListItems returns sessions ordered by start time.
func (s *AgendaService) ListItems(ctx context.Context) ([]domain.AgendaItem, error) {
	return cache.Fetch(ctx, s.listings, cache.KeyAgenda, s.agenda.ListItems)
}

// ListTracks returns tracks ordered by name.
func (s *AgendaService) ListTracks(ctx context.Context) ([]domain.AgendaTrack, error) {
	return cache.Fetch(ctx, s.listings, cache.KeyAgendaTracks, s.agenda.ListTracks)
}

// SaveItem creates a session when id is empty, otherwise replaces it. The
// store copies the track name while it holds the track.
func (s *AgendaService) SaveItem(ctx context.Context, identity *domain.Identity, id string, input AgendaItemInput) (*domain.AgendaItem, error) {
	actor, err := s.authz.RequireAdmin(ctx, identity)
	if err != nil {
		return nil, err
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Speaker = strings.TrimSpace(input.Speaker)
	input.Description = strings.TrimSpace(input.Description)
	input.TrackID = strings.TrimSpace(input.TrackID)
	input.StartTime = strings.TrimSpace(input.StartTime)
	input.EndTime = strings.TrimSpace(input.EndTime)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	// Zero-padded HH:MM compares correctly as a string.
	if input.EndTime <= input.StartTime {
		return nil, fieldError("endTime", "End time must be after start time.")
	}

	item := &domain.AgendaItem{
		ID:          id,
		Title:       input.Title,
		Speaker:     input.Speaker,
		Description: input.Description,
		TrackID:     input.TrackID,
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Category:    input.Category,
	}
	if id == "" {
		err = s.agenda.CreateItem(ctx, item)
	} else {
		err = s.agenda.UpdateItem(ctx, item)
	}
	if errors.Is(err, repository.ErrDanglingReference) {
		return nil, fieldError("trackId", "Unknown track.")
	}
	if err != nil {
		return nil, notFound(err, "Agenda item")
	}
	publish(ctx, s.dispatcher, events.New(events.EventAgendaChanged, item.ID, actor.UID, nil))
	return item, nil
}

// DeleteItem removes a session.
func (s *AgendaService) DeleteItem(ctx context.Context, identity *domain.Identity, id string) error {
	actor, err := s.authz.RequireAdmin(ctx, identity)
	if err != nil {
		return err
	}
	if err := s.agenda.DeleteItem(ctx, id); err != nil {
		return notFound(err, "Agenda item")
	}
	publish(ctx, s.dispatcher, events.New(events.EventAgendaChanged, id, actor.UID, nil))
	return nil
}

// SaveTrack creates a track, or renames it and every session that carries its name.
func (s *AgendaService) SaveTrack(ctx context.Context, identity *domain.Identity, id string, input TrackInput) (*domain.AgendaTrack, error) {
	actor, err := s.authz.RequireAdmin(ctx, identity)
	if err != nil {
		return nil, err
	}
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	track := &domain.AgendaTrack{ID: id, Name: input.Name}
	var payload any
	if id == "" {
		if err := s.agenda.CreateTrack(ctx, track); err != nil {
			return nil, err
		}
	} else {
		propagated, err := s.agenda.RenameTrack(ctx, id, input.Name)
		if err != nil {
			return nil, notFound(err, "Track")
		}
		payload = events.AgendaTrackRenamedPayload{Name: input.Name, PropagatedToItems: propagated}
	}
	publish(ctx, s.dispatcher, events.New(events.EventAgendaTrackChanged, track.ID, actor.UID, payload))
	return track, nil
}

// DeleteTrack removes a track that no session references.
func (s *AgendaService) DeleteTrack(ctx context.Context, identity *domain.Identity, id string) error {
	actor, err := s.authz.RequireAdmin(ctx, identity)
	if err != nil {
		return err
	}
	if err := s.agenda.DeleteTrackIfUnused(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return errorutil.NewConflict("Cannot delete track. It is currently being used by one or more agenda items.", nil)
		}
		return notFound(err, "Track")
	}
	publish(ctx, s.dispatcher, events.New(events.EventAgendaTrackChanged, id, actor.UID, nil))
	return nil
}
