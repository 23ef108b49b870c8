package service

import (
	"context"
	"strings"

	"github.com/ManasMalla/devfest-vizag-2025/internal/cache"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/events"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
)

// AnnouncementService manages site announcements.
type AnnouncementService struct {
	announcements repository.AnnouncementRepository
	authz         *Authorizer
	listings      *cache.Listings
	dispatcher    events.Dispatcher
}

// AnnouncementDependencies bundles collaborators for AnnouncementService.
type AnnouncementDependencies struct {
	AnnouncementRepo repository.AnnouncementRepository
	Authorizer       *Authorizer
	Listings         *cache.Listings
	Dispatcher       events.Dispatcher
}

// AnnouncementInput carries markdown content.
type AnnouncementInput struct {
	Content string `json:"content" validate:"required,min=10,max=10000"`
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(deps AnnouncementDependencies) *AnnouncementService {
	return &AnnouncementService{
		announcements: deps.AnnouncementRepo,
		authz:         deps.Authorizer,
		listings:      deps.Listings,
		dispatcher:    deps.Dispatcher,
	}
}

// List returns announcements newest first.
func (s *AnnouncementService) List(ctx context.Context) ([]domain.Announcement, error) {
	return cache.Fetch(ctx, s.listings, cache.KeyAnnouncements, s.announcements.List)
}

// Save creates an announcement when id is empty, otherwise edits it. Only
// creation triggers the push broadcast.
func (s *AnnouncementService) Save(ctx context.Context, identity *domain.Identity, id string, input AnnouncementInput) (*domain.Announcement, error) {
	actor, err := s.authz.RequireAdmin(ctx, identity)
	if err != nil {
		return nil, err
	}
	input.Content = strings.TrimSpace(input.Content)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	announcement := &domain.Announcement{ID: id, Content: input.Content}
	if id == "" {
		if err := s.announcements.Create(ctx, announcement); err != nil {
			return nil, err
		}
		publish(ctx, s.dispatcher, events.New(events.EventAnnouncementCreated, announcement.ID, actor.UID,
			events.AnnouncementCreatedPayload{Content: announcement.Content}))
		return announcement, nil
	}

	if err := s.announcements.Update(ctx, announcement); err != nil {
		return nil, notFound(err, "Announcement")
	}
	publish(ctx, s.dispatcher, events.New(events.EventAnnouncementChanged, id, actor.UID, nil))
	return announcement, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, identity *domain.Identity, id string) error {
	actor, err := s.authz.RequireAdmin(ctx, identity)
	if err != nil {
		return err
	}
	if err := s.announcements.Delete(ctx, id); err != nil {
		return notFound(err, "Announcement")
	}
	publish(ctx, s.dispatcher, events.New(events.EventAnnouncementChanged, id, actor.UID, nil))
	return nil
}
