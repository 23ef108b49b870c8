package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/ManasMalla/devfest-vizag-2025/internal/events"
)

type invalidation struct {
	keys  []string
	paths []string
}

var invalidations = map[events.EventType]invalidation{
	events.EventJobSaved:                 {keys: []string{KeyJobs}, paths: []string{"/volunteer", "/admin"}},
	events.EventJobDeleted:               {keys: []string{KeyJobs}, paths: []string{"/volunteer", "/admin"}},
	events.EventJobStatusToggled:         {keys: []string{KeyJobs}, paths: []string{"/volunteer", "/admin"}},
	events.EventApplicationSubmitted:     {paths: []string{"/admin"}},
	events.EventApplicationStatusChanged: {paths: []string{"/admin"}},
	events.EventVolunteerProvisioned:     {paths: []string{"/admin", "/volunteer/dashboard"}},
	events.EventVolunteerUpdated:         {paths: []string{"/volunteer/dashboard"}},
	events.EventTeamSaved:                {paths: []string{"/volunteer/dashboard"}},
	events.EventTeamDeleted:              {paths: []string{"/volunteer/dashboard"}},
	events.EventTaskSaved:                {paths: []string{"/volunteer/dashboard"}},
	events.EventTaskDeleted:              {paths: []string{"/volunteer/dashboard"}},
	events.EventAgendaChanged:            {keys: []string{KeyAgenda}, paths: []string{"/agenda", "/admin"}},
	events.EventAgendaTrackChanged:       {keys: []string{KeyAgenda, KeyAgendaTracks}, paths: []string{"/agenda", "/admin"}},
	events.EventAnnouncementCreated:      {keys: []string{KeyAnnouncements}, paths: []string{"/", "/admin"}},
	events.EventAnnouncementChanged:      {keys: []string{KeyAnnouncements}, paths: []string{"/", "/admin"}},
	events.EventAdminsChanged:            {paths: []string{"/admin"}},
}

// Revalidator drops stale listings and announces changed pages after mutations.
type Revalidator struct {
	store  Store
	logger *zap.Logger
}

// NewRevalidator builds a revalidator over store.
func NewRevalidator(store Store, logger *zap.Logger) *Revalidator {
	return &Revalidator{store: store, logger: logger}
}

// RegisterHandlers subscribes to every mutation event.
func (r *Revalidator) RegisterHandlers(dispatcher events.Dispatcher) {
	if r == nil || r.store == nil || dispatcher == nil {
		return
	}
	events.SubscribeAll(dispatcher, r.handle)
}

func (r *Revalidator) handle(ctx context.Context, event events.Event) error {
	inv, ok := invalidations[event.Type]
	if !ok {
		return nil
	}
	if err := r.store.Delete(ctx, inv.keys...); err != nil {
		return err
	}
	if err := r.store.PublishRevalidate(ctx, inv.paths...); err != nil {
		return err
	}
	r.logger.Debug("pages revalidated",
		zap.String("event_type", string(event.Type)),
		zap.Strings("paths", inv.paths))
	return nil
}
