package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
)

type agendaRepo struct{ s *Store }

func (r *agendaRepo) CreateItem(_ context.Context, item *domain.AgendaItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	track, ok := r.s.tracks[item.TrackID]
	if !ok {
		return repository.ErrDanglingReference
	}
	item.ID = newID(item.ID)
	if _, ok := r.s.agenda[item.ID]; ok {
		return repository.ErrDuplicate
	}
	item.TrackName = track.Name
	r.s.agenda[item.ID] = *item
	return nil
}

func (r *agendaRepo) UpdateItem(_ context.Context, item *domain.AgendaItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	track, ok := r.s.tracks[item.TrackID]
	if !ok {
		return repository.ErrDanglingReference
	}
	if _, ok := r.s.agenda[item.ID]; !ok {
		return repository.ErrNotFound
	}
	item.TrackName = track.Name
	r.s.agenda[item.ID] = *item
	return nil
}

func (r *agendaRepo) DeleteItem(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.agenda[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.agenda, id)
	return nil
}

func (r *agendaRepo) GetItem(_ context.Context, id string) (*domain.AgendaItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stored, ok := r.s.agenda[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &stored, nil
}

func (r *agendaRepo) ListItems(_ context.Context) ([]domain.AgendaItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.AgendaItem, 0, len(r.s.agenda))
	for _, item := range r.s.agenda {
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (r *agendaRepo) CreateTrack(_ context.Context, track *domain.AgendaTrack) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	track.ID = newID(track.ID)
	if _, ok := r.s.tracks[track.ID]; ok {
		return repository.ErrDuplicate
	}
	r.s.tracks[track.ID] = *track
	return nil
}

func (r *agendaRepo) RenameTrack(_ context.Context, id, name string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	track, ok := r.s.tracks[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	track.Name = name
	r.s.tracks[id] = track

	var propagated int64
	for itemID, item := range r.s.agenda {
		if item.TrackID == id {
			item.TrackName = name
			r.s.agenda[itemID] = item
			propagated++
		}
	}
	return propagated, nil
}

func (r *agendaRepo) DeleteTrackIfUnused(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tracks[id]; !ok {
		return repository.ErrNotFound
	}
	for _, item := range r.s.agenda {
		if item.TrackID == id {
			return repository.ErrReferenced
		}
	}
	delete(r.s.tracks, id)
	return nil
}

func (r *agendaRepo) GetTrack(_ context.Context, id string) (*domain.AgendaTrack, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stored, ok := r.s.tracks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &stored, nil
}

func (r *agendaRepo) ListTracks(_ context.Context) ([]domain.AgendaTrack, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.AgendaTrack, 0, len(r.s.tracks))
	for _, t := range r.s.tracks {
		out = append(out, t)
	}
	sortByString(out, func(t domain.AgendaTrack) string { return t.Name })
	return out, nil
}

type announcementRepo struct{ s *Store }

func (r *announcementRepo) Create(_ context.Context, a *domain.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a.ID = newID(a.ID)
	if _, ok := r.s.announcements[a.ID]; ok {
		return repository.ErrDuplicate
	}
	a.CreatedAt = r.s.now().UTC()
	r.s.announcements[a.ID] = *a
	return nil
}

func (r *announcementRepo) Update(_ context.Context, a *domain.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.announcements[a.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Content = a.Content
	r.s.announcements[a.ID] = stored
	a.CreatedAt = stored.CreatedAt
	return nil
}

func (r *announcementRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.announcements[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.announcements, id)
	return nil
}

func (r *announcementRepo) GetByID(_ context.Context, id string) (*domain.Announcement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stored, ok := r.s.announcements[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &stored, nil
}

func (r *announcementRepo) List(_ context.Context) ([]domain.Announcement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Announcement, 0, len(r.s.announcements))
	for _, a := range r.s.announcements {
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type subscriptionRepo struct{ s *Store }

func subscriptionKey(kind domain.SubscriptionKind, value string) string {
	return string(kind) + "|" + value
}

func (r *subscriptionRepo) Create(_ context.Context, sub *domain.Subscription) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := subscriptionKey(sub.Kind, sub.Value)
	if _, ok := r.s.subscriptions[key]; ok {
		return repository.ErrDuplicate
	}
	sub.ID = newID(sub.ID)
	sub.SubscribedAt = r.s.now().UTC()
	r.s.subscriptions[key] = *sub
	return nil
}

func (r *subscriptionRepo) FindByValue(_ context.Context, kind domain.SubscriptionKind, value string) (*domain.Subscription, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stored, ok := r.s.subscriptions[subscriptionKey(kind, value)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &stored, nil
}

type userRepo struct{ s *Store }

func (r *userRepo) Upsert(_ context.Context, user *repository.DirectoryUser) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored := r.s.users[user.UID]
	stored.UID = user.UID
	stored.Email = strings.ToLower(user.Email)
	stored.Disabled = user.Disabled
	r.s.users[user.UID] = stored
	return nil
}

func (r *userRepo) GetByID(_ context.Context, uid string) (*repository.DirectoryUser, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stored, ok := r.s.users[uid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	stored.RevokedBefore = copyTimePtr(stored.RevokedBefore)
	return &stored, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*repository.DirectoryUser, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	email = strings.ToLower(email)
	for _, stored := range r.s.users {
		if stored.Email == email {
			stored.RevokedBefore = copyTimePtr(stored.RevokedBefore)
			return &stored, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepo) RevokeTokens(_ context.Context, uid string, before time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.users[uid]
	if !ok {
		return repository.ErrNotFound
	}
	stored.RevokedBefore = &before
	r.s.users[uid] = stored
	return nil
}
