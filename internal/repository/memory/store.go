// Package memory implements the repository interfaces over process memory.
// It backs STORE_DRIVER=memory and the service and handler tests. Every
// multi-document operation runs under a single lock, matching the
// transactional behaviour of the Postgres implementations.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
)

// Store holds every collection.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	indexes map[string]bool

	jobs          map[string]domain.Job
	applications  map[string]domain.Application
	volunteers    map[string]domain.Volunteer
	teams         map[string]domain.Team
	tasks         map[string]domain.Task
	tracks        map[string]domain.AgendaTrack
	agenda        map[string]domain.AgendaItem
	announcements map[string]domain.Announcement
	admins        map[string]domain.Admin
	subscriptions map[string]domain.Subscription
	users         map[string]repository.DirectoryUser
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces time.Now for server-assigned timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIndexes limits the composite indexes the store reports as present.
func WithIndexes(names ...string) Option {
	return func(s *Store) {
		s.indexes = make(map[string]bool, len(names))
		for _, name := range names {
			s.indexes[name] = true
		}
	}
}

// New builds an empty store with every application index present.
func New(opts ...Option) *Store {
	s := &Store{
		now: time.Now,
		indexes: map[string]bool{
			repository.IndexApplicationsBySubmitted:         true,
			repository.IndexApplicationsByStatus:            true,
			repository.IndexApplicationsByJobTitle:          true,
			repository.IndexApplicationsByStatusAndJobTitle: true,
		},
		jobs:          map[string]domain.Job{},
		applications:  map[string]domain.Application{},
		volunteers:    map[string]domain.Volunteer{},
		teams:         map[string]domain.Team{},
		tasks:         map[string]domain.Task{},
		tracks:        map[string]domain.AgendaTrack{},
		agenda:        map[string]domain.AgendaItem{},
		announcements: map[string]domain.Announcement{},
		admins:        map[string]domain.Admin{},
		subscriptions: map[string]domain.Subscription{},
		users:         map[string]repository.DirectoryUser{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Repositories exposes s through every repository interface.
func (s *Store) Repositories() repository.Set {
	return repository.Set{
		Jobs:          &jobRepo{s},
		Applications:  &applicationRepo{s},
		Volunteers:    &volunteerRepo{s},
		Teams:         &teamRepo{s},
		Tasks:         &taskRepo{s},
		Agenda:        &agendaRepo{s},
		Announcements: &announcementRepo{s},
		Admins:        &adminRepo{s},
		Subscriptions: &subscriptionRepo{s},
		Users:         &userRepo{s},
	}
}

func newID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func copyStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func copyAnswers(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyStringPtr(in *string) *string {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}

func copyTimePtr(in *time.Time) *time.Time {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}

func cloneJob(j domain.Job) domain.Job {
	j.AdditionalQuestions = copyStrings(j.AdditionalQuestions)
	return j
}

func cloneApplication(a domain.Application) domain.Application {
	a.Answers = copyAnswers(a.Answers)
	return a
}

func cloneVolunteer(v domain.Volunteer) domain.Volunteer {
	v.TeamID = copyStringPtr(v.TeamID)
	return v
}

func cloneTask(t domain.Task) domain.Task {
	t.TeamID = copyStringPtr(t.TeamID)
	t.DueDate = copyTimePtr(t.DueDate)
	return t
}

func sortByString[T any](items []T, key func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(key(items[i])) < strings.ToLower(key(items[j]))
	})
}
