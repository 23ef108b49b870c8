package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
	"github.com/ManasMalla/devfest-vizag-2025/internal/cache"
	"github.com/ManasMalla/devfest-vizag-2025/internal/config"
	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
	"github.com/ManasMalla/devfest-vizag-2025/internal/events"
	"github.com/ManasMalla/devfest-vizag-2025/internal/notify"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository/memory"
)

type recordingSender struct {
	mu    sync.Mutex
	sent  []notify.Message
	topic string
	err   error
}

func (r *recordingSender) SendToTopic(_ context.Context, topic string, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.topic = topic
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingSender) messages() []notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Message(nil), r.sent...)
}

type fixture struct {
	repos      repository.Set
	cacheStore *cache.MemoryStore
	sender     *recordingSender

	jobs          *JobService
	applications  *ApplicationService
	crew          *CrewService
	tasks         *TaskService
	agenda        *AgendaService
	announcements *AnnouncementService
	admins        *AdminService
	subscriptions *SubscriptionService
}

type fixtureOption func(*fixtureConfig)

type fixtureConfig struct {
	storeOpts      []memory.Option
	ownershipCheck bool
	runner         BackgroundRunner
}

func withRunner(runner BackgroundRunner) fixtureOption {
	return func(c *fixtureConfig) { c.runner = runner }
}

func withStoreOptions(opts ...memory.Option) fixtureOption {
	return func(c *fixtureConfig) { c.storeOpts = append(c.storeOpts, opts...) }
}

func withOwnershipCheck() fixtureOption {
	return func(c *fixtureConfig) { c.ownershipCheck = true }
}

// tickingClock advances one second per call so server timestamps are distinct.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	next := time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		next = next.Add(time.Second)
		return next
	}
}

func newFixture(t *testing.T, opts ...fixtureOption) *fixture {
	t.Helper()
	fc := fixtureConfig{storeOpts: []memory.Option{memory.WithClock(tickingClock())}}
	for _, opt := range opts {
		opt(&fc)
	}

	logger := zap.NewNop()
	repos := memory.New(fc.storeOpts...).Repositories()
	provider := auth.NewLocalProvider("test-secret", "devfest-hub", repos.Users)
	gate := auth.NewGate(provider, repos.Admins, repos.Volunteers, logger)
	authz := NewAuthorizer(gate)
	dispatcher := events.NewInMemoryDispatcher(logger)
	cacheStore := cache.NewMemoryStore()
	listings := cache.NewListings(cacheStore, time.Minute, logger)
	cache.NewRevalidator(cacheStore, logger).RegisterHandlers(dispatcher)
	sender := &recordingSender{}
	NewNotificationService(NotificationDependencies{
		Dispatcher: dispatcher,
		Sender:     sender,
		Runner:     fc.runner,
		Logger:     logger,
		Config: config.NotificationConfig{
			PushTopic: "announcements",
			SiteURL:   "https://devfest.example.com",
		},
	}).RegisterHandlers()

	return &fixture{
		repos:      repos,
		cacheStore: cacheStore,
		sender:     sender,
		jobs:       NewJobService(JobDependencies{JobRepo: repos.Jobs, Authorizer: authz, Listings: listings, Dispatcher: dispatcher}),
		applications: NewApplicationService(ApplicationDependencies{
			ApplicationRepo:  repos.Applications,
			JobRepo:          repos.Jobs,
			VolunteerRepo:    repos.Volunteers,
			IdentityProvider: provider,
			Authorizer:       authz,
			Dispatcher:       dispatcher,
			Logger:           logger,
		}),
		crew: NewCrewService(CrewDependencies{TeamRepo: repos.Teams, VolunteerRepo: repos.Volunteers, Authorizer: authz, Dispatcher: dispatcher}),
		tasks: NewTaskService(TaskDependencies{
			TaskRepo:       repos.Tasks,
			VolunteerRepo:  repos.Volunteers,
			TeamRepo:       repos.Teams,
			Authorizer:     authz,
			Dispatcher:     dispatcher,
			OwnershipCheck: fc.ownershipCheck,
		}),
		agenda:        NewAgendaService(AgendaDependencies{AgendaRepo: repos.Agenda, Authorizer: authz, Listings: listings, Dispatcher: dispatcher}),
		announcements: NewAnnouncementService(AnnouncementDependencies{AnnouncementRepo: repos.Announcements, Authorizer: authz, Listings: listings, Dispatcher: dispatcher}),
		admins:        NewAdminService(AdminDependencies{AdminRepo: repos.Admins, IdentityProvider: provider, Authorizer: authz, Dispatcher: dispatcher}),
		subscriptions: NewSubscriptionService(repos.Subscriptions, dispatcher),
	}
}

// user registers uid in the directory as uid@example.com.
func (f *fixture) user(t *testing.T, uid string) *domain.Identity {
	t.Helper()
	email := uid + "@example.com"
	require.NoError(t, f.repos.Users.Upsert(context.Background(), &repository.DirectoryUser{UID: uid, Email: email}))
	return &domain.Identity{UID: uid, Email: email}
}

func (f *fixture) admin(t *testing.T, uid string) *domain.Identity {
	t.Helper()
	identity := f.user(t, uid)
	require.NoError(t, f.repos.Admins.Add(context.Background(), &domain.Admin{UID: uid, Email: identity.Email}))
	return identity
}

func (f *fixture) team(t *testing.T, name string) string {
	t.Helper()
	team := &domain.Team{Name: name}
	require.NoError(t, f.repos.Teams.Create(context.Background(), team))
	return team.ID
}

func (f *fixture) volunteer(t *testing.T, uid, teamID string, lead bool) *domain.Identity {
	t.Helper()
	identity := f.user(t, uid)
	v := &domain.Volunteer{ID: uid, FullName: "Volunteer " + uid, Email: identity.Email, IsLead: lead}
	if teamID != "" {
		v.TeamID = &teamID
	}
	require.NoError(t, f.repos.Volunteers.Create(context.Background(), v))
	return identity
}

func (f *fixture) openJob(t *testing.T, admin *domain.Identity, title string, questions ...string) *domain.Job {
	t.Helper()
	job, err := f.jobs.SaveJob(context.Background(), admin, "", JobInput{
		Title:               title,
		Description:         "Help run the event on the day.",
		Category:            domain.JobCategoryVolunteer,
		AdditionalQuestions: questions,
	})
	require.NoError(t, err)
	return job
}

func applicationInput(jobID string) SubmitApplicationInput {
	return SubmitApplicationInput{
		JobID:    jobID,
		FullName: "Asha Rao",
		Phone:    "9876543210",
		Whatsapp: "9876543210",
	}
}
