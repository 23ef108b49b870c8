// Package app assembles services and the HTTP surface from a repository set.
package app

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/ManasMalla/devfest-vizag-2025/internal/api/http"
	"github.com/ManasMalla/devfest-vizag-2025/internal/api/http/handlers"
	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
	"github.com/ManasMalla/devfest-vizag-2025/internal/cache"
	"github.com/ManasMalla/devfest-vizag-2025/internal/config"
	"github.com/ManasMalla/devfest-vizag-2025/internal/events"
	"github.com/ManasMalla/devfest-vizag-2025/internal/notify"
	"github.com/ManasMalla/devfest-vizag-2025/internal/observability"
	"github.com/ManasMalla/devfest-vizag-2025/internal/repository"
	"github.com/ManasMalla/devfest-vizag-2025/internal/service"
	"github.com/ManasMalla/devfest-vizag-2025/internal/worker"
)

// Dependencies are the externally constructed collaborators.
type Dependencies struct {
	Config     *config.Config
	Repos      repository.Set
	Provider   auth.IdentityProvider
	CacheStore cache.Store
	Sender     notify.Sender
	Logger     *zap.Logger
	// Health lists the dependencies checked by /health/ready.
	Health map[string]handlers.Pinger
}

// Services holds every domain service.
type Services struct {
	Gate          *auth.Gate
	Dispatcher    events.Dispatcher
	Jobs          *service.JobService
	Applications  *service.ApplicationService
	Crew          *service.CrewService
	Tasks         *service.TaskService
	Agenda        *service.AgendaService
	Announcements *service.AnnouncementService
	Admins        *service.AdminService
	Subscriptions *service.SubscriptionService
	Notifications *service.NotificationService
	// Background runs announcement broadcasts; Stop it after the server.
	Background *worker.Pool
}

// Stop drains background work until ctx is done.
func (s *Services) Stop(ctx context.Context) error {
	if s.Background == nil {
		return nil
	}
	return s.Background.Stop(ctx)
}

// NewServices wires services and starts the event subscribers.
func NewServices(deps Dependencies) *Services {
	cfg := deps.Config
	logger := deps.Logger

	dispatcher := events.NewInMemoryDispatcher(logger)
	gate := auth.NewGate(deps.Provider, deps.Repos.Admins, deps.Repos.Volunteers, logger)
	authz := service.NewAuthorizer(gate)

	var listings *cache.Listings
	var revalidator *cache.Revalidator
	if deps.CacheStore != nil {
		listings = cache.NewListings(deps.CacheStore, cfg.Cache.TTL(), logger)
		revalidator = cache.NewRevalidator(deps.CacheStore, logger)
	}

	sender := deps.Sender
	if sender == nil {
		sender = notify.NewSender(cfg.Notification, logger)
	}
	// The pool timeout leaves room for the sender's own HTTP timeout.
	background := worker.NewPool(cfg.Notification.Workers, cfg.Notification.QueueSize, 2*cfg.Notification.Timeout(), logger)

	svc := &Services{
		Gate:       gate,
		Dispatcher: dispatcher,
		Background: background,
		Jobs: service.NewJobService(service.JobDependencies{
			JobRepo:    deps.Repos.Jobs,
			Authorizer: authz,
			Listings:   listings,
			Dispatcher: dispatcher,
		}),
		Applications: service.NewApplicationService(service.ApplicationDependencies{
			ApplicationRepo:  deps.Repos.Applications,
			JobRepo:          deps.Repos.Jobs,
			VolunteerRepo:    deps.Repos.Volunteers,
			IdentityProvider: deps.Provider,
			Authorizer:       authz,
			Dispatcher:       dispatcher,
			Logger:           logger,
			PageSize:         cfg.Workflow.ApplicationsPageSize,
		}),
		Crew: service.NewCrewService(service.CrewDependencies{
			TeamRepo:      deps.Repos.Teams,
			VolunteerRepo: deps.Repos.Volunteers,
			Authorizer:    authz,
			Dispatcher:    dispatcher,
		}),
		Tasks: service.NewTaskService(service.TaskDependencies{
			TaskRepo:       deps.Repos.Tasks,
			VolunteerRepo:  deps.Repos.Volunteers,
			TeamRepo:       deps.Repos.Teams,
			Authorizer:     authz,
			Dispatcher:     dispatcher,
			OwnershipCheck: cfg.Workflow.TaskOwnershipCheck,
		}),
		Agenda: service.NewAgendaService(service.AgendaDependencies{
			AgendaRepo: deps.Repos.Agenda,
			Authorizer: authz,
			Listings:   listings,
			Dispatcher: dispatcher,
		}),
		Announcements: service.NewAnnouncementService(service.AnnouncementDependencies{
			AnnouncementRepo: deps.Repos.Announcements,
			Authorizer:       authz,
			Listings:         listings,
			Dispatcher:       dispatcher,
		}),
		Admins: service.NewAdminService(service.AdminDependencies{
			AdminRepo:        deps.Repos.Admins,
			IdentityProvider: deps.Provider,
			Authorizer:       authz,
			Dispatcher:       dispatcher,
		}),
		Subscriptions: service.NewSubscriptionService(deps.Repos.Subscriptions, dispatcher),
		Notifications: service.NewNotificationService(service.NotificationDependencies{
			Dispatcher: dispatcher,
			Sender:     sender,
			Runner:     background,
			Logger:     logger,
			Config:     cfg.Notification,
		}),
	}

	worker.StartEventSubscribers(dispatcher, svc.Notifications, revalidator)
	return svc
}

// NewHTTP builds the fiber app with middlewares and routes.
func NewHTTP(deps Dependencies, svc *Services, metrics *observability.Metrics) *fiber.App {
	cfg := deps.Config
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, deps.Logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.Health, metrics),
		Jobs:         handlers.NewJobsHandler(svc.Jobs),
		Applications: handlers.NewApplicationsHandler(svc.Applications),
		Crew:         handlers.NewCrewHandler(svc.Crew),
		Tasks:        handlers.NewTasksHandler(svc.Tasks),
		Catalog:      handlers.NewCatalogHandler(svc.Agenda, svc.Announcements),
		Admins:       handlers.NewAdminsHandler(svc.Admins, svc.Subscriptions),
		Gate:         svc.Gate,
	})
	return app
}
