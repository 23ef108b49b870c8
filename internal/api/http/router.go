package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ManasMalla/devfest-vizag-2025/internal/api/http/handlers"
	"github.com/ManasMalla/devfest-vizag-2025/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health       *handlers.HealthHandler
	Jobs         *handlers.JobsHandler
	Applications *handlers.ApplicationsHandler
	Crew         *handlers.CrewHandler
	Tasks        *handlers.TasksHandler
	Catalog      *handlers.CatalogHandler
	Admins       *handlers.AdminsHandler
	Gate         *auth.Gate
}

// RegisterRoutes wires HTTP routes. Every /api route sees the optional
// bearer identity; services decide what anonymous callers may do.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	api := app.Group("/api", auth.Authenticate(cfg.Gate))

	api.Get("/jobs", cfg.Jobs.List)
	api.Get("/jobs/:id", cfg.Jobs.Get)
	api.Post("/jobs", cfg.Jobs.Create)
	api.Put("/jobs/:id", cfg.Jobs.Update)
	api.Delete("/jobs/:id", cfg.Jobs.Delete)
	api.Post("/jobs/:id/toggle", cfg.Jobs.Toggle)

	api.Post("/applications", auth.RequireSignedIn(), cfg.Applications.Submit)
	api.Get("/applications", cfg.Applications.List)
	api.Patch("/applications/:id/status", cfg.Applications.UpdateStatus)
	api.Post("/applications/:id/provision", cfg.Applications.Provision)

	api.Get("/me", auth.RequireSignedIn(), cfg.Crew.Me)
	api.Get("/dashboard", cfg.Crew.Dashboard)
	api.Post("/teams", cfg.Crew.CreateTeam)
	api.Put("/teams/:id", cfg.Crew.UpdateTeam)
	api.Delete("/teams/:id", cfg.Crew.DeleteTeam)
	api.Put("/volunteers/:id/team", cfg.Crew.AssignTeam)
	api.Put("/volunteers/:id/lead", cfg.Crew.SetLead)

	api.Get("/tasks", cfg.Tasks.List)
	api.Post("/tasks", cfg.Tasks.Create)
	api.Put("/tasks/:id", cfg.Tasks.Update)
	api.Patch("/tasks/:id/status", cfg.Tasks.UpdateStatus)
	api.Delete("/tasks/:id", cfg.Tasks.Delete)

	// Track routes come before /agenda/:id so "tracks" is not read as an id.
	api.Get("/agenda/tracks", cfg.Catalog.ListTracks)
	api.Post("/agenda/tracks", cfg.Catalog.CreateTrack)
	api.Put("/agenda/tracks/:id", cfg.Catalog.UpdateTrack)
	api.Delete("/agenda/tracks/:id", cfg.Catalog.DeleteTrack)
	api.Get("/agenda", cfg.Catalog.ListAgenda)
	api.Post("/agenda", cfg.Catalog.CreateAgendaItem)
	api.Put("/agenda/:id", cfg.Catalog.UpdateAgendaItem)
	api.Delete("/agenda/:id", cfg.Catalog.DeleteAgendaItem)

	api.Get("/announcements", cfg.Catalog.ListAnnouncements)
	api.Post("/announcements", cfg.Catalog.CreateAnnouncement)
	api.Put("/announcements/:id", cfg.Catalog.UpdateAnnouncement)
	api.Delete("/announcements/:id", cfg.Catalog.DeleteAnnouncement)

	api.Get("/admins", cfg.Admins.List)
	api.Post("/admins", cfg.Admins.Add)
	api.Delete("/admins/:uid", cfg.Admins.Remove)

	api.Post("/subscriptions", cfg.Admins.Subscribe)
	api.Post("/subscriptions/devices", cfg.Admins.RegisterDevice)
}
