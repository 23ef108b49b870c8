package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Set bundles one implementation of every repository.
type Set struct {
	Jobs          JobRepository
	Applications  ApplicationRepository
	Volunteers    VolunteerRepository
	Teams         TeamRepository
	Tasks         TaskRepository
	Agenda        AgendaRepository
	Announcements AnnouncementRepository
	Admins        AdminRepository
	Subscriptions SubscriptionRepository
	Users         UserRepository
}

// NewPostgresSet builds every repository over pool.
func NewPostgresSet(pool *pgxpool.Pool) Set {
	return Set{
		Jobs:          NewJobRepository(pool),
		Applications:  NewApplicationRepository(pool),
		Volunteers:    NewVolunteerRepository(pool),
		Teams:         NewTeamRepository(pool),
		Tasks:         NewTaskRepository(pool),
		Agenda:        NewAgendaRepository(pool),
		Announcements: NewAnnouncementRepository(pool),
		Admins:        NewAdminRepository(pool),
		Subscriptions: NewSubscriptionRepository(pool),
		Users:         NewUserRepository(pool),
	}
}
