package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
)

// DefaultApplicationPageSize is used when a filter carries no limit.
const DefaultApplicationPageSize = 10

// ApplicationFilter captures admin listing parameters. Nil filters match everything.
type ApplicationFilter struct {
	Status       *domain.ApplicationStatus
	JobTitle     *string
	StartAfterID string
	Limit        int
}

// Application index names. Every filter combination is served by exactly one of them.
const (
	IndexApplicationsBySubmitted         = "applications_submitted_at_idx"
	IndexApplicationsByStatus            = "applications_status_submitted_at_idx"
	IndexApplicationsByJobTitle          = "applications_job_title_submitted_at_idx"
	IndexApplicationsByStatusAndJobTitle = "applications_status_job_title_submitted_at_idx"
)

// RequiredApplicationIndex returns the composite index a filter needs.
func RequiredApplicationIndex(filter ApplicationFilter) string {
	switch {
	case filter.Status != nil && filter.JobTitle != nil:
		return IndexApplicationsByStatusAndJobTitle
	case filter.Status != nil:
		return IndexApplicationsByStatus
	case filter.JobTitle != nil:
		return IndexApplicationsByJobTitle
	default:
		return IndexApplicationsBySubmitted
	}
}

// ApplicationRepository encapsulates application persistence.
type ApplicationRepository interface {
	// CreateForOpenJob re-reads the job and the (user, job) pair and inserts
	// atomically. JobTitle is copied from the job at insert time.
	CreateForOpenJob(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, id string) (*domain.Application, error)
	FindByUserAndJob(ctx context.Context, userID, jobID string) (*domain.Application, error)
	// UpdateStatus applies next only while the stored status still equals current.
	UpdateStatus(ctx context.Context, id string, current, next domain.ApplicationStatus) error
	// List returns a page ordered by submission time, newest first.
	List(ctx context.Context, filter ApplicationFilter) ([]domain.Application, error)
}

type applicationRepository struct {
	pool    *pgxpool.Pool
	indexes sync.Map
}

// NewApplicationRepository instantiates repository.
func NewApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &applicationRepository{pool: pool}
}

const applicationColumns = `id, job_id, job_title, user_id, user_email, full_name, phone, whatsapp, answers, submitted_at, status`

func (r *applicationRepository) CreateForOpenJob(ctx context.Context, app *domain.Application) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		job, err := getJob(ctx, tx, `SELECT `+jobColumns+` FROM jobs WHERE id=$1 FOR SHARE`, app.JobID)
		if err != nil {
			return err
		}
		if !job.IsOpen() {
			return ErrJobClosed
		}

		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM applications WHERE user_id=$1 AND job_id=$2)`,
			app.UserID, app.JobID,
		).Scan(&exists); err != nil {
			return mapPgError(err)
		}
		if exists {
			return ErrDuplicate
		}

		if app.ID == "" {
			app.ID = uuid.NewString()
		}
		if app.Answers == nil {
			app.Answers = map[string]string{}
		}
		app.JobTitle = job.Title
		app.Status = domain.ApplicationStatusApplied

		const query = `
            INSERT INTO applications (id, job_id, job_title, user_id, user_email, full_name, phone, whatsapp, answers, status)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
            RETURNING submitted_at`
		err = tx.QueryRow(ctx, query,
			app.ID,
			app.JobID,
			app.JobTitle,
			app.UserID,
			app.UserEmail,
			app.FullName,
			app.Phone,
			app.Whatsapp,
			app.Answers,
			app.Status,
		).Scan(&app.SubmittedAt)
		return mapPgError(err)
	})
}

func (r *applicationRepository) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	app, err := scanApplication(r.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id=$1`, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return app, nil
}

func (r *applicationRepository) FindByUserAndJob(ctx context.Context, userID, jobID string) (*domain.Application, error) {
	app, err := scanApplication(r.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE user_id=$1 AND job_id=$2 LIMIT 1`,
		userID, jobID,
	))
	if err != nil {
		return nil, mapPgError(err)
	}
	return app, nil
}

func (r *applicationRepository) UpdateStatus(ctx context.Context, id string, current, next domain.ApplicationStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE applications SET status=$1 WHERE id=$2 AND status=$3`, next, id, current)
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrStale
	}
	return nil
}

func (r *applicationRepository) List(ctx context.Context, filter ApplicationFilter) ([]domain.Application, error) {
	if err := r.requireIndex(ctx, RequiredApplicationIndex(filter)); err != nil {
		return nil, err
	}

	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.JobTitle != nil {
		args = append(args, *filter.JobTitle)
		clauses = append(clauses, fmt.Sprintf("job_title=$%d", len(args)))
	}
	if filter.StartAfterID != "" {
		var cursorAt time.Time
		if err := r.pool.QueryRow(ctx, `SELECT submitted_at FROM applications WHERE id=$1`, filter.StartAfterID).Scan(&cursorAt); err != nil {
			return nil, mapPgError(err)
		}
		args = append(args, cursorAt, filter.StartAfterID)
		clauses = append(clauses, fmt.Sprintf("(submitted_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultApplicationPageSize
	}

	query := fmt.Sprintf(`SELECT %s FROM applications WHERE %s ORDER BY submitted_at DESC, id DESC LIMIT %d`,
		applicationColumns, strings.Join(clauses, " AND "), limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *app)
	}
	return result, rows.Err()
}

// requireIndex fails fast when the composite index backing a filter is absent.
// Positive lookups are remembered; a missing index is re-checked on every call
// so that creating it takes effect without a restart.
func (r *applicationRepository) requireIndex(ctx context.Context, name string) error {
	if _, ok := r.indexes.Load(name); ok {
		return nil
	}
	var exists bool
	if err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_indexes WHERE tablename='applications' AND indexname=$1)`,
		name,
	).Scan(&exists); err != nil {
		return mapPgError(err)
	}
	if !exists {
		return &IndexError{Collection: "applications", Index: name}
	}
	r.indexes.Store(name, struct{}{})
	return nil
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	if err := row.Scan(
		&app.ID,
		&app.JobID,
		&app.JobTitle,
		&app.UserID,
		&app.UserEmail,
		&app.FullName,
		&app.Phone,
		&app.Whatsapp,
		&app.Answers,
		&app.SubmittedAt,
		&app.Status,
	); err != nil {
		return nil, err
	}
	if app.Answers == nil {
		app.Answers = map[string]string{}
	}
	return &app, nil
}
