package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
)

// JobRepository encapsulates job postings.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	Update(ctx context.Context, job *domain.Job) error
	SetStatus(ctx context.Context, id string, status domain.JobStatus) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	List(ctx context.Context) ([]domain.Job, error)
}

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository instantiates repository.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

const jobColumns = `id, title, description, category, additional_questions, status`

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = domain.JobStatusOpen
	}
	const query = `
        INSERT INTO jobs (id, title, description, category, additional_questions, status)
        VALUES ($1,$2,$3,$4,$5,$6)`
	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.Title,
		job.Description,
		job.Category,
		nonNilStrings(job.AdditionalQuestions),
		job.Status,
	)
	return mapPgError(err)
}

func (r *jobRepository) Update(ctx context.Context, job *domain.Job) error {
	const query = `
        UPDATE jobs SET title=$1, description=$2, category=$3, additional_questions=$4
        WHERE id=$5`
	return expectAffected(r.pool.Exec(ctx, query,
		job.Title,
		job.Description,
		job.Category,
		nonNilStrings(job.AdditionalQuestions),
		job.ID,
	))
}

func (r *jobRepository) SetStatus(ctx context.Context, id string, status domain.JobStatus) error {
	return expectAffected(r.pool.Exec(ctx, `UPDATE jobs SET status=$1 WHERE id=$2`, status, id))
}

func (r *jobRepository) Delete(ctx context.Context, id string) error {
	return expectAffected(r.pool.Exec(ctx, `DELETE FROM jobs WHERE id=$1`, id))
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	return getJob(ctx, r.pool, `SELECT `+jobColumns+` FROM jobs WHERE id=$1`, id)
}

func (r *jobRepository) List(ctx context.Context) ([]domain.Job, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY title`)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *job)
	}
	return result, rows.Err()
}

func getJob(ctx context.Context, db dbtx, query string, args ...any) (*domain.Job, error) {
	job, err := scanJob(db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, mapPgError(err)
	}
	return job, nil
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var (
		job    domain.Job
		status *string
	)
	if err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Category,
		&job.AdditionalQuestions,
		&status,
	); err != nil {
		return nil, err
	}
	if status != nil {
		job.Status = domain.JobStatus(*status)
	}
	return &job, nil
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
