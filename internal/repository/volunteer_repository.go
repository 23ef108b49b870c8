package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
)

// VolunteerRepository handles persistence for volunteer profiles.
type VolunteerRepository interface {
	Create(ctx context.Context, volunteer *domain.Volunteer) error
	GetByID(ctx context.Context, id string) (*domain.Volunteer, error)
	List(ctx context.Context, filter VolunteerFilter) ([]domain.Volunteer, error)
	// FindLead returns the designated lead of a team, or ErrNotFound.
	FindLead(ctx context.Context, teamID string) (*domain.Volunteer, error)
	SetTeam(ctx context.Context, id string, teamID *string) error
	SetLead(ctx context.Context, id string, isLead bool) error
}

// VolunteerFilter defines query params for volunteer listing.
type VolunteerFilter struct {
	TeamID *string
	IsLead *bool
}

type volunteerRepository struct {
	pool *pgxpool.Pool
}

// NewVolunteerRepository instantiates the repository.
func NewVolunteerRepository(pool *pgxpool.Pool) VolunteerRepository {
	return &volunteerRepository{pool: pool}
}

const volunteerColumns = `id, full_name, email, phone, job_title, team_id, is_lead`

func (r *volunteerRepository) Create(ctx context.Context, v *domain.Volunteer) error {
	const query = `
        INSERT INTO volunteers (id, full_name, email, phone, job_title, team_id, is_lead)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.pool.Exec(ctx, query,
		v.ID,
		v.FullName,
		v.Email,
		v.Phone,
		v.JobTitle,
		v.TeamID,
		v.IsLead,
	)
	return mapPgError(err)
}

func (r *volunteerRepository) GetByID(ctx context.Context, id string) (*domain.Volunteer, error) {
	v, err := scanVolunteer(r.pool.QueryRow(ctx, `SELECT `+volunteerColumns+` FROM volunteers WHERE id=$1`, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return v, nil
}

func (r *volunteerRepository) FindLead(ctx context.Context, teamID string) (*domain.Volunteer, error) {
	v, err := scanVolunteer(r.pool.QueryRow(ctx,
		`SELECT `+volunteerColumns+` FROM volunteers WHERE team_id=$1 AND is_lead=TRUE ORDER BY full_name LIMIT 1`,
		teamID,
	))
	if err != nil {
		return nil, mapPgError(err)
	}
	return v, nil
}

func (r *volunteerRepository) List(ctx context.Context, filter VolunteerFilter) ([]domain.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers`
	args := []any{}
	clauses := []string{}

	if filter.TeamID != nil {
		args = append(args, *filter.TeamID)
		clauses = append(clauses, fmt.Sprintf("team_id=$%d", len(args)))
	}
	if filter.IsLead != nil {
		args = append(args, *filter.IsLead)
		clauses = append(clauses, fmt.Sprintf("is_lead=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY full_name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Volunteer
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *v)
	}
	return result, rows.Err()
}

func (r *volunteerRepository) SetTeam(ctx context.Context, id string, teamID *string) error {
	return expectAffected(r.pool.Exec(ctx, `UPDATE volunteers SET team_id=$1 WHERE id=$2`, teamID, id))
}

func (r *volunteerRepository) SetLead(ctx context.Context, id string, isLead bool) error {
	return expectAffected(r.pool.Exec(ctx, `UPDATE volunteers SET is_lead=$1 WHERE id=$2`, isLead, id))
}

func scanVolunteer(row pgx.Row) (*domain.Volunteer, error) {
	var v domain.Volunteer
	if err := row.Scan(
		&v.ID,
		&v.FullName,
		&v.Email,
		&v.Phone,
		&v.JobTitle,
		&v.TeamID,
		&v.IsLead,
	); err != nil {
		return nil, err
	}
	return &v, nil
}
