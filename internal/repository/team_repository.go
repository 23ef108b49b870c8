package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
)

// TeamRepository manages persistence for teams.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	Update(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	List(ctx context.Context) ([]domain.Team, error)
	// DeleteAndUnassign clears team_id on every member and removes the team in
	// one transaction. It returns the number of members unassigned.
	DeleteAndUnassign(ctx context.Context, id string) (int64, error)
}

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository constructs repository.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO teams (id, name) VALUES ($1,$2)`, team.ID, team.Name)
	return mapPgError(err)
}

func (r *teamRepository) Update(ctx context.Context, team *domain.Team) error {
	return expectAffected(r.pool.Exec(ctx, `UPDATE teams SET name=$1 WHERE id=$2`, team.Name, team.ID))
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	var team domain.Team
	if err := r.pool.QueryRow(ctx, `SELECT id, name FROM teams WHERE id=$1`, id).Scan(&team.ID, &team.Name); err != nil {
		return nil, mapPgError(err)
	}
	return &team, nil
}

func (r *teamRepository) List(ctx context.Context) ([]domain.Team, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM teams ORDER BY name`)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.Team
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.ID, &team.Name); err != nil {
			return nil, err
		}
		result = append(result, team)
	}
	return result, rows.Err()
}

func (r *teamRepository) DeleteAndUnassign(ctx context.Context, id string) (int64, error) {
	var unassigned int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE volunteers SET team_id=NULL WHERE team_id=$1`, id)
		if err != nil {
			return mapPgError(err)
		}
		unassigned = tag.RowsAffected()
		return expectAffected(tx.Exec(ctx, `DELETE FROM teams WHERE id=$1`, id))
	})
	if err != nil {
		return 0, err
	}
	return unassigned, nil
}
