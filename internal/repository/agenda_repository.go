package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ManasMalla/devfest-vizag-2025/internal/domain"
)

// AgendaRepository stores agenda items and the tracks they belong to.
type AgendaRepository interface {
	// CreateItem and UpdateItem copy the current name of item.TrackID into
	// item.TrackName in the same transaction as the write. A missing track
	// yields ErrDanglingReference.
	CreateItem(ctx context.Context, item *domain.AgendaItem) error
	UpdateItem(ctx context.Context, item *domain.AgendaItem) error
	DeleteItem(ctx context.Context, id string) error
	GetItem(ctx context.Context, id string) (*domain.AgendaItem, error)
	ListItems(ctx context.Context) ([]domain.AgendaItem, error)

	CreateTrack(ctx context.Context, track *domain.AgendaTrack) error
	// RenameTrack updates the track and every item's track_name in one transaction.
	// It returns the number of items updated.
	RenameTrack(ctx context.Context, id, name string) (int64, error)
	// DeleteTrackIfUnused removes a track unless an item references it (ErrReferenced).
	DeleteTrackIfUnused(ctx context.Context, id string) error
	GetTrack(ctx context.Context, id string) (*domain.AgendaTrack, error)
	ListTracks(ctx context.Context) ([]domain.AgendaTrack, error)
}

type agendaRepository struct {
	pool *pgxpool.Pool
}

// NewAgendaRepository constructs repository.
func NewAgendaRepository(pool *pgxpool.Pool) AgendaRepository {
	return &agendaRepository{pool: pool}
}

const agendaColumns = `id, title, speaker, description, track_id, track_name, start_time, end_time, category`

func (r *agendaRepository) CreateItem(ctx context.Context, item *domain.AgendaItem) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	const query = `
        INSERT INTO agenda (id, title, speaker, description, track_id, track_name, start_time, end_time, category)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := shareTrack(ctx, tx, item); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, query,
			item.ID,
			item.Title,
			item.Speaker,
			item.Description,
			item.TrackID,
			item.TrackName,
			item.StartTime,
			item.EndTime,
			item.Category,
		)
		return mapPgError(err)
	})
}

func (r *agendaRepository) UpdateItem(ctx context.Context, item *domain.AgendaItem) error {
	const query = `
        UPDATE agenda SET title=$1, speaker=$2, description=$3, track_id=$4, track_name=$5,
            start_time=$6, end_time=$7, category=$8
        WHERE id=$9`
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := shareTrack(ctx, tx, item); err != nil {
			return err
		}
		return expectAffected(tx.Exec(ctx, query,
			item.Title,
			item.Speaker,
			item.Description,
			item.TrackID,
			item.TrackName,
			item.StartTime,
			item.EndTime,
			item.Category,
			item.ID,
		))
	})
}

// shareTrack locks the item's track FOR SHARE until the transaction ends and
// copies its name. It conflicts with the FOR UPDATE lock of
// DeleteTrackIfUnused and RenameTrack.
func shareTrack(ctx context.Context, tx pgx.Tx, item *domain.AgendaItem) error {
	err := tx.QueryRow(ctx, `SELECT name FROM agenda_tracks WHERE id=$1 FOR SHARE`, item.TrackID).Scan(&item.TrackName)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDanglingReference
	}
	return mapPgError(err)
}

func (r *agendaRepository) DeleteItem(ctx context.Context, id string) error {
	return expectAffected(r.pool.Exec(ctx, `DELETE FROM agenda WHERE id=$1`, id))
}

func (r *agendaRepository) GetItem(ctx context.Context, id string) (*domain.AgendaItem, error) {
	item, err := scanAgendaItem(r.pool.QueryRow(ctx, `SELECT `+agendaColumns+` FROM agenda WHERE id=$1`, id))
	if err != nil {
		return nil, mapPgError(err)
	}
	return item, nil
}

func (r *agendaRepository) ListItems(ctx context.Context) ([]domain.AgendaItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+agendaColumns+` FROM agenda ORDER BY start_time, title`)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.AgendaItem
	for rows.Next() {
		item, err := scanAgendaItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *item)
	}
	return result, rows.Err()
}

func (r *agendaRepository) CreateTrack(ctx context.Context, track *domain.AgendaTrack) error {
	if track.ID == "" {
		track.ID = uuid.NewString()
	}
	_, err := r.pool.Exec(ctx, `INSERT INTO agenda_tracks (id, name) VALUES ($1,$2)`, track.ID, track.Name)
	return mapPgError(err)
}

func (r *agendaRepository) RenameTrack(ctx context.Context, id, name string) (int64, error) {
	var propagated int64
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// The row lock waits for item writes holding FOR SHARE on this track.
		if err := expectAffected(tx.Exec(ctx, `UPDATE agenda_tracks SET name=$1 WHERE id=$2`, name, id)); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `UPDATE agenda SET track_name=$1 WHERE track_id=$2`, name, id)
		if err != nil {
			return mapPgError(err)
		}
		propagated = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, err
	}
	return propagated, nil
}

func (r *agendaRepository) DeleteTrackIfUnused(ctx context.Context, id string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// Item writes take FOR SHARE on the track, so they either commit
		// before this lock is granted or fail to find the track afterwards.
		var trackID string
		if err := tx.QueryRow(ctx, `SELECT id FROM agenda_tracks WHERE id=$1 FOR UPDATE`, id).Scan(&trackID); err != nil {
			return mapPgError(err)
		}
		var referenced bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM agenda WHERE track_id=$1)`, id).Scan(&referenced); err != nil {
			return mapPgError(err)
		}
		if referenced {
			return ErrReferenced
		}
		return expectAffected(tx.Exec(ctx, `DELETE FROM agenda_tracks WHERE id=$1`, id))
	})
}

func (r *agendaRepository) GetTrack(ctx context.Context, id string) (*domain.AgendaTrack, error) {
	var track domain.AgendaTrack
	if err := r.pool.QueryRow(ctx, `SELECT id, name FROM agenda_tracks WHERE id=$1`, id).Scan(&track.ID, &track.Name); err != nil {
		return nil, mapPgError(err)
	}
	return &track, nil
}

func (r *agendaRepository) ListTracks(ctx context.Context) ([]domain.AgendaTrack, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM agenda_tracks ORDER BY name`)
	if err != nil {
		return nil, mapPgError(err)
	}
	defer rows.Close()

	var result []domain.AgendaTrack
	for rows.Next() {
		var track domain.AgendaTrack
		if err := rows.Scan(&track.ID, &track.Name); err != nil {
			return nil, err
		}
		result = append(result, track)
	}
	return result, rows.Err()
}

func scanAgendaItem(row pgx.Row) (*domain.AgendaItem, error) {
	var item domain.AgendaItem
	if err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Speaker,
		&item.Description,
		&item.TrackID,
		&item.TrackName,
		&item.StartTime,
		&item.EndTime,
		&item.Category,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
