package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a uniqueness constraint rejects a write.
	ErrDuplicate = errors.New("document already exists")
	// ErrReferenced is returned when a delete would orphan referencing documents.
	ErrReferenced = errors.New("document is still referenced")
	// ErrDanglingReference is returned when a write points at a document that does not exist.
	ErrDanglingReference = errors.New("referenced document does not exist")
	// ErrJobClosed is returned when an application targets a closed job.
	ErrJobClosed = errors.New("job is closed")
	// ErrStale is returned when a compare-and-set update lost a race.
	ErrStale = errors.New("document changed concurrently")
	// ErrIndexRequired is returned when a query needs a composite index the store lacks.
	ErrIndexRequired = errors.New("composite index required")
)

// IndexError names the missing index so operators can create it.
type IndexError struct {
	Collection string
	Index      string
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s: query requires index %q", e.Collection, e.Index)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexRequired
}

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func mapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrDanglingReference, pgErr.ConstraintName)
		}
	}
	return err
}

func expectAffected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
