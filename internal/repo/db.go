// Package repo contains all database access logic for the booking API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL, type mapping, and translation of
// driver errors into the domain error taxonomy.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/trailblaze/booking-api/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test. A pool
// acquires a connection per call and releases it when the call (or the Rows
// it returned) finishes, so no repo method holds a connection between calls.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres SQLSTATE codes the repo layer classifies.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgQueryCanceled       = "57014"
)

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scan helpers to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// classify wraps err with op and maps driver failures onto the domain taxonomy.
// Errors that already carry a domain sentinel are wrapped unchanged.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		domain.ErrNotFound, domain.ErrConflict, domain.ErrValidation,
		domain.ErrTimeout, domain.ErrPersistence,
	} {
		if errors.Is(err, known) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTimeout, err)
	case errors.As(err, &pgErr) && pgErr.Code == pgQueryCanceled:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTimeout, err)
	case errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation:
		return fmt.Errorf("%s: %w: %s", op, domain.ErrReferentialIntegrity, pgErr.ConstraintName)
	case errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation:
		return fmt.Errorf("%s: %w: %s", op, domain.ErrDuplicate, pgErr.ConstraintName)
	default:
		return fmt.Errorf("%s: %w: %w", op, domain.ErrPersistence, err)
	}
}

// limitArg returns the LIMIT bind value for p. A nil LIMIT in Postgres means
// "no limit", so unpaged requests return every row.
func limitArg(p domain.PaginationParams) any {
	if !p.Paged() {
		return nil
	}
	return p.Limit
}
