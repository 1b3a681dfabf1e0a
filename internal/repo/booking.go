package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/trailblaze/booking-api/internal/domain"
)

// BookingRepo defines the persistence operations for Bookings.
// The workflow service depends on this interface, not the Postgres
// implementation, so it can be unit-tested with a mock.
type BookingRepo interface {
	// Create inserts a new booking in the pending state and returns the
	// persisted record. Returns domain.ErrReferentialIntegrity when the trail
	// does not exist and domain.ErrDuplicate when an identical live booking
	// already exists.
	Create(ctx context.Context, b domain.Booking) (domain.Booking, error)

	// GetByID retrieves a booking by primary key, whatever its status.
	// Returns domain.ErrNotFound if no booking with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Booking, error)

	// UpdateStatus atomically moves a booking from one status to another.
	// Returns domain.ErrNotFound if the booking does not exist, and a
	// *domain.TransitionError (wrapping domain.ErrConflict) if it exists but
	// is not currently in status from.
	UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (domain.Booking, error)

	// ListAll returns bookings of every status ordered by trip date then
	// creation time, most recent first, with the trail name joined in.
	ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, error)

	// CountAll returns the number of rows ListAll pages over.
	CountAll(ctx context.Context) (int64, error)

	// ListByEmail returns the live (non-cancelled) bookings for one contact
	// email, most recent trip date first.
	ListByEmail(ctx context.Context, email string) ([]domain.Booking, error)

	// Cancel marks a booking cancelled. It is idempotent: cancelling an
	// unknown or already-cancelled ID is not an error.
	Cancel(ctx context.Context, id int64) (int64, error)

	// ExportRows returns one flat row per booking for the admin export.
	ExportRows(ctx context.Context) ([]domain.BookingExportRow, error)
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db db
}

// NewBookingRepo constructs a BookingRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewBookingRepo(db db) BookingRepo {
	return &pgBookingRepo{db: db}
}

// bookingColumns is the select list scanBooking expects, in order. Queries
// alias the bookings row as b and LEFT JOIN trails as t.
const bookingColumns = `
	b.id, b.user_name, b.email, b.phone, b.trail_id, COALESCE(t.name, ''),
	b.date, b.status, b.cancel_token, b.created_at, b.updated_at`

// Create inserts the booking with status forced to pending. The insert runs
// inside a CTE so the returned row carries the trail name like every read.
func (r *pgBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	const q = `
		WITH b AS (
			INSERT INTO bookings (user_name, email, phone, trail_id, date, status, cancel_token)
			VALUES (@user_name, @email, @phone, @trail_id, @date, 'pending', @cancel_token)
			RETURNING *
		)
		SELECT ` + bookingColumns + `
		FROM b
		LEFT JOIN trails t ON t.id = b.trail_id`

	token := b.CancelToken
	if token == uuid.Nil {
		token = uuid.New()
	}

	args := pgx.NamedArgs{
		"user_name":    b.UserName,
		"email":        b.Email,
		"phone":        b.Phone,
		"trail_id":     b.TrailID,
		"date":         pgtype.Date{Time: b.Date, Valid: true},
		"cancel_token": token,
	}

	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Booking{}, classify("repo.BookingRepo.Create", err)
	}
	return result, nil
}

// GetByID retrieves a booking by primary key.
func (r *pgBookingRepo) GetByID(ctx context.Context, id int64) (domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings b
		LEFT JOIN trails t ON t.id = b.trail_id
		WHERE b.id = @id`

	result, err := scanBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Booking{}, classify("repo.BookingRepo.GetByID", err)
	}
	return result, nil
}

// UpdateStatus applies the transition as a single conditional UPDATE, so two
// concurrent transitions of the same booking cannot both succeed. When the
// guard matches nothing, a follow-up read tells a missing booking apart from
// one that is in another state.
func (r *pgBookingRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (domain.Booking, error) {
	const q = `
		WITH b AS (
			UPDATE bookings
			SET status = @to, updated_at = now()
			WHERE id = @id AND status = @from
			RETURNING *
		)
		SELECT ` + bookingColumns + `
		FROM b
		LEFT JOIN trails t ON t.id = b.trail_id`

	args := pgx.NamedArgs{"id": id, "from": string(from), "to": string(to)}
	result, err := scanBooking(r.db.QueryRow(ctx, q, args))
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Booking{}, classify("repo.BookingRepo.UpdateStatus", err)
	}

	current, err := r.currentStatus(ctx, id)
	if err != nil {
		return domain.Booking{}, classify("repo.BookingRepo.UpdateStatus", err)
	}
	return domain.Booking{}, fmt.Errorf("repo.BookingRepo.UpdateStatus: %w",
		&domain.TransitionError{ID: id, Current: current, Target: to})
}

// currentStatus reads only the status column of one booking.
func (r *pgBookingRepo) currentStatus(ctx context.Context, id int64) (domain.Status, error) {
	var raw string
	err := r.db.QueryRow(ctx, `SELECT status FROM bookings WHERE id = @id`, pgx.NamedArgs{"id": id}).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	st, err := domain.ParseStatus(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrPersistence, err)
	}
	return st, nil
}

// ListAll returns bookings ordered by date desc, created_at desc.
func (r *pgBookingRepo) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings b
		LEFT JOIN trails t ON t.id = b.trail_id
		ORDER BY b.date DESC, b.created_at DESC, b.id DESC
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{"limit": limitArg(p), "offset": p.Offset()}
	return r.list(ctx, "repo.BookingRepo.ListAll", q, args)
}

// CountAll returns the total number of bookings.
func (r *pgBookingRepo) CountAll(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings`).Scan(&n); err != nil {
		return 0, classify("repo.BookingRepo.CountAll", err)
	}
	return n, nil
}

// ListByEmail returns one contact's live bookings, most recent trip first.
func (r *pgBookingRepo) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings b
		LEFT JOIN trails t ON t.id = b.trail_id
		WHERE b.email = @email AND b.status <> 'cancelled'
		ORDER BY b.date DESC, b.created_at DESC, b.id DESC`

	return r.list(ctx, "repo.BookingRepo.ListByEmail", q, pgx.NamedArgs{"email": email})
}

// Cancel soft-deletes a booking by moving it to the cancelled status.
// Zero affected rows is not an error.
func (r *pgBookingRepo) Cancel(ctx context.Context, id int64) (int64, error) {
	const q = `
		UPDATE bookings
		SET status = 'cancelled', updated_at = now()
		WHERE id = @id AND status <> 'cancelled'`

	if _, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id}); err != nil {
		return 0, classify("repo.BookingRepo.Cancel", err)
	}
	return id, nil
}

// ExportRows returns every booking as a flat row, newest trip date first.
func (r *pgBookingRepo) ExportRows(ctx context.Context) ([]domain.BookingExportRow, error) {
	const q = `
		SELECT b.id, b.user_name, b.email, b.phone, b.trail_id, COALESCE(t.name, ''),
		       to_char(b.date, 'YYYY-MM-DD'), b.status, b.created_at
		FROM bookings b
		LEFT JOIN trails t ON t.id = b.trail_id
		ORDER BY b.date DESC, b.created_at DESC, b.id DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, classify("repo.BookingRepo.ExportRows", err)
	}
	defer rows.Close()

	out := []domain.BookingExportRow{}
	for rows.Next() {
		var (
			row    domain.BookingExportRow
			status string
		)
		err := rows.Scan(&row.BookingID, &row.UserName, &row.Email, &row.Phone,
			&row.TrailID, &row.TrailName, &row.Date, &status, &row.CreatedAt)
		if err != nil {
			return nil, classify("repo.BookingRepo.ExportRows: scan", err)
		}
		if row.Status, err = domain.ParseStatus(status); err != nil {
			return nil, classify("repo.BookingRepo.ExportRows", fmt.Errorf("%w: %w", domain.ErrPersistence, err))
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("repo.BookingRepo.ExportRows: rows", err)
	}
	return out, nil
}

// list runs a query selecting bookingColumns and scans every row.
func (r *pgBookingRepo) list(ctx context.Context, op, q string, args pgx.NamedArgs) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, classify(op+": scan", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op+": rows", err)
	}
	return bookings, nil
}

// scanBooking maps a single row of bookingColumns into a domain.Booking.
// A stored status outside the closed set is reported as a persistence error
// rather than passed through.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b      domain.Booking
		date   pgtype.Date
		status string
		token  pgtype.UUID
	)

	err := s.Scan(&b.ID, &b.UserName, &b.Email, &b.Phone, &b.TrailID, &b.TrailName,
		&date, &status, &token, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, domain.ErrNotFound
		}
		return domain.Booking{}, err
	}

	b.Status, err = domain.ParseStatus(status)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("%w: booking %d: %w", domain.ErrPersistence, b.ID, err)
	}
	b.Date = date.Time
	b.CancelToken = uuid.UUID(token.Bytes)
	return b, nil
}
