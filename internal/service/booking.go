// Package service contains the business logic for the booking API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/trailblaze/booking-api/internal/domain"
	"github.com/trailblaze/booking-api/internal/repo"
)

const unknownTrailMessage = "Invalid trail_id. The specified trail does not exist."

// BookingService is the booking workflow: it admits new bookings as pending
// and moves them to confirmed, rejected or cancelled.
type BookingService struct {
	repo    repo.BookingRepo
	timeout time.Duration
	log     *slog.Logger
}

// NewBookingService constructs a BookingService. Every repo call is bounded
// by timeout.
func NewBookingService(r repo.BookingRepo, timeout time.Duration, log *slog.Logger) *BookingService {
	return &BookingService{repo: r, timeout: timeout, log: log}
}

// Create validates req and persists it as a new pending booking.
func (s *BookingService) Create(ctx context.Context, req domain.BookingRequest) (domain.Booking, error) {
	b, err := ValidateBookingRequest(req)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	created, err := s.repo.Create(ctx, b)
	switch {
	case errors.Is(err, domain.ErrReferentialIntegrity):
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w",
			domain.NewError(domain.ErrReferentialIntegrity, unknownTrailMessage))
	case errors.Is(err, domain.ErrDuplicate):
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w",
			domain.NewError(domain.ErrDuplicate, "a booking for this email, trail and date already exists"))
	case err != nil:
		return domain.Booking{}, fmt.Errorf("service.BookingService.Create: %w", err)
	}

	s.log.InfoContext(ctx, "booking created",
		slog.Int64("booking_id", created.ID),
		slog.Int64("trail_id", created.TrailID),
	)
	return created, nil
}

// Get returns a live booking the actor is allowed to see. Cancelled bookings
// are reported as not found, and so is any booking an anonymous caller
// cannot access, so ids cannot be enumerated without signing in.
func (s *BookingService) Get(ctx context.Context, id int64, actor domain.Actor) (domain.Booking, error) {
	b, err := s.live(ctx, id)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Get: %w", err)
	}
	if !actor.CanAccess(b) {
		if actor.Identity == nil {
			return domain.Booking{}, fmt.Errorf("service.BookingService.Get: %w", domain.ErrNotFound)
		}
		return domain.Booking{}, fmt.Errorf("service.BookingService.Get: %w", domain.ErrForbidden)
	}
	return b, nil
}

// ListAll returns one page of every booking along with the total row count.
func (s *BookingService) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	bookings, err := s.repo.ListAll(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.BookingService.ListAll: %w", err)
	}
	total, err := s.repo.CountAll(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("service.BookingService.ListAll: %w", err)
	}
	return bookings, total, nil
}

// ListByEmail returns the live bookings made under email. Non-admin callers
// may only list their own email.
func (s *BookingService) ListByEmail(ctx context.Context, email string, caller domain.Identity) ([]domain.Booking, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("service.BookingService.ListByEmail: %w",
			domain.NewError(domain.ErrValidation, "email query parameter is required"))
	}
	if !caller.IsAdmin() && !strings.EqualFold(caller.Email, email) {
		return nil, fmt.Errorf("service.BookingService.ListByEmail: %w", domain.ErrForbidden)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	bookings, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.ListByEmail: %w", err)
	}
	return bookings, nil
}

// Approve moves a pending booking to confirmed.
func (s *BookingService) Approve(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := s.transition(ctx, id, domain.StatusConfirmed)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Approve: %w", err)
	}
	return b, nil
}

// Reject moves a pending booking to rejected.
func (s *BookingService) Reject(ctx context.Context, id int64) (domain.Booking, error) {
	b, err := s.transition(ctx, id, domain.StatusRejected)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("service.BookingService.Reject: %w", err)
	}
	return b, nil
}

// transition applies pending -> to. A booking already in status to is
// returned unchanged; any other non-pending status is a conflict, and a
// cancelled booking is not found.
func (s *BookingService) transition(ctx context.Context, id int64, to domain.Status) (domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	b, err := s.repo.UpdateStatus(ctx, id, domain.StatusPending, to)
	if err == nil {
		s.log.InfoContext(ctx, "booking status changed",
			slog.Int64("booking_id", id),
			slog.String("from", string(domain.StatusPending)),
			slog.String("to", string(to)),
		)
		return b, nil
	}

	var te *domain.TransitionError
	if !errors.As(err, &te) {
		return domain.Booking{}, err
	}
	switch te.Current {
	case to:
		return s.repo.GetByID(ctx, id)
	case domain.StatusCancelled:
		return domain.Booking{}, domain.ErrNotFound
	default:
		s.log.InfoContext(ctx, "booking transition refused",
			slog.Int64("booking_id", id),
			slog.String("from", string(te.Current)),
			slog.String("to", string(to)),
		)
		return domain.Booking{}, err
	}
}

// Cancel withdraws a booking on behalf of actor and returns its ID. Unknown
// and already-cancelled IDs succeed without change.
func (s *BookingService) Cancel(ctx context.Context, id int64, actor domain.Actor) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	b, err := s.repo.GetByID(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return id, nil
	case err != nil:
		return 0, fmt.Errorf("service.BookingService.Cancel: %w", err)
	case b.Status == domain.StatusCancelled:
		return id, nil
	case !actor.CanAccess(b):
		return 0, fmt.Errorf("service.BookingService.Cancel: %w", domain.ErrForbidden)
	}

	if _, err := s.repo.Cancel(ctx, id); err != nil {
		return 0, fmt.Errorf("service.BookingService.Cancel: %w", err)
	}
	s.log.InfoContext(ctx, "booking status changed",
		slog.Int64("booking_id", id),
		slog.String("from", string(b.Status)),
		slog.String("to", string(domain.StatusCancelled)),
	)
	return id, nil
}

// Export returns every booking as a flat export row.
func (s *BookingService) Export(ctx context.Context) ([]domain.BookingExportRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.repo.ExportRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.BookingService.Export: %w", err)
	}
	return rows, nil
}

// live loads a booking and hides cancelled ones.
func (s *BookingService) live(ctx context.Context, id int64) (domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Booking{}, err
	}
	if b.Status == domain.StatusCancelled {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, nil
}
