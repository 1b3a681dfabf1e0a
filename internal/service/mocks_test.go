package service_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/trailblaze/booking-api/internal/domain"
	"github.com/trailblaze/booking-api/internal/repo"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Calling an unset field panics, which flags an
// unexpected repo call.

type mockBookingRepo struct {
	create       func(ctx context.Context, b domain.Booking) (domain.Booking, error)
	getByID      func(ctx context.Context, id int64) (domain.Booking, error)
	updateStatus func(ctx context.Context, id int64, from, to domain.Status) (domain.Booking, error)
	listAll      func(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, error)
	countAll     func(ctx context.Context) (int64, error)
	listByEmail  func(ctx context.Context, email string) ([]domain.Booking, error)
	cancel       func(ctx context.Context, id int64) (int64, error)
	exportRows   func(ctx context.Context) ([]domain.BookingExportRow, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, b domain.Booking) (domain.Booking, error) {
	return m.create(ctx, b)
}
func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (domain.Booking, error) {
	return m.getByID(ctx, id)
}
func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.Status) (domain.Booking, error) {
	return m.updateStatus(ctx, id, from, to)
}
func (m *mockBookingRepo) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, error) {
	return m.listAll(ctx, p)
}
func (m *mockBookingRepo) CountAll(ctx context.Context) (int64, error) {
	return m.countAll(ctx)
}
func (m *mockBookingRepo) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	return m.listByEmail(ctx, email)
}
func (m *mockBookingRepo) Cancel(ctx context.Context, id int64) (int64, error) {
	return m.cancel(ctx, id)
}
func (m *mockBookingRepo) ExportRows(ctx context.Context) ([]domain.BookingExportRow, error) {
	return m.exportRows(ctx)
}

var _ repo.BookingRepo = (*mockBookingRepo)(nil)

type mockTrailRepo struct {
	create  func(ctx context.Context, t domain.Trail) (domain.Trail, error)
	getByID func(ctx context.Context, id int64) (domain.Trail, error)
	list    func(ctx context.Context) ([]domain.Trail, error)
	update  func(ctx context.Context, t domain.Trail) (domain.Trail, error)
	delete  func(ctx context.Context, id int64) error
}

func (m *mockTrailRepo) Create(ctx context.Context, t domain.Trail) (domain.Trail, error) {
	return m.create(ctx, t)
}
func (m *mockTrailRepo) GetByID(ctx context.Context, id int64) (domain.Trail, error) {
	return m.getByID(ctx, id)
}
func (m *mockTrailRepo) List(ctx context.Context) ([]domain.Trail, error) {
	return m.list(ctx)
}
func (m *mockTrailRepo) Update(ctx context.Context, t domain.Trail) (domain.Trail, error) {
	return m.update(ctx, t)
}
func (m *mockTrailRepo) Delete(ctx context.Context, id int64) error {
	return m.delete(ctx, id)
}

var _ repo.TrailRepo = (*mockTrailRepo)(nil)

type mockUserRepo struct {
	create      func(ctx context.Context, u domain.User) (domain.User, error)
	getByEmail  func(ctx context.Context, email string) (domain.User, error)
	upsertAdmin func(ctx context.Context, u domain.User) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	return m.create(ctx, u)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) UpsertAdmin(ctx context.Context, u domain.User) (domain.User, error) {
	return m.upsertAdmin(ctx, u)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

type stubIssuer struct {
	issued []domain.Identity
}

func (s *stubIssuer) Issue(id domain.Identity) (string, time.Time, error) {
	s.issued = append(s.issued, id)
	return "signed-token", time.Date(2025, 6, 1, 13, 0, 0, 0, time.UTC), nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
