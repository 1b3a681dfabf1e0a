package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/trailblaze/booking-api/internal/domain"
	"github.com/trailblaze/booking-api/internal/handler"
	"github.com/trailblaze/booking-api/internal/service"
)

// ---- mocks -----------------------------------------------------------------

// mockBookingServicer is a test double for handler.BookingServicer.
// Set only the method fields your test needs.
type mockBookingServicer struct {
	create      func(ctx context.Context, req domain.BookingRequest) (domain.Booking, error)
	get         func(ctx context.Context, id int64, actor domain.Actor) (domain.Booking, error)
	listAll     func(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error)
	listByEmail func(ctx context.Context, email string, caller domain.Identity) ([]domain.Booking, error)
	approve     func(ctx context.Context, id int64) (domain.Booking, error)
	reject      func(ctx context.Context, id int64) (domain.Booking, error)
	cancel      func(ctx context.Context, id int64, actor domain.Actor) (int64, error)
	export      func(ctx context.Context) ([]domain.BookingExportRow, error)
}

func (m *mockBookingServicer) Create(ctx context.Context, req domain.BookingRequest) (domain.Booking, error) {
	return m.create(ctx, req)
}
func (m *mockBookingServicer) Get(ctx context.Context, id int64, actor domain.Actor) (domain.Booking, error) {
	return m.get(ctx, id, actor)
}
func (m *mockBookingServicer) ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	return m.listAll(ctx, p)
}
func (m *mockBookingServicer) ListByEmail(ctx context.Context, email string, caller domain.Identity) ([]domain.Booking, error) {
	return m.listByEmail(ctx, email, caller)
}
func (m *mockBookingServicer) Approve(ctx context.Context, id int64) (domain.Booking, error) {
	return m.approve(ctx, id)
}
func (m *mockBookingServicer) Reject(ctx context.Context, id int64) (domain.Booking, error) {
	return m.reject(ctx, id)
}
func (m *mockBookingServicer) Cancel(ctx context.Context, id int64, actor domain.Actor) (int64, error) {
	return m.cancel(ctx, id, actor)
}
func (m *mockBookingServicer) Export(ctx context.Context) ([]domain.BookingExportRow, error) {
	return m.export(ctx)
}

// compile-time check: mockBookingServicer must satisfy handler.BookingServicer.
var _ handler.BookingServicer = (*mockBookingServicer)(nil)

type mockTrailServicer struct {
	list    func(ctx context.Context) ([]domain.Trail, error)
	getByID func(ctx context.Context, id int64) (domain.Trail, error)
	create  func(ctx context.Context, t domain.Trail) (domain.Trail, error)
	update  func(ctx context.Context, t domain.Trail) (domain.Trail, error)
	delete  func(ctx context.Context, id int64) error
}

func (m *mockTrailServicer) List(ctx context.Context) ([]domain.Trail, error) { return m.list(ctx) }
func (m *mockTrailServicer) GetByID(ctx context.Context, id int64) (domain.Trail, error) {
	return m.getByID(ctx, id)
}
func (m *mockTrailServicer) Create(ctx context.Context, t domain.Trail) (domain.Trail, error) {
	return m.create(ctx, t)
}
func (m *mockTrailServicer) Update(ctx context.Context, t domain.Trail) (domain.Trail, error) {
	return m.update(ctx, t)
}
func (m *mockTrailServicer) Delete(ctx context.Context, id int64) error { return m.delete(ctx, id) }

var _ handler.TrailServicer = (*mockTrailServicer)(nil)

type mockAuthServicer struct {
	register func(ctx context.Context, name, email, password string) (domain.User, error)
	login    func(ctx context.Context, email, password string) (service.Session, error)
}

func (m *mockAuthServicer) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	return m.register(ctx, name, email, password)
}
func (m *mockAuthServicer) Login(ctx context.Context, email, password string) (service.Session, error) {
	return m.login(ctx, email, password)
}

var _ handler.AuthServicer = (*mockAuthServicer)(nil)

// tokenTable accepts exactly the bearer tokens it lists.
type tokenTable map[string]domain.Identity

func (t tokenTable) Verify(token string) (domain.Identity, error) {
	id, ok := t[token]
	if !ok {
		return domain.Identity{}, fmt.Errorf("%w: invalid token", domain.ErrUnauthorized)
	}
	return id, nil
}

var (
	adminIdentity = domain.Identity{UserID: 1, Email: "ops@example.com", Role: domain.RoleAdmin}
	userIdentity  = domain.Identity{UserID: 2, Email: "ram@example.com", Role: domain.RoleUser}
	testTokens    = tokenTable{"admin": adminIdentity, "user": userIdentity}
)

// ---- helpers ---------------------------------------------------------------

// newHTTPHandler wires a Server into the chi router exactly as main.go does.
func newHTTPHandler(d handler.Deps) http.Handler {
	d.Verifier = testTokens
	d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return handler.NewServer(d).Routes()
}

// do sends a request with an optional bearer token and JSON body.
func do(t *testing.T, h http.Handler, method, target, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

var fixtureToken = uuid.MustParse("0b7d1a7e-2f0c-4a8e-9f5e-5d1c7a3b9e42")

func bookingFixture(status domain.Status) domain.Booking {
	return domain.Booking{
		ID:          7,
		UserName:    "Ram Gurung",
		Email:       "ram@example.com",
		Phone:       "+9779800000000",
		TrailID:     1,
		TrailName:   "Annapurna Circuit",
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:      status,
		CancelToken: fixtureToken,
		CreatedAt:   time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC),
	}
}
