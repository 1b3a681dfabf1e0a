// Package handler implements the HTTP handlers for the booking API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, booking.go, trail.go, user.go) but all share the same
// Server struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/trailblaze/booking-api/internal/domain"
	"github.com/trailblaze/booking-api/internal/middleware"
	"github.com/trailblaze/booking-api/internal/service"
)

// BookingServicer defines the workflow operations the booking handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type BookingServicer interface {
	Create(ctx context.Context, req domain.BookingRequest) (domain.Booking, error)
	Get(ctx context.Context, id int64, actor domain.Actor) (domain.Booking, error)
	ListAll(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error)
	ListByEmail(ctx context.Context, email string, caller domain.Identity) ([]domain.Booking, error)
	Approve(ctx context.Context, id int64) (domain.Booking, error)
	Reject(ctx context.Context, id int64) (domain.Booking, error)
	Cancel(ctx context.Context, id int64, actor domain.Actor) (int64, error)
	Export(ctx context.Context) ([]domain.BookingExportRow, error)
}

// TrailServicer defines the catalogue operations the trail handlers depend on.
type TrailServicer interface {
	List(ctx context.Context) ([]domain.Trail, error)
	GetByID(ctx context.Context, id int64) (domain.Trail, error)
	Create(ctx context.Context, t domain.Trail) (domain.Trail, error)
	Update(ctx context.Context, t domain.Trail) (domain.Trail, error)
	Delete(ctx context.Context, id int64) error
}

// AuthServicer defines the account operations the user handlers depend on.
type AuthServicer interface {
	Register(ctx context.Context, name, email, password string) (domain.User, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
}

// Pinger reports whether the database is reachable. *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps lists everything the Server needs. Nil services leave their routes
// unregistered, which keeps narrow handler tests small.
type Deps struct {
	Bookings BookingServicer
	Trails   TrailServicer
	Accounts AuthServicer
	DB       Pinger
	Verifier middleware.TokenVerifier
	Logger   *slog.Logger
	// DevErrors adds the underlying error text to 500 responses.
	DevErrors bool
}

// Server holds the dependencies shared by every handler.
type Server struct {
	bookings  BookingServicer
	trails    TrailServicer
	accounts  AuthServicer
	db        Pinger
	verifier  middleware.TokenVerifier
	log       *slog.Logger
	devErrors bool
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	log := d.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		bookings:  d.Bookings,
		trails:    d.Trails,
		accounts:  d.Accounts,
		db:        d.DB,
		verifier:  d.Verifier,
		log:       log,
		devErrors: d.DevErrors,
	}
}

// Routes returns the API router. Cross-cutting middleware (request IDs,
// logging, CORS, body limits) is applied by the caller.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	if s.verifier != nil {
		r.Use(middleware.NewAuthenticator(s.verifier))
	}

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	if s.bookings != nil {
		r.Route("/bookings", func(r chi.Router) {
			r.Post("/", s.CreateBooking)
			r.With(middleware.RequireAdmin).Get("/", s.ListBookings)
			r.With(middleware.RequireAdmin).Get("/export", s.ExportBookings)
			r.With(middleware.RequireAuth).Get("/user", s.ListUserBookings)
			r.Get("/{id}", s.GetBooking)
			r.Delete("/{id}", s.CancelBooking)
			r.With(middleware.RequireAdmin).Put("/{id}/approve", s.ApproveBooking)
			r.With(middleware.RequireAdmin).Put("/{id}/reject", s.RejectBooking)
		})
	}

	if s.trails != nil {
		r.Route("/trails", func(r chi.Router) {
			r.Get("/", s.ListTrails)
			r.Get("/{id}", s.GetTrail)
			r.With(middleware.RequireAdmin).Post("/", s.CreateTrail)
			r.With(middleware.RequireAdmin).Put("/{id}", s.UpdateTrail)
			r.With(middleware.RequireAdmin).Delete("/{id}", s.DeleteTrail)
		})
	}

	if s.accounts != nil {
		r.Post("/users/register", s.Register)
		r.Post("/users/login", s.Login)
	}

	return r
}
