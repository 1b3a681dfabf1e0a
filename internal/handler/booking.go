package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/trailblaze/booking-api/internal/auth"
	"github.com/trailblaze/booking-api/internal/domain"
)

// createBookingRequest is the body of POST /bookings.
type createBookingRequest struct {
	UserName looseString `json:"user_name"`
	Email    looseString `json:"email"`
	Phone    looseString `json:"phone"`
	TrailID  looseString `json:"trail_id"`
	Date     looseString `json:"date"`
	Status   looseString `json:"status"`
}

// bookingResponse is the wire form of a booking.
type bookingResponse struct {
	ID        int64              `json:"id"`
	UserName  string             `json:"user_name"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone"`
	TrailID   int64              `json:"trail_id"`
	TrailName string             `json:"trail_name,omitempty"`
	Date      openapi_types.Date `json:"date"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

type createBookingResponse struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	Booking     bookingResponse `json:"booking"`
	CancelToken uuid.UUID       `json:"cancel_token"`
}

type bookingEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Booking bookingResponse `json:"booking"`
}

type cancelResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	BookingID int64  `json:"bookingId"`
}

// CreateBooking handles POST /bookings.
func (s *Server) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var body createBookingRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	created, err := s.bookings.Create(r.Context(), domain.BookingRequest{
		UserName: string(body.UserName),
		Email:    string(body.Email),
		Phone:    string(body.Phone),
		TrailID:  string(body.TrailID),
		Date:     string(body.Date),
		Status:   string(body.Status),
	})
	if err != nil {
		s.writeError(w, r, "trail", err)
		return
	}

	writeJSON(w, http.StatusCreated, createBookingResponse{
		Success:     true,
		Message:     "Booking created successfully",
		Booking:     bookingToResponse(created),
		CancelToken: created.CancelToken,
	})
}

// ListBookings handles GET /bookings. Supports optional ?page= and ?limit=;
// the total row count is returned in X-Total-Count.
func (s *Server) ListBookings(w http.ResponseWriter, r *http.Request) {
	p, ok := pageParams(w, r)
	if !ok {
		return
	}

	bookings, total, err := s.bookings.ListAll(r.Context(), p)
	if err != nil {
		s.writeError(w, r, "", err)
		return
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	writeJSON(w, http.StatusOK, bookingsToResponse(bookings))
}

// ListUserBookings handles GET /bookings/user?email=.
func (s *Server) ListUserBookings(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.IdentityFrom(r.Context())

	bookings, err := s.bookings.ListByEmail(r.Context(), r.URL.Query().Get("email"), caller)
	if err != nil {
		s.writeError(w, r, "", err)
		return
	}
	writeJSON(w, http.StatusOK, bookingsToResponse(bookings))
}

// GetBooking handles GET /bookings/{id}.
func (s *Server) GetBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b, err := s.bookings.Get(r.Context(), id, actorFrom(r))
	if err != nil {
		s.writeError(w, r, "booking", err)
		return
	}
	writeJSON(w, http.StatusOK, bookingEnvelope{Success: true, Booking: bookingToResponse(b)})
}

// ApproveBooking handles PUT /bookings/{id}/approve.
func (s *Server) ApproveBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b, err := s.bookings.Approve(r.Context(), id)
	if err != nil {
		s.writeError(w, r, "booking", err)
		return
	}
	writeJSON(w, http.StatusOK, bookingEnvelope{
		Success: true,
		Message: "Booking approved successfully",
		Booking: bookingToResponse(b),
	})
}

// RejectBooking handles PUT /bookings/{id}/reject.
func (s *Server) RejectBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b, err := s.bookings.Reject(r.Context(), id)
	if err != nil {
		s.writeError(w, r, "booking", err)
		return
	}
	writeJSON(w, http.StatusOK, bookingEnvelope{
		Success: true,
		Message: "Booking rejected successfully",
		Booking: bookingToResponse(b),
	})
}

// CancelBooking handles DELETE /bookings/{id}.
func (s *Server) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	cancelled, err := s.bookings.Cancel(r.Context(), id, actorFrom(r))
	if err != nil {
		s.writeError(w, r, "booking", err)
		return
	}
	writeJSON(w, http.StatusOK, cancelResponse{
		Success:   true,
		Message:   "Booking cancelled successfully",
		BookingID: cancelled,
	})
}

// --- export -----------------------------------------------------------------

// exportCSVHeaders defines the column names written as the first row of a CSV export.
var exportCSVHeaders = []string{
	"booking_id", "user_name", "email", "phone", "trail_id", "trail_name",
	"date", "status", "created_at",
}

type exportRow struct {
	BookingID int64              `json:"booking_id"`
	UserName  string             `json:"user_name"`
	Email     string             `json:"email"`
	Phone     string             `json:"phone"`
	TrailID   int64              `json:"trail_id"`
	TrailName string             `json:"trail_name"`
	Date      openapi_types.Date `json:"date"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// ExportBookings handles GET /bookings/export.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportBookings(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "csv" && format != "json" {
		writeBadRequest(w, "format must be csv or json")
		return
	}

	rows, err := s.bookings.Export(r.Context())
	if err != nil {
		s.writeError(w, r, "", err)
		return
	}

	if format == "csv" {
		buf := buildExportCSV(rows)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="bookings.csv"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
		return
	}

	out := make([]exportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, exportRowToResponse(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// buildExportCSV encodes export rows as CSV with a header line.
func buildExportCSV(rows []domain.BookingExportRow) *bytes.Buffer {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	_ = cw.Write(exportCSVHeaders)
	for _, row := range rows {
		_ = cw.Write([]string{
			strconv.FormatInt(row.BookingID, 10),
			row.UserName,
			row.Email,
			row.Phone,
			strconv.FormatInt(row.TrailID, 10),
			row.TrailName,
			row.Date,
			string(row.Status),
			row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	cw.Flush()
	return &buf
}

func exportRowToResponse(row domain.BookingExportRow) exportRow {
	var date openapi_types.Date
	if t, err := time.Parse(time.DateOnly, row.Date); err == nil {
		date = openapi_types.Date{Time: t}
	}
	return exportRow{
		BookingID: row.BookingID,
		UserName:  row.UserName,
		Email:     row.Email,
		Phone:     row.Phone,
		TrailID:   row.TrailID,
		TrailName: row.TrailName,
		Date:      date,
		Status:    string(row.Status),
		CreatedAt: row.CreatedAt,
	}
}

// --- mapping helpers --------------------------------------------------------

// bookingToResponse converts a domain.Booking into its wire form. The cancel
// token is omitted; only CreateBooking returns it.
func bookingToResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:        b.ID,
		UserName:  b.UserName,
		Email:     b.Email,
		Phone:     b.Phone,
		TrailID:   b.TrailID,
		TrailName: b.TrailName,
		Date:      openapi_types.Date{Time: b.Date},
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func bookingsToResponse(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingToResponse(b))
	}
	return out
}
