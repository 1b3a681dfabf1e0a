package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/trailblaze/booking-api/internal/domain"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateBookingRequest turns raw client input into a booking ready for
// persistence, or reports why it cannot. It has no side effects.
//
// Every missing field is reported together in a *domain.MissingFieldsError.
// Any client-supplied status is dropped; the result is always pending.
func ValidateBookingRequest(req domain.BookingRequest) (domain.Booking, error) {
	fields := []struct{ name, value string }{
		{"user_name", req.UserName},
		{"email", req.Email},
		{"phone", req.Phone},
		{"trail_id", req.TrailID},
		{"date", req.Date},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return domain.Booking{}, &domain.MissingFieldsError{Fields: missing}
	}

	email := normalizeEmail(req.Email)
	if !emailPattern.MatchString(email) {
		return domain.Booking{}, domain.NewError(domain.ErrValidation, "invalid email format")
	}

	trailID, err := strconv.ParseInt(strings.TrimSpace(req.TrailID), 10, 64)
	if err != nil {
		return domain.Booking{}, domain.NewError(domain.ErrValidation, "trail_id must be a number")
	}
	if trailID <= 0 {
		return domain.Booking{}, domain.NewError(domain.ErrValidation, "trail_id must be a positive integer")
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return domain.Booking{}, domain.NewError(domain.ErrValidation, "date must be a valid date")
	}

	return domain.Booking{
		UserName: strings.TrimSpace(req.UserName),
		Email:    email,
		Phone:    strings.TrimSpace(req.Phone),
		TrailID:  trailID,
		Date:     date,
		Status:   domain.StatusPending,
	}, nil
}

// parseDate accepts a calendar date or a full RFC 3339 timestamp and returns
// midnight UTC of the calendar date it names.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
