// Package domain contains the core data types for the Trailblaze booking API.
// This package has no dependencies on other internal packages and is imported
// by every one of them (repo, service, handler).
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a booking. The set of values is closed:
// use ParseStatus to convert anything read from outside the program.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// ParseStatus converts s to a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusRejected, StatusCancelled:
		return st, nil
	default:
		return "", fmt.Errorf("unknown booking status %q", s)
	}
}

// IsTerminal reports whether no admin transition can leave this status.
// Only pending bookings may still be approved or rejected.
func (s Status) IsTerminal() bool {
	return s != StatusPending
}

func (s Status) String() string { return string(s) }

// Booking is a request to reserve a guided trip on a trail for one date.
// Date always carries calendar-date granularity (midnight UTC).
type Booking struct {
	ID          int64
	UserName    string
	Email       string
	Phone       string
	TrailID     int64
	TrailName   string // populated only by listings that join trails
	Date        time.Time
	Status      Status
	CancelToken uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BookingRequest is the raw, unvalidated input of a create-booking call.
// Every field is kept as text so the validation stage can report each
// missing or malformed value by name. Status is accepted from clients and
// always ignored.
type BookingRequest struct {
	UserName string
	Email    string
	Phone    string
	TrailID  string
	Date     string
	Status   string
}

// BookingExportRow is a single flat row of the admin booking export.
type BookingExportRow struct {
	BookingID int64
	UserName  string
	Email     string
	Phone     string
	TrailID   int64
	TrailName string
	Date      string // "2006-01-02"
	Status    Status
	CreatedAt time.Time
}
