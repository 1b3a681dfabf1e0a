package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the coarse permission level carried in an access token.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves the service layer.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the authenticated caller extracted from a verified token.
type Identity struct {
	UserID int64
	Email  string
	Role   Role
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

// Actor is everything the workflow knows about who is asking: an optional
// authenticated identity and an optional booking possession token.
type Actor struct {
	Identity *Identity
	Token    uuid.UUID
}

// CanAccess reports whether the actor may read or cancel b. Admins may act on
// any booking; other callers must either be signed in with the booking's
// contact email or present the token issued when the booking was created.
func (a Actor) CanAccess(b Booking) bool {
	if a.Identity != nil {
		if a.Identity.IsAdmin() {
			return true
		}
		if a.Identity.Email != "" && strings.EqualFold(a.Identity.Email, b.Email) {
			return true
		}
	}
	return a.Token != uuid.Nil && a.Token == b.CancelToken
}
