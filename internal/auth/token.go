// Package auth issues and verifies the signed access tokens that carry a
// caller's identity and role.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/trailblaze/booking-api/internal/domain"
)

const issuer = "trailblaze-api"

// claims is the JWT payload. Subject holds the numeric user ID.
type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns an issuer using secret as the HMAC key.
// now may be nil, in which case time.Now is used.
func NewTokenIssuer(secret string, ttl time.Duration, now func() time.Time) *TokenIssuer {
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: now}
}

// Issue signs a token for the identity and returns it with its expiry.
func (i *TokenIssuer) Issue(id domain.Identity) (string, time.Time, error) {
	now := i.now().UTC()
	exp := now.Add(i.ttl)
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(id.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
		Email: id.Email,
		Role:  string(id.Role),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("auth.TokenIssuer.Issue: %w", err)
	}
	return signed, exp, nil
}

// Verify parses and validates a token. Every failure (bad signature, wrong
// algorithm, expiry, malformed claims) wraps domain.ErrUnauthorized.
func (i *TokenIssuer) Verify(token string) (domain.Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %s", domain.ErrUnauthorized, jwtReason(err))
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: invalid subject", domain.ErrUnauthorized)
	}
	role := domain.Role(c.Role)
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return domain.Identity{}, fmt.Errorf("%w: invalid role", domain.ErrUnauthorized)
	}
	return domain.Identity{UserID: userID, Email: c.Email, Role: role}, nil
}

// jwtReason turns a jwt library error into a short client-facing reason.
func jwtReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "token has expired"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "token signature is invalid"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "token is malformed"
	default:
		return "invalid token"
	}
}
