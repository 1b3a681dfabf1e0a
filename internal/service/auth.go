package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trailblaze/booking-api/internal/domain"
	"github.com/trailblaze/booking-api/internal/repo"
)

const (
	minPasswordLength = 6
	// bcrypt rejects passwords longer than this many bytes.
	maxPasswordLength = 72
)

var errPasswordTooLong = domain.NewError(domain.ErrValidation,
	fmt.Sprintf("password must be at most %d bytes", maxPasswordLength))

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(id domain.Identity) (string, time.Time, error)
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

// AuthService registers accounts and exchanges credentials for tokens.
type AuthService struct {
	users   repo.UserRepo
	tokens  TokenIssuer
	timeout time.Duration
	cost    int
	log     *slog.Logger
}

// NewAuthService constructs an AuthService. cost is the bcrypt work factor;
// zero selects bcrypt.DefaultCost.
func NewAuthService(users repo.UserRepo, tokens TokenIssuer, timeout time.Duration, cost int, log *slog.Logger) *AuthService {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, timeout: timeout, cost: cost, log: log}
}

// Register creates a user account with the user role.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	if password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", &domain.MissingFieldsError{Fields: missing})
	}
	if !emailPattern.MatchString(email) {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w",
			domain.NewError(domain.ErrValidation, "invalid email format"))
	}
	if len(password) < minPasswordLength {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w",
			domain.NewError(domain.ErrValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength)))
	}
	if len(password) > maxPasswordLength {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", errPasswordTooLong)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.users.Create(ctx, domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
	})
	if errors.Is(err, domain.ErrDuplicate) {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w",
			domain.NewError(domain.ErrDuplicate, "an account with this email already exists"))
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.Register: %w", err)
	}
	return u, nil
}

// Login checks credentials and issues an access token. Unknown emails and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return Session{}, fmt.Errorf("service.AuthService.Login: %w",
			domain.NewError(domain.ErrValidation, "email and password are required"))
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	badCredentials := domain.NewError(domain.ErrUnauthorized, "invalid email or password")

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return Session{}, fmt.Errorf("service.AuthService.Login: %w", badCredentials)
	}
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Login: %w", badCredentials)
	}

	token, exp, err := s.tokens.Issue(domain.Identity{UserID: u.ID, Email: u.Email, Role: u.Role})
	if err != nil {
		return Session{}, fmt.Errorf("service.AuthService.Login: %w", err)
	}
	return Session{Token: token, ExpiresAt: exp, User: u}, nil
}

// EnsureAdmin makes sure an admin account exists for email with password.
// An existing account with that email is promoted and its password reset.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || len(password) < minPasswordLength {
		return domain.User{}, fmt.Errorf("service.AuthService.EnsureAdmin: %w",
			domain.NewError(domain.ErrValidation, "admin email and a password of at least 6 characters are required"))
	}
	if len(password) > maxPasswordLength {
		return domain.User{}, fmt.Errorf("service.AuthService.EnsureAdmin: %w", errPasswordTooLong)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.EnsureAdmin: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	u, err := s.users.UpsertAdmin(ctx, domain.User{Name: "Administrator", Email: email, PasswordHash: string(hash)})
	if err != nil {
		return domain.User{}, fmt.Errorf("service.AuthService.EnsureAdmin: %w", err)
	}
	s.log.InfoContext(ctx, "admin account ensured", slog.Int64("user_id", u.ID))
	return u, nil
}
