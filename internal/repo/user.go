package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/trailblaze/booking-api/internal/domain"
)

// UserRepo defines the persistence operations for user accounts.
type UserRepo interface {
	// Create inserts a new account. Returns domain.ErrDuplicate when the email
	// (compared case-insensitively) is already registered.
	Create(ctx context.Context, u domain.User) (domain.User, error)

	// GetByEmail looks an account up by case-insensitive email.
	// Returns domain.ErrNotFound if none matches.
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// UpsertAdmin creates the account with the admin role, or promotes and
	// re-keys an existing account with the same email.
	UpsertAdmin(ctx context.Context, u domain.User) (domain.User, error)
}

// pgUserRepo is the Postgres implementation of UserRepo.
type pgUserRepo struct {
	db db
}

// NewUserRepo constructs a UserRepo backed by the provided db connection.
func NewUserRepo(db db) UserRepo {
	return &pgUserRepo{db: db}
}

const userColumns = `id, name, email, password_hash, role, created_at, updated_at`

func (r *pgUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (name, email, password_hash, role)
		VALUES (@name, @email, @password_hash, @role)
		RETURNING ` + userColumns

	args := pgx.NamedArgs{
		"name":          u.Name,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"role":          string(u.Role),
	}
	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.User{}, classify("repo.UserRepo.Create", err)
	}
	return result, nil
}

func (r *pgUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower(@email)`

	result, err := scanUser(r.db.QueryRow(ctx, q, pgx.NamedArgs{"email": email}))
	if err != nil {
		return domain.User{}, classify("repo.UserRepo.GetByEmail", err)
	}
	return result, nil
}

func (r *pgUserRepo) UpsertAdmin(ctx context.Context, u domain.User) (domain.User, error) {
	const q = `
		INSERT INTO users (name, email, password_hash, role)
		VALUES (@name, @email, @password_hash, 'admin')
		ON CONFLICT ((lower(email))) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    role          = 'admin',
		    updated_at    = now()
		RETURNING ` + userColumns

	args := pgx.NamedArgs{
		"name":          u.Name,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
	}
	result, err := scanUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.User{}, classify("repo.UserRepo.UpsertAdmin", err)
	}
	return result, nil
}

// scanUser maps a single row of userColumns into a domain.User.
func scanUser(s scanner) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}
