package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/trailblaze/booking-api/internal/domain"
)

// TrailRepo defines the persistence operations for Trails.
type TrailRepo interface {
	// Create inserts a new trail and returns the persisted record.
	Create(ctx context.Context, trail domain.Trail) (domain.Trail, error)

	// GetByID retrieves a single trail by primary key.
	// Returns domain.ErrNotFound if no trail with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Trail, error)

	// List returns all trails, newest first.
	List(ctx context.Context) ([]domain.Trail, error)

	// Update overwrites the mutable fields of an existing trail.
	// Returns domain.ErrNotFound if no trail with that ID exists.
	Update(ctx context.Context, trail domain.Trail) (domain.Trail, error)

	// Delete removes a trail by ID. Returns domain.ErrNotFound if it does not
	// exist and domain.ErrReferentialIntegrity if bookings still reference it.
	Delete(ctx context.Context, id int64) error
}

// pgTrailRepo is the Postgres implementation of TrailRepo.
type pgTrailRepo struct {
	db db
}

// NewTrailRepo constructs a TrailRepo backed by the provided db connection.
func NewTrailRepo(db db) TrailRepo {
	return &pgTrailRepo{db: db}
}

const trailColumns = `
	id, name, location, difficulty, duration, distance, price,
	description, image_url, available, created_at, updated_at`

func (r *pgTrailRepo) Create(ctx context.Context, trail domain.Trail) (domain.Trail, error) {
	const q = `
		INSERT INTO trails (name, location, difficulty, duration, distance, price, description, image_url, available)
		VALUES (@name, @location, @difficulty, @duration, @distance, @price, @description, @image_url, @available)
		RETURNING ` + trailColumns

	result, err := scanTrail(r.db.QueryRow(ctx, q, trailArgs(trail)))
	if err != nil {
		return domain.Trail{}, classify("repo.TrailRepo.Create", err)
	}
	return result, nil
}

func (r *pgTrailRepo) GetByID(ctx context.Context, id int64) (domain.Trail, error) {
	const q = `SELECT ` + trailColumns + ` FROM trails WHERE id = @id`

	result, err := scanTrail(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trail{}, classify("repo.TrailRepo.GetByID", err)
	}
	return result, nil
}

func (r *pgTrailRepo) List(ctx context.Context) ([]domain.Trail, error) {
	const q = `SELECT ` + trailColumns + ` FROM trails ORDER BY created_at DESC, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, classify("repo.TrailRepo.List", err)
	}
	defer rows.Close()

	trails := []domain.Trail{}
	for rows.Next() {
		t, err := scanTrail(rows)
		if err != nil {
			return nil, classify("repo.TrailRepo.List: scan", err)
		}
		trails = append(trails, t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("repo.TrailRepo.List: rows", err)
	}
	return trails, nil
}

func (r *pgTrailRepo) Update(ctx context.Context, trail domain.Trail) (domain.Trail, error) {
	const q = `
		UPDATE trails
		SET name        = @name,
		    location    = @location,
		    difficulty  = @difficulty,
		    duration    = @duration,
		    distance    = @distance,
		    price       = @price,
		    description = @description,
		    image_url   = @image_url,
		    available   = @available,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + trailColumns

	args := trailArgs(trail)
	args["id"] = trail.ID

	result, err := scanTrail(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trail{}, classify("repo.TrailRepo.Update", err)
	}
	return result, nil
}

func (r *pgTrailRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM trails WHERE id = @id`, pgx.NamedArgs{"id": id})
	if err != nil {
		return classify("repo.TrailRepo.Delete", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TrailRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func trailArgs(t domain.Trail) pgx.NamedArgs {
	return pgx.NamedArgs{
		"name":        t.Name,
		"location":    t.Location,
		"difficulty":  string(t.Difficulty),
		"duration":    t.Duration,
		"distance":    t.Distance,
		"price":       t.Price,
		"description": t.Description,
		"image_url":   t.ImageURL,
		"available":   t.Available,
	}
}

// scanTrail maps a single row of trailColumns into a domain.Trail.
func scanTrail(s scanner) (domain.Trail, error) {
	var (
		t          domain.Trail
		difficulty string
	)
	err := s.Scan(&t.ID, &t.Name, &t.Location, &difficulty, &t.Duration, &t.Distance,
		&t.Price, &t.Description, &t.ImageURL, &t.Available, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trail{}, domain.ErrNotFound
		}
		return domain.Trail{}, err
	}
	t.Difficulty = domain.Difficulty(difficulty)
	return t, nil
}
