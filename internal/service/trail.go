package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/trailblaze/booking-api/internal/domain"
	"github.com/trailblaze/booking-api/internal/repo"
)

// TrailService implements business logic for the trail catalogue.
type TrailService struct {
	repo    repo.TrailRepo
	timeout time.Duration
}

// NewTrailService constructs a TrailService backed by the provided TrailRepo.
func NewTrailService(r repo.TrailRepo, timeout time.Duration) *TrailService {
	return &TrailService{repo: r, timeout: timeout}
}

// List returns all trails.
func (s *TrailService) List(ctx context.Context) ([]domain.Trail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	trails, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TrailService.List: %w", err)
	}
	return trails, nil
}

// GetByID returns a single trail.
func (s *TrailService) GetByID(ctx context.Context, id int64) (domain.Trail, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trail{}, fmt.Errorf("service.TrailService.GetByID: %w", err)
	}
	return t, nil
}

// Create validates and persists a new trail.
func (s *TrailService) Create(ctx context.Context, t domain.Trail) (domain.Trail, error) {
	t, err := normalizeTrail(t)
	if err != nil {
		return domain.Trail{}, fmt.Errorf("service.TrailService.Create: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return domain.Trail{}, fmt.Errorf("service.TrailService.Create: %w", err)
	}
	return created, nil
}

// Update validates and overwrites an existing trail.
func (s *TrailService) Update(ctx context.Context, t domain.Trail) (domain.Trail, error) {
	t, err := normalizeTrail(t)
	if err != nil {
		return domain.Trail{}, fmt.Errorf("service.TrailService.Update: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return domain.Trail{}, fmt.Errorf("service.TrailService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes a trail. A trail that still has bookings cannot be deleted.
func (s *TrailService) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, domain.ErrReferentialIntegrity) {
		return fmt.Errorf("service.TrailService.Delete: %w",
			domain.NewError(domain.ErrConflict, "trail still has bookings and cannot be deleted"))
	}
	if err != nil {
		return fmt.Errorf("service.TrailService.Delete: %w", err)
	}
	return nil
}

// normalizeTrail trims text fields and enforces the catalogue rules.
func normalizeTrail(t domain.Trail) (domain.Trail, error) {
	t.Name = strings.TrimSpace(t.Name)
	t.Location = strings.TrimSpace(t.Location)
	t.Duration = strings.TrimSpace(t.Duration)
	t.Distance = strings.TrimSpace(t.Distance)
	t.Description = strings.TrimSpace(t.Description)
	t.ImageURL = strings.TrimSpace(t.ImageURL)
	t.Difficulty = domain.Difficulty(strings.ToLower(strings.TrimSpace(string(t.Difficulty))))

	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", t.Name},
		{"location", t.Location},
		{"difficulty", string(t.Difficulty)},
		{"duration", t.Duration},
		{"distance", t.Distance},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return domain.Trail{}, &domain.MissingFieldsError{Fields: missing}
	}

	switch t.Difficulty {
	case domain.DifficultyEasy, domain.DifficultyMedium, domain.DifficultyHard, domain.DifficultyExpert:
	default:
		return domain.Trail{}, domain.NewError(domain.ErrValidation,
			"difficulty must be one of easy, medium, hard, expert")
	}
	if t.Price < 0 {
		return domain.Trail{}, domain.NewError(domain.ErrValidation, "price must not be negative")
	}
	return t, nil
}
