package domain

import "time"

// Difficulty grades a trail. Stored lowercase.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Trail is a guided mountain-bike route that bookings reference.
// Duration and Distance are display text ("2-3 hours", "40 km").
type Trail struct {
	ID          int64
	Name        string
	Location    string
	Difficulty  Difficulty
	Duration    string
	Distance    string
	Price       float64
	Description string
	ImageURL    string
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
