package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/trailblaze/booking-api/internal/domain"
	"github.com/trailblaze/booking-api/internal/repo"
	"github.com/trailblaze/booking-api/testutil"
)

// testRepos groups repos that share one transaction, so a booking can
// reference a trail created earlier in the same test.
type testRepos struct {
	bookings repo.BookingRepo
	trails   repo.TrailRepo
	users    repo.UserRepo
}

// newTestRepos opens a transaction against the test database and returns repos
// backed by that transaction. The transaction is rolled back when the test
// finishes, giving free per-test isolation.
//
// Requires TEST_DATABASE_URL to be set; TestMain applies the migrations.
func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test — no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})

	return testRepos{
		bookings: repo.NewBookingRepo(tx),
		trails:   repo.NewTrailRepo(tx),
		users:    repo.NewUserRepo(tx),
	}
}

func trailFixture() domain.Trail {
	return domain.Trail{
		Name:        "Test Ridge",
		Location:    "Kakani",
		Difficulty:  domain.DifficultyMedium,
		Duration:    "3 hours",
		Distance:    "25 km",
		Price:       8500,
		Description: "Test trail",
		Available:   true,
	}
}

func createTrail(t *testing.T, r testRepos) domain.Trail {
	t.Helper()
	trail, err := r.trails.Create(context.Background(), trailFixture())
	require.NoError(t, err)
	return trail
}

func bookingFixture(trailID int64) domain.Booking {
	return domain.Booking{
		UserName: "Ram Gurung",
		Email:    "ram@example.com",
		Phone:    "+9779800000000",
		TrailID:  trailID,
		Date:     time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}
