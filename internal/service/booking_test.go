package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trailblaze/booking-api/internal/domain"
	"github.com/trailblaze/booking-api/internal/service"
)

func newBookingService(r *mockBookingRepo) *service.BookingService {
	return service.NewBookingService(r, time.Second, discardLogger())
}

func storedBooking(status domain.Status) domain.Booking {
	return domain.Booking{
		ID:          7,
		UserName:    "Ram Gurung",
		Email:       "ram@example.com",
		Phone:       "+9779800000000",
		TrailID:     1,
		TrailName:   "Annapurna Circuit",
		Date:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:      status,
		CancelToken: uuid.MustParse("6f1c1a5e-3c1b-4d53-9a55-2b4b0f3f8e01"),
	}
}

// statefulRepo keeps a single booking in memory and applies guarded
// transitions the way the Postgres repo does.
func statefulRepo(b domain.Booking) *mockBookingRepo {
	return &mockBookingRepo{
		getByID: func(_ context.Context, id int64) (domain.Booking, error) {
			if id != b.ID {
				return domain.Booking{}, domain.ErrNotFound
			}
			return b, nil
		},
		updateStatus: func(_ context.Context, id int64, from, to domain.Status) (domain.Booking, error) {
			if id != b.ID {
				return domain.Booking{}, domain.ErrNotFound
			}
			if b.Status != from {
				return domain.Booking{}, &domain.TransitionError{ID: id, Current: b.Status, Target: to}
			}
			b.Status = to
			return b, nil
		},
		cancel: func(_ context.Context, id int64) (int64, error) {
			if id == b.ID {
				b.Status = domain.StatusCancelled
			}
			return id, nil
		},
	}
}

// ---- Create ----------------------------------------------------------------

func TestBookingService_Create_ForcesPending(t *testing.T) {
	var saved domain.Booking
	svc := newBookingService(&mockBookingRepo{
		create: func(_ context.Context, b domain.Booking) (domain.Booking, error) {
			saved = b
			b.ID = 7
			return b, nil
		},
	})
	req := validRequest()
	req.Status = "confirmed"

	got, err := svc.Create(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, domain.StatusPending, got.Status)
	assert.Equal(t, domain.StatusPending, saved.Status)
}

func TestBookingService_Create_InvalidNeverReachesRepo(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{}) // create unset: a call would panic

	req := validRequest()
	req.Email = "not-an-email"
	_, err := svc.Create(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBookingService_Create_UnknownTrail(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{
		create: func(context.Context, domain.Booking) (domain.Booking, error) {
			return domain.Booking{}, fmt.Errorf("repo: %w: bookings_trail_id_fkey", domain.ErrReferentialIntegrity)
		},
	})
	req := validRequest()
	req.TrailID = "999999"

	_, err := svc.Create(context.Background(), req)

	assert.ErrorIs(t, err, domain.ErrReferentialIntegrity)
	var de *domain.Error
	require.ErrorAs(t, err, &de)
	assert.Contains(t, de.Message, "trail does not exist")
}

func TestBookingService_Create_Duplicate(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{
		create: func(context.Context, domain.Booking) (domain.Booking, error) {
			return domain.Booking{}, fmt.Errorf("repo: %w", domain.ErrDuplicate)
		},
	})

	_, err := svc.Create(context.Background(), validRequest())

	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestBookingService_Create_AppliesTimeout(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{
		create: func(ctx context.Context, b domain.Booking) (domain.Booking, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok, "repo call must carry a deadline")
			return b, nil
		},
	})

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)
}

// ---- Get -------------------------------------------------------------------

func TestBookingService_Get(t *testing.T) {
	b := storedBooking(domain.StatusPending)
	svc := newBookingService(statefulRepo(b))

	got, err := svc.Get(context.Background(), b.ID, domain.Actor{Token: b.CancelToken})
	require.NoError(t, err)
	assert.Equal(t, b, got)

	stranger := domain.Actor{Identity: &domain.Identity{Email: "sita@example.com", Role: domain.RoleUser}}
	_, err = svc.Get(context.Background(), b.ID, stranger)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Get(context.Background(), 404, domain.Actor{Token: b.CancelToken})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingService_Get_AnonymousCannotTellExistingFromMissing(t *testing.T) {
	b := storedBooking(domain.StatusPending)
	svc := newBookingService(statefulRepo(b))
	ctx := context.Background()

	for _, actor := range []domain.Actor{{}, {Token: uuid.New()}} {
		_, existing := svc.Get(ctx, b.ID, actor)
		_, missing := svc.Get(ctx, 404, actor)

		assert.ErrorIs(t, existing, domain.ErrNotFound)
		assert.ErrorIs(t, missing, domain.ErrNotFound)
		assert.NotErrorIs(t, existing, domain.ErrForbidden)
	}
}

func TestBookingService_Get_CancelledIsNotFound(t *testing.T) {
	b := storedBooking(domain.StatusCancelled)
	svc := newBookingService(statefulRepo(b))

	admin := domain.Actor{Identity: &domain.Identity{Role: domain.RoleAdmin}}
	_, err := svc.Get(context.Background(), b.ID, admin)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Transitions -----------------------------------------------------------

func TestBookingService_ApproveThenReject(t *testing.T) {
	b := storedBooking(domain.StatusPending)
	svc := newBookingService(statefulRepo(b))
	ctx := context.Background()

	got, err := svc.Approve(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)

	_, err = svc.Reject(ctx, b.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	var te *domain.TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, domain.StatusConfirmed, te.Current)
}

func TestBookingService_ApproveTwiceIsIdempotent(t *testing.T) {
	b := storedBooking(domain.StatusPending)
	svc := newBookingService(statefulRepo(b))
	ctx := context.Background()

	first, err := svc.Approve(ctx, b.ID)
	require.NoError(t, err)
	second, err := svc.Approve(ctx, b.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, first.Status)
	assert.Equal(t, domain.StatusConfirmed, second.Status)
}

func TestBookingService_RejectTwiceIsIdempotent(t *testing.T) {
	b := storedBooking(domain.StatusPending)
	svc := newBookingService(statefulRepo(b))

	_, err := svc.Reject(context.Background(), b.ID)
	require.NoError(t, err)
	got, err := svc.Reject(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
}

func TestBookingService_TransitionUnknownID(t *testing.T) {
	svc := newBookingService(statefulRepo(storedBooking(domain.StatusPending)))

	_, err := svc.Approve(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.Reject(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingService_TransitionCancelledIsNotFound(t *testing.T) {
	b := storedBooking(domain.StatusCancelled)
	svc := newBookingService(statefulRepo(b))

	_, err := svc.Approve(context.Background(), b.ID)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBookingService_TransitionPropagatesTimeout(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{
		updateStatus: func(context.Context, int64, domain.Status, domain.Status) (domain.Booking, error) {
			return domain.Booking{}, fmt.Errorf("repo: %w: %w", domain.ErrTimeout, context.DeadlineExceeded)
		},
	})

	_, err := svc.Approve(context.Background(), 1)

	assert.ErrorIs(t, err, domain.ErrTimeout)
}

// ---- Cancel ----------------------------------------------------------------

func TestBookingService_CancelThenGetIsNotFound(t *testing.T) {
	b := storedBooking(domain.StatusPending)
	svc := newBookingService(statefulRepo(b))
	owner := domain.Actor{Identity: &domain.Identity{Email: "ram@example.com", Role: domain.RoleUser}}
	ctx := context.Background()

	id, err := svc.Cancel(ctx, b.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, b.ID, id)

	_, err = svc.Get(ctx, b.ID, owner)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Cancelling again is a no-op success.
	id, err = svc.Cancel(ctx, b.ID, owner)
	require.NoError(t, err)
	assert.Equal(t, b.ID, id)
}

func TestBookingService_CancelUnknownSucceeds(t *testing.T) {
	svc := newBookingService(statefulRepo(storedBooking(domain.StatusPending)))

	id, err := svc.Cancel(context.Background(), 12345, domain.Actor{})

	require.NoError(t, err)
	assert.Equal(t, int64(12345), id)
}

func TestBookingService_CancelRequiresOwnership(t *testing.T) {
	b := storedBooking(domain.StatusPending)
	repo := statefulRepo(b)
	repo.cancel = func(context.Context, int64) (int64, error) {
		t.Fatal("cancel must not reach the repo")
		return 0, nil
	}
	svc := newBookingService(repo)

	stranger := domain.Actor{Identity: &domain.Identity{Email: "sita@example.com", Role: domain.RoleUser}}
	_, err := svc.Cancel(context.Background(), b.ID, stranger)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestBookingService_CancelWithToken(t *testing.T) {
	b := storedBooking(domain.StatusConfirmed)
	svc := newBookingService(statefulRepo(b))

	id, err := svc.Cancel(context.Background(), b.ID, domain.Actor{Token: b.CancelToken})

	require.NoError(t, err)
	assert.Equal(t, b.ID, id)
}

// ---- Listing ---------------------------------------------------------------

func TestBookingService_ListAll(t *testing.T) {
	var gotPage domain.PaginationParams
	svc := newBookingService(&mockBookingRepo{
		listAll: func(_ context.Context, p domain.PaginationParams) ([]domain.Booking, error) {
			gotPage = p
			return []domain.Booking{storedBooking(domain.StatusPending)}, nil
		},
		countAll: func(context.Context) (int64, error) { return 31, nil },
	})
	page := domain.PaginationParams{Page: 2, Limit: 10}

	bookings, total, err := svc.ListAll(context.Background(), page)

	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, int64(31), total)
	assert.Equal(t, page, gotPage)
}

func TestBookingService_ListByEmail(t *testing.T) {
	var gotEmail string
	svc := newBookingService(&mockBookingRepo{
		listByEmail: func(_ context.Context, email string) ([]domain.Booking, error) {
			gotEmail = email
			return []domain.Booking{}, nil
		},
	})
	ctx := context.Background()
	user := domain.Identity{Email: "ram@example.com", Role: domain.RoleUser}

	_, err := svc.ListByEmail(ctx, " RAM@example.com ", user)
	require.NoError(t, err)
	assert.Equal(t, "ram@example.com", gotEmail)

	_, err = svc.ListByEmail(ctx, "sita@example.com", user)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.ListByEmail(ctx, "sita@example.com", domain.Identity{Role: domain.RoleAdmin})
	assert.NoError(t, err)

	_, err = svc.ListByEmail(ctx, "  ", user)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestBookingService_Export(t *testing.T) {
	svc := newBookingService(&mockBookingRepo{
		exportRows: func(context.Context) ([]domain.BookingExportRow, error) {
			return []domain.BookingExportRow{{BookingID: 1, Status: domain.StatusPending}}, nil
		},
	})

	rows, err := svc.Export(context.Background())

	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
