package review

import (
	"context"
	"sync"
	"testing"
	"time"

	memoryRepo "servicehub/database/repository/memory"
	"servicehub/models"
	"servicehub/services/events"
	"servicehub/services/stats"
	"servicehub/utils"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	providerID = "provider-1"
	ownerID    = "user-owner"
	customerID = "user-customer"
)

type fixture struct {
	svc   *DefaultReviewService
	repos *memoryRepo.Repositories
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	repos := memoryRepo.NewRepositories()
	require.NoError(t, repos.Providers.Create(ctx, &models.Provider{ID: providerID, UserID: ownerID, Verified: true}))
	require.NoError(t, repos.Services.Create(ctx, &models.Service{ID: "service-1", ProviderID: providerID, Name: "Deep clean", IsActive: true}))

	statsSvc := &stats.DefaultStatsService{Providers: repos.Providers, Reviews: repos.Reviews, Tx: repos.Store}
	return &fixture{
		repos: repos,
		svc: &DefaultReviewService{
			Reviews:   repos.Reviews,
			Bookings:  repos.Bookings,
			Providers: repos.Providers,
			Services:  repos.Services,
			Stats:     statsSvc,
			Tx:        repos.Store,
			Events:    events.NopPublisher{},
			Logger:    zap.NewNop(),
		},
	}
}

func (f *fixture) booking(t *testing.T, status models.BookingStatus) string {
	t.Helper()
	id := uuid.NewString()
	require.NoError(t, f.repos.Bookings.Create(context.Background(), &models.Booking{
		ID:         id,
		CustomerID: customerID,
		ProviderID: providerID,
		ServiceID:  "service-1",
		Status:     status,
		CreatedAt:  time.Now(),
	}))
	return id
}

func (f *fixture) rating(t *testing.T) models.Rating {
	t.Helper()
	p, err := f.repos.Providers.GetByID(context.Background(), providerID)
	require.NoError(t, err)
	return p.Rating
}

func TestSubmitReviewsAveragesRatings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, r := range []int{5, 4, 3} {
		review, err := f.svc.SubmitReview(ctx, f.booking(t, models.BookingCompleted), customerID, r, "ok")
		require.NoError(t, err)
		assert.True(t, review.VerifiedPurchase)
		assert.Equal(t, "Deep clean", review.ServiceName)
	}
	assert.Equal(t, models.Rating{Average: 4.0, Count: 3}, f.rating(t))
}

func TestSubmitReviewRejectsOutOfRangeRatingBeforeLookup(t *testing.T) {
	f := newFixture(t)
	for _, r := range []int{0, 6, -1} {
		_, err := f.svc.SubmitReview(context.Background(), "does-not-exist", customerID, r, "")
		assert.True(t, errors.Is(err, errors.NotValid), "rating %d", r)
	}
}

func TestSubmitReviewErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.SubmitReview(ctx, "missing", customerID, 5, "")
	assert.True(t, errors.Is(err, errors.NotFound))

	completed := f.booking(t, models.BookingCompleted)
	_, err = f.svc.SubmitReview(ctx, completed, "someone-else", 5, "")
	assert.True(t, errors.Is(err, errors.Unauthorized))

	for _, status := range []models.BookingStatus{models.BookingPending, models.BookingConfirmed, models.BookingCancelled, models.BookingDeclined} {
		_, err = f.svc.SubmitReview(ctx, f.booking(t, status), customerID, 5, "")
		assert.True(t, errors.Is(err, utils.InvalidState), "status %s", status)
	}

	_, err = f.svc.SubmitReview(ctx, completed, customerID, 5, "")
	require.NoError(t, err)
	_, err = f.svc.SubmitReview(ctx, completed, customerID, 1, "changed my mind")
	assert.True(t, errors.Is(err, errors.AlreadyExists))

	assert.Equal(t, models.Rating{Average: 5, Count: 1}, f.rating(t))
}

func TestConcurrentReviewsForOneBooking(t *testing.T) {
	f := newFixture(t)
	id := f.booking(t, models.BookingCompleted)

	const n = 10
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			_, err := f.svc.SubmitReview(context.Background(), id, customerID, r, "")
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
				return
			}
			assert.True(t, errors.Is(err, errors.AlreadyExists))
		}(i%5 + 1)
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, f.rating(t).Count)
}

func TestConcurrentReviewsAcrossBookings(t *testing.T) {
	f := newFixture(t)
	const n = 30
	ids := make([]string, n)
	for i := range ids {
		ids[i] = f.booking(t, models.BookingCompleted)
	}

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(id string, r int) {
			defer wg.Done()
			_, err := f.svc.SubmitReview(context.Background(), id, customerID, r, "")
			assert.NoError(t, err)
		}(id, i%5+1)
	}
	wg.Wait()

	// Ratings cycle 1..5 six times, so the mean is exactly 3.
	assert.Equal(t, models.Rating{Average: 3, Count: n}, f.rating(t))
}

func TestListAndRespond(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.SubmitReview(ctx, f.booking(t, models.BookingCompleted), customerID, 4, "good")
	require.NoError(t, err)

	reviews, err := f.svc.ListProviderReviews(ctx, providerID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, first.ID, reviews[0].ID)

	_, err = f.svc.ListProviderReviews(ctx, "missing")
	assert.True(t, errors.Is(err, errors.NotFound))

	_, err = f.svc.RespondToReview(ctx, first.ID, customerID, "thanks")
	assert.True(t, errors.Is(err, errors.Unauthorized))

	got, err := f.svc.RespondToReview(ctx, first.ID, ownerID, "Thanks!")
	require.NoError(t, err)
	require.NotNil(t, got.ProviderResponse)
	assert.Equal(t, "Thanks!", got.ProviderResponse.Comment)

	_, err = f.svc.RespondToReview(ctx, first.ID, ownerID, "again")
	assert.True(t, errors.Is(err, errors.AlreadyExists))
}
