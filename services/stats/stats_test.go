package stats

import (
	"context"
	"sync"
	"testing"
	"time"

	memoryRepo "servicehub/database/repository/memory"
	"servicehub/models"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*DefaultStatsService, *memoryRepo.Repositories, string) {
	t.Helper()
	repos := memoryRepo.NewRepositories()
	p := &models.Provider{
		ID:        uuid.NewString(),
		UserID:    uuid.NewString(),
		Category:  models.CategoryPlumber,
		Verified:  true,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repos.Providers.Create(context.Background(), p))
	svc := &DefaultStatsService{Providers: repos.Providers, Reviews: repos.Reviews, Tx: repos.Store}
	return svc, repos, p.ID
}

func addReview(t *testing.T, repos *memoryRepo.Repositories, providerID string, rating int) {
	t.Helper()
	require.NoError(t, repos.Reviews.Create(context.Background(), &models.Review{
		ID:         uuid.NewString(),
		BookingID:  uuid.NewString(),
		ProviderID: providerID,
		Rating:     rating,
		CreatedAt:  time.Now(),
	}))
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		ratings []int
		want    models.Rating
	}{
		{nil, models.Rating{}},
		{[]int{5, 4, 3}, models.Rating{Average: 4.0, Count: 3}},
		{[]int{5, 4}, models.Rating{Average: 4.5, Count: 2}},
		{[]int{5, 5, 4}, models.Rating{Average: 4.7, Count: 3}},
		{[]int{1, 2, 2}, models.Rating{Average: 1.7, Count: 3}},
		{[]int{3}, models.Rating{Average: 3.0, Count: 1}},
	}
	for _, tt := range tests {
		got := AverageRating(tt.ratings)
		assert.Equal(t, tt.want.Count, got.Count)
		assert.InDelta(t, tt.want.Average, got.Average, 1e-9, "ratings %v", tt.ratings)
	}
}

func TestRecomputeRatingIsIdempotent(t *testing.T) {
	svc, repos, providerID := newService(t)
	ctx := context.Background()
	for _, r := range []int{5, 4, 3} {
		addReview(t, repos, providerID, r)
	}

	first, err := svc.RecomputeRating(ctx, providerID)
	require.NoError(t, err)
	second, err := svc.RecomputeRating(ctx, providerID)
	require.NoError(t, err)

	assert.Equal(t, models.Rating{Average: 4.0, Count: 3}, first)
	assert.Equal(t, first, second)

	view, err := svc.GetProviderStats(ctx, providerID)
	require.NoError(t, err)
	assert.Equal(t, first, view.Rating)
}

func TestRecomputeRatingWithoutReviews(t *testing.T) {
	svc, _, providerID := newService(t)
	rating, err := svc.RecomputeRating(context.Background(), providerID)
	require.NoError(t, err)
	assert.Equal(t, models.Rating{}, rating)
}

func TestCompletionRateTracksCounters(t *testing.T) {
	svc, _, providerID := newService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.RecordBookingCreated(ctx, providerID))
	}
	view, err := svc.GetProviderStats(ctx, providerID)
	require.NoError(t, err)
	assert.Equal(t, 3, view.TotalBookings)
	assert.Equal(t, 0, view.CompletionRate)

	require.NoError(t, svc.RecordCompletion(ctx, providerID, 500))
	require.NoError(t, svc.RecordCompletion(ctx, providerID, 250.5))

	view, err = svc.GetProviderStats(ctx, providerID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.CompletedBookings)
	assert.Equal(t, 67, view.CompletionRate)
	assert.InDelta(t, 750.5, view.TotalEarnings, 1e-9)
}

func TestConcurrentCompletionsAreNotLost(t *testing.T) {
	svc, _, providerID := newService(t)
	ctx := context.Background()
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.RecordBookingCreated(ctx, providerID))
			assert.NoError(t, svc.RecordCompletion(ctx, providerID, 10))
		}()
	}
	wg.Wait()

	view, err := svc.GetProviderStats(ctx, providerID)
	require.NoError(t, err)
	assert.Equal(t, n, view.TotalBookings)
	assert.Equal(t, n, view.CompletedBookings)
	assert.Equal(t, 100, view.CompletionRate)
	assert.InDelta(t, float64(n*10), view.TotalEarnings, 1e-9)
}

func TestStatsForUnknownProvider(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.GetProviderStats(ctx, "missing")
	assert.True(t, errors.Is(err, errors.NotFound))

	err = svc.RecordCompletion(ctx, "missing", 1)
	assert.True(t, errors.Is(err, errors.NotFound))
}
