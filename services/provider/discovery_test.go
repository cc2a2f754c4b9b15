package provider

import (
	"context"
	"math"
	"testing"
	"time"

	memoryRepo "servicehub/database/repository/memory"
	"servicehub/models"
	"servicehub/services/geo"
	"servicehub/services/stats"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var center = models.NewGeoPoint(77.5946, 12.9716)

// north returns a point km kilometres due north of center.
func north(km float64) *models.GeoPoint {
	return models.NewGeoPoint(center.Lon(), center.Lat()+km/(geo.EarthRadiusKm*math.Pi/180))
}

type fakeGeocoder struct {
	point *models.GeoPoint
	calls []string
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (*models.GeoPoint, bool) {
	f.calls = append(f.calls, address)
	return f.point, f.point != nil
}

func newService(t *testing.T) (*DefaultProviderService, *memoryRepo.Repositories) {
	t.Helper()
	repos := memoryRepo.NewRepositories()
	return &DefaultProviderService{
		Repo:     repos.Providers,
		Services: repos.Services,
		Stats:    &stats.DefaultStatsService{Providers: repos.Providers, Reviews: repos.Reviews, Tx: repos.Store},
		Geocoder: &fakeGeocoder{},
		Logger:   zap.NewNop(),
	}, repos
}

var seq time.Time = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func addProvider(t *testing.T, repos *memoryRepo.Repositories, id string, loc *models.GeoPoint, category models.ProviderCategory, verified bool) {
	t.Helper()
	seq = seq.Add(time.Minute)
	require.NoError(t, repos.Providers.Create(context.Background(), &models.Provider{
		ID:        id,
		UserID:    "owner-" + id,
		Category:  category,
		Location:  loc,
		Verified:  verified,
		CreatedAt: seq,
	}))
}

func ids(results []models.NearbyProvider) []string {
	out := []string{}
	for _, r := range results {
		out = append(out, r.Provider.ID)
	}
	return out
}

func TestFindNearbyRadius(t *testing.T) {
	svc, repos := newService(t)
	addProvider(t, repos, "three", north(3), models.CategoryPlumber, true)
	addProvider(t, repos, "seven", north(7), models.CategoryPlumber, true)

	results, err := svc.FindNearby(context.Background(), center, 5, "")
	require.NoError(t, err)
	require.Equal(t, []string{"three"}, ids(results))
	assert.Equal(t, 3.0, results[0].DistanceKm)

	results, err = svc.FindNearby(context.Background(), center, 10, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "seven"}, ids(results))
	assert.Equal(t, 7.0, results[1].DistanceKm)
}

func TestFindNearbySkipsUnverifiedAndUnlocated(t *testing.T) {
	svc, repos := newService(t)
	addProvider(t, repos, "unverified", north(1), models.CategoryPainter, false)
	addProvider(t, repos, "nowhere", nil, models.CategoryPainter, true)
	addProvider(t, repos, "broken", &models.GeoPoint{Type: "Point", Coordinates: []float64{1}}, models.CategoryPainter, true)
	addProvider(t, repos, "ok", north(2), models.CategoryPainter, true)

	results, err := svc.FindNearby(context.Background(), center, 50, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, ids(results))
}

func TestFindNearbyOrdersByDistanceStably(t *testing.T) {
	svc, repos := newService(t)
	addProvider(t, repos, "far", north(4), models.CategoryCleaner, true)
	addProvider(t, repos, "tie-a", north(2), models.CategoryCleaner, true)
	addProvider(t, repos, "near", north(0.5), models.CategoryCleaner, true)
	addProvider(t, repos, "tie-b", north(2), models.CategoryCleaner, true)

	results, err := svc.FindNearby(context.Background(), center, 10, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"near", "tie-a", "tie-b", "far"}, ids(results))
	for i := 1; i < len(results); i++ {
		assert.LessOrEqual(t, results[i-1].DistanceKm, results[i].DistanceKm)
	}
}

func TestFindNearbyCategoryAfterDistance(t *testing.T) {
	svc, repos := newService(t)
	addProvider(t, repos, "plumber-near", north(1), models.CategoryPlumber, true)
	addProvider(t, repos, "salon-near", north(1.5), models.CategorySalon, true)
	addProvider(t, repos, "plumber-far", north(30), models.CategoryPlumber, true)

	results, err := svc.FindNearby(context.Background(), center, 10, models.CategoryPlumber)
	require.NoError(t, err)
	assert.Equal(t, []string{"plumber-near"}, ids(results))
}

func TestFindNearbyBoundaryAndZeroRadius(t *testing.T) {
	svc, repos := newService(t)
	edge := north(5)
	addProvider(t, repos, "here", models.NewGeoPoint(center.Lon(), center.Lat()), models.CategoryMoving, true)
	addProvider(t, repos, "edge", edge, models.CategoryMoving, true)

	results, err := svc.FindNearby(context.Background(), center, 0, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"here"}, ids(results))
	assert.Equal(t, 0.0, results[0].DistanceKm)

	exact := geo.DistanceKm(*center, *edge)
	results, err = svc.FindNearby(context.Background(), center, exact, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"here", "edge"}, ids(results))
}

func TestFindNearbyRejectsBadInput(t *testing.T) {
	svc, repos := newService(t)
	addProvider(t, repos, "p", north(1), models.CategoryPlumber, true)
	ctx := context.Background()

	tests := []struct {
		name     string
		point    *models.GeoPoint
		radius   float64
		category models.ProviderCategory
	}{
		{"nil point", nil, 5, ""},
		{"latitude out of range", models.NewGeoPoint(0, 91), 5, ""},
		{"nan coordinate", models.NewGeoPoint(math.NaN(), 0), 5, ""},
		{"negative radius", center, -1, ""},
		{"nan radius", center, math.NaN(), ""},
		{"infinite radius", center, math.Inf(1), ""},
		{"unknown category", center, 5, "Astrologer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := svc.FindNearby(ctx, tt.point, tt.radius, tt.category)
			assert.True(t, errors.Is(err, errors.NotValid))
			assert.Nil(t, results)
		})
	}
}

func TestFindNearbyEmpty(t *testing.T) {
	svc, _ := newService(t)
	results, err := svc.FindNearby(context.Background(), center, 10, "")
	require.NoError(t, err)
	assert.Empty(t, results)
}
