package geo

import (
	"testing"

	"servicehub/models"

	"github.com/stretchr/testify/assert"
)

func point(lon, lat float64) models.GeoPoint {
	return *models.NewGeoPoint(lon, lat)
}

func TestDistanceKmZeroForSamePoint(t *testing.T) {
	for _, p := range []models.GeoPoint{point(0, 0), point(77.5946, 12.9716), point(-180, -90), point(180, 90)} {
		assert.Equal(t, 0.0, DistanceKm(p, p))
	}
}

func TestDistanceKmSymmetric(t *testing.T) {
	pairs := [][2]models.GeoPoint{
		{point(72.8777, 19.0760), point(77.2090, 28.6139)},
		{point(-0.1278, 51.5074), point(2.3522, 48.8566)},
		{point(0, 0), point(179.9, 0.1)},
	}
	for _, pair := range pairs {
		d1 := DistanceKm(pair[0], pair[1])
		d2 := DistanceKm(pair[1], pair[0])
		assert.Equal(t, d1, d2)
		assert.GreaterOrEqual(t, d1, 0.0)
	}
}

func TestDistanceKmKnownValues(t *testing.T) {
	// One degree of latitude along a meridian.
	assert.InDelta(t, 111.19, DistanceKm(point(0, 0), point(0, 1)), 0.01)
	// London to Paris.
	assert.InDelta(t, 343.5, DistanceKm(point(-0.1278, 51.5074), point(2.3522, 48.8566)), 0.5)
	// Antipodes.
	assert.InDelta(t, 20015.1, DistanceKm(point(0, 0), point(180, 0)), 0.1)
}

func TestRoundKm(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{2.9979, 3.0},
		{7.04, 7.0},
		{0.05, 0.1},
		{12.34, 12.3},
		{0, 0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, RoundKm(tt.in), 1e-9)
	}
}
