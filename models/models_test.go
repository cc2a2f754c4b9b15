package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGeoPointValid(t *testing.T) {
	tests := []struct {
		name string
		p    *GeoPoint
		want bool
	}{
		{"nil", nil, false},
		{"ok", NewGeoPoint(77.59, 12.97), true},
		{"corners", NewGeoPoint(-180, 90), true},
		{"lon out of range", NewGeoPoint(180.5, 0), false},
		{"lat out of range", NewGeoPoint(0, -90.1), false},
		{"nan", NewGeoPoint(math.NaN(), 0), false},
		{"inf", NewGeoPoint(0, math.Inf(1)), false},
		{"one coordinate", &GeoPoint{Type: "Point", Coordinates: []float64{1}}, false},
		{"three coordinates", &GeoPoint{Type: "Point", Coordinates: []float64{1, 2, 3}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Valid())
		})
	}
}

func TestCompletionRate(t *testing.T) {
	assert.Equal(t, 0, CompletionRate(0, 0))
	assert.Equal(t, 100, CompletionRate(1, 1))
	assert.Equal(t, 67, CompletionRate(2, 3))
	assert.Equal(t, 33, CompletionRate(1, 3))
	// Halves round up.
	assert.Equal(t, 13, CompletionRate(1, 8))
	assert.Equal(t, 3, CompletionRate(1, 40))
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 4.0, RoundRating(4.0))
	assert.Equal(t, 4.5, RoundRating(4.45))
	assert.Equal(t, 4.7, RoundRating(14.0/3))
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.False(t, BookingPending.Terminal())
	assert.False(t, BookingConfirmed.Terminal())
	assert.True(t, BookingCompleted.Terminal())
	assert.True(t, BookingCancelled.Terminal())
	assert.True(t, BookingDeclined.Terminal())
	assert.False(t, BookingStatus("Archived").Valid())
}

func TestBookingPatchApply(t *testing.T) {
	b := Booking{BookingTime: "10:00", ContactPhone: "111"}
	assert.True(t, BookingPatch{}.Empty())

	when := time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC)
	phone := "222"
	patch := BookingPatch{BookingDate: &when, ContactPhone: &phone}
	assert.False(t, patch.Empty())
	patch.Apply(&b)

	assert.Equal(t, when, b.BookingDate)
	assert.Equal(t, "222", b.ContactPhone)
	assert.Equal(t, "10:00", b.BookingTime)
}

func TestProviderCategoryValid(t *testing.T) {
	assert.True(t, CategoryACRepair.Valid())
	assert.False(t, ProviderCategory("Astrologer").Valid())
	assert.False(t, ProviderCategory("").Valid())
}
