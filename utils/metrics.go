package utils

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingTransitions counts booking status changes by origin and target status.
	BookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "servicehub",
		Name:      "booking_transitions_total",
		Help:      "Booking status transitions applied.",
	}, []string{"from", "to"})

	// BookingsCreated counts bookings entering the Pending state.
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "servicehub",
		Name:      "bookings_created_total",
		Help:      "Bookings created.",
	})

	// ReviewsSubmitted counts accepted reviews.
	ReviewsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "servicehub",
		Name:      "reviews_submitted_total",
		Help:      "Reviews accepted by the ledger.",
	})

	// NearbySearchResults observes how many providers a proximity search returned.
	NearbySearchResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "servicehub",
		Name:      "nearby_search_results",
		Help:      "Number of providers returned by proximity searches.",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	})
)
