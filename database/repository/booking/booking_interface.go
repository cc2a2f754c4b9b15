package bookingRepo

import (
	"context"

	"servicehub/models"
)

// BookingRepository defines methods for booking data access. Every mutating
// call is conditional on the status the caller observed, so concurrent
// writers cannot both win.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// UpdateStatus moves the booking from -> to. A non-empty reason is stored
	// as the cancellation reason. Returns InvalidState when the stored status
	// is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, reason string) (*models.Booking, error)
	// UpdateDetails applies patch while the booking is still Pending.
	UpdateDetails(ctx context.Context, id string, patch models.BookingPatch) (*models.Booking, error)
	// SetCancellationReason annotates a Cancelled or Declined booking.
	SetCancellationReason(ctx context.Context, id, reason string) (*models.Booking, error)
	// ListByCustomer returns the customer's bookings, latest booking date first. An empty
	// status matches all.
	ListByCustomer(ctx context.Context, customerID string, status models.BookingStatus) ([]models.Booking, error)
	// ListByProvider returns the provider's bookings, latest booking date first.
	ListByProvider(ctx context.Context, providerID string, status models.BookingStatus) ([]models.Booking, error)
}
