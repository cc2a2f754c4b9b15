package booking

import (
	"context"
	"time"

	"servicehub/database"
	"servicehub/database/repository"
	"servicehub/models"
	"servicehub/services/events"
	"servicehub/services/stats"
	"servicehub/services/tasks"

	"go.uber.org/zap"
)

// DefaultCancellationReason is stored when a cancel request carries no reason.
const DefaultCancellationReason = "Cancelled by user"

// BookingService drives the booking lifecycle and keeps provider stats in
// step with it.
type BookingService interface {
	CreateBooking(ctx context.Context, customerID, providerID, serviceID string, details models.BookingDetails) (*models.Booking, error)
	TransitionBooking(ctx context.Context, bookingID, actorID string, next models.BookingStatus, reason string) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error)
	UpdateBookingDetails(ctx context.Context, bookingID, actorID string, patch models.BookingPatch) (*models.Booking, error)
	AnnotateCancellation(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error)
	ListCustomerBookings(ctx context.Context, customerID string, status models.BookingStatus) ([]models.Booking, error)
	ListProviderBookings(ctx context.Context, accountID string, status models.BookingStatus) ([]models.Booking, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Bookings  repository.BookingRepository
	Providers repository.ProviderRepository
	Services  repository.ServiceRepository
	Users     repository.UserRepository
	Stats     stats.StatsService
	Tx        database.Transactor
	Events    events.Publisher
	Reminders tasks.Scheduler
	Logger    *zap.Logger
	TimeNowFn func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.TimeNowFn != nil {
		return s.TimeNowFn().UTC()
	}
	return time.Now().UTC()
}
