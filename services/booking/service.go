package booking

import (
	"context"
	"math"
	"strings"

	"servicehub/models"
	"servicehub/services/events"
	"servicehub/utils"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func validateDetails(d models.BookingDetails) error {
	switch {
	case d.BookingDate.IsZero():
		return errors.NotValidf("missing booking date")
	case strings.TrimSpace(d.BookingTime) == "":
		return errors.NotValidf("missing booking time")
	case strings.TrimSpace(d.ServiceAddress.Street) == "":
		return errors.NotValidf("missing service address")
	case strings.TrimSpace(d.ContactPhone) == "":
		return errors.NotValidf("missing contact phone")
	case !validAmount(d.TotalAmount):
		return errors.NotValidf("total amount %v", d.TotalAmount)
	case !validAmount(d.ServiceFee):
		return errors.NotValidf("service fee %v", d.ServiceFee)
	}
	switch d.PaymentMethod {
	case "", models.PaymentCash, models.PaymentCard, models.PaymentOnline:
	default:
		return errors.NotValidf("payment method %q", d.PaymentMethod)
	}
	return nil
}

// CreateBooking stores a Pending booking and counts it against the provider
// in one transaction.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, customerID, providerID, serviceID string, details models.BookingDetails) (*models.Booking, error) {
	if customerID == "" || providerID == "" || serviceID == "" {
		return nil, errors.NotValidf("empty customer, provider or service id")
	}
	if err := validateDetails(details); err != nil {
		return nil, err
	}

	provider, err := s.Providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	service, err := s.Services.GetByID(ctx, serviceID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if service.ProviderID != provider.ID {
		return nil, errors.NotValidf("service %s for provider %s", serviceID, providerID)
	}

	now := s.now()
	booking := &models.Booking{
		ID:              uuid.New().String(),
		CustomerID:      customerID,
		ProviderID:      provider.ID,
		ServiceID:       service.ID,
		BookingDate:     details.BookingDate,
		BookingTime:     details.BookingTime,
		ServiceAddress:  details.ServiceAddress,
		ContactPhone:    details.ContactPhone,
		AdditionalNotes: details.AdditionalNotes,
		TotalAmount:     details.TotalAmount,
		ServiceFee:      details.ServiceFee,
		Status:          models.BookingPending,
		PaymentStatus:   models.PaymentPending,
		PaymentMethod:   details.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if booking.PaymentMethod == "" {
		booking.PaymentMethod = models.PaymentCash
	}

	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.Bookings.Create(ctx, booking); err != nil {
			return errors.Trace(err)
		}
		return s.Stats.RecordBookingCreated(ctx, booking.ProviderID)
	})
	if err != nil {
		return nil, err
	}

	utils.BookingsCreated.Inc()
	s.Logger.Info("Booking created",
		zap.String("bookingId", booking.ID),
		zap.String("providerId", booking.ProviderID),
		zap.String("customerId", booking.CustomerID))
	events.Emit(ctx, s.Events, s.Logger, models.EventBookingCreated, models.BookingEvent{
		BookingID:  booking.ID,
		ProviderID: booking.ProviderID,
		CustomerID: booking.CustomerID,
		To:         booking.Status,
		ActorID:    customerID,
		OccurredAt: now,
	})
	return booking, nil
}

// TransitionBooking moves a booking along the state machine on behalf of its
// customer, the provider's account or an admin.
func (s *DefaultBookingService) TransitionBooking(ctx context.Context, bookingID, actorID string, next models.BookingStatus, reason string) (*models.Booking, error) {
	if !next.Valid() {
		return nil, errors.NotValidf("booking status %q", next)
	}
	booking, access, err := s.loadForActor(ctx, bookingID, actorID)
	if err != nil {
		return nil, err
	}
	if !access.any() {
		return nil, errors.Unauthorizedf("account %s may not change booking %s", actorID, bookingID)
	}
	if next == models.BookingCancelled && access.customer && strings.TrimSpace(reason) == "" {
		reason = DefaultCancellationReason
	}
	return s.transition(ctx, booking, actorID, next, reason)
}

// CancelBooking cancels on behalf of the customer or an admin.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error) {
	booking, access, err := s.loadForActor(ctx, bookingID, actorID)
	if err != nil {
		return nil, err
	}
	if !access.customer && !access.admin {
		return nil, errors.Unauthorizedf("account %s may not cancel booking %s", actorID, bookingID)
	}
	if strings.TrimSpace(reason) == "" {
		reason = DefaultCancellationReason
	}
	return s.transition(ctx, booking, actorID, models.BookingCancelled, reason)
}

func (s *DefaultBookingService) transition(ctx context.Context, booking *models.Booking, actorID string, next models.BookingStatus, reason string) (*models.Booking, error) {
	from := booking.Status
	if from.Terminal() {
		return nil, utils.InvalidStatef("booking %s is already %s", booking.ID, from)
	}
	if !CanTransition(from, next) {
		return nil, utils.InvalidStatef("booking %s cannot move from %s to %s", booking.ID, from, next)
	}
	if next != models.BookingCancelled && next != models.BookingDeclined {
		reason = ""
	}

	var updated *models.Booking
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.Bookings.UpdateStatus(ctx, booking.ID, from, next, strings.TrimSpace(reason))
		if err != nil {
			return err
		}
		if next == models.BookingCompleted {
			return s.Stats.RecordCompletion(ctx, updated.ProviderID, updated.TotalAmount)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.BookingTransitions.WithLabelValues(string(from), string(next)).Inc()
	s.Logger.Info("Booking status changed",
		zap.String("bookingId", updated.ID),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
		zap.String("actorId", actorID))
	events.Emit(ctx, s.Events, s.Logger, models.EventBookingStatusChanged, models.BookingEvent{
		BookingID:  updated.ID,
		ProviderID: updated.ProviderID,
		CustomerID: updated.CustomerID,
		From:       from,
		To:         next,
		ActorID:    actorID,
		OccurredAt: s.now(),
	})
	if next == models.BookingConfirmed && s.Reminders != nil {
		if err := s.Reminders.ScheduleReminder(ctx, updated); err != nil {
			s.Logger.Warn("Failed to schedule booking reminder", zap.String("bookingId", updated.ID), zap.Error(err))
		}
	}
	return updated, nil
}

// UpdateBookingDetails edits scheduling and contact fields. Only the
// customer may do this, and only while the booking is Pending.
func (s *DefaultBookingService) UpdateBookingDetails(ctx context.Context, bookingID, actorID string, patch models.BookingPatch) (*models.Booking, error) {
	if patch.Empty() {
		return nil, errors.NotValidf("empty booking update")
	}
	switch {
	case patch.BookingDate != nil && patch.BookingDate.IsZero():
		return nil, errors.NotValidf("booking date")
	case patch.BookingTime != nil && strings.TrimSpace(*patch.BookingTime) == "":
		return nil, errors.NotValidf("booking time")
	case patch.ContactPhone != nil && strings.TrimSpace(*patch.ContactPhone) == "":
		return nil, errors.NotValidf("contact phone")
	case patch.ServiceAddress != nil && strings.TrimSpace(patch.ServiceAddress.Street) == "":
		return nil, errors.NotValidf("service address")
	}

	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if booking.CustomerID != actorID {
		return nil, errors.Unauthorizedf("account %s may not edit booking %s", actorID, bookingID)
	}
	if booking.Status != models.BookingPending {
		return nil, utils.InvalidStatef("booking %s is %s and can no longer be edited", bookingID, booking.Status)
	}
	return s.Bookings.UpdateDetails(ctx, bookingID, patch)
}

// AnnotateCancellation replaces the reason on a Cancelled or Declined
// booking. It is the only write allowed once a booking is terminal.
func (s *DefaultBookingService) AnnotateCancellation(ctx context.Context, bookingID, actorID, reason string) (*models.Booking, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errors.NotValidf("empty cancellation reason")
	}
	booking, access, err := s.loadForActor(ctx, bookingID, actorID)
	if err != nil {
		return nil, err
	}
	if !access.any() {
		return nil, errors.Unauthorizedf("account %s may not annotate booking %s", actorID, bookingID)
	}
	if booking.Status != models.BookingCancelled && booking.Status != models.BookingDeclined {
		return nil, utils.InvalidStatef("booking %s is %s, not cancelled or declined", bookingID, booking.Status)
	}
	return s.Bookings.SetCancellationReason(ctx, bookingID, reason)
}

// GetBooking returns a booking visible to the actor.
func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID, actorID string) (*models.Booking, error) {
	booking, access, err := s.loadForActor(ctx, bookingID, actorID)
	if err != nil {
		return nil, err
	}
	if !access.any() {
		return nil, errors.Unauthorizedf("account %s may not view booking %s", actorID, bookingID)
	}
	return booking, nil
}

func (s *DefaultBookingService) ListCustomerBookings(ctx context.Context, customerID string, status models.BookingStatus) ([]models.Booking, error) {
	if status != "" && !status.Valid() {
		return nil, errors.NotValidf("booking status %q", status)
	}
	return s.Bookings.ListByCustomer(ctx, customerID, status)
}

// ListProviderBookings lists bookings of the provider profile owned by accountID.
func (s *DefaultBookingService) ListProviderBookings(ctx context.Context, accountID string, status models.BookingStatus) ([]models.Booking, error) {
	if status != "" && !status.Valid() {
		return nil, errors.NotValidf("booking status %q", status)
	}
	provider, err := s.Providers.GetByUserID(ctx, accountID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return s.Bookings.ListByProvider(ctx, provider.ID, status)
}
