package booking

import (
	"context"

	"servicehub/models"

	"github.com/juju/errors"
)

// access records which parties an account acts as on one booking.
type access struct {
	customer bool
	provider bool
	admin    bool
}

func (a access) any() bool { return a.customer || a.provider || a.admin }

// loadForActor fetches the booking and works out the actor's relationship
// to it. Unknown accounts get no access.
func (s *DefaultBookingService) loadForActor(ctx context.Context, bookingID, actorID string) (*models.Booking, access, error) {
	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, access{}, errors.Trace(err)
	}
	var a access
	if actorID == "" {
		return booking, a, nil
	}
	a.customer = booking.CustomerID == actorID

	user, err := s.Users.GetByID(ctx, actorID)
	switch {
	case err == nil:
		a.admin = user.Role == models.RoleAdmin
	case !errors.Is(err, errors.NotFound):
		return nil, access{}, errors.Trace(err)
	}

	if !a.customer && !a.admin {
		provider, err := s.Providers.GetByID(ctx, booking.ProviderID)
		switch {
		case err == nil:
			a.provider = provider.UserID == actorID
		case !errors.Is(err, errors.NotFound):
			return nil, access{}, errors.Trace(err)
		}
	}
	return booking, a, nil
}
