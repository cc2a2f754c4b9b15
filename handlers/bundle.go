package handlers

import (
	"servicehub/database/repository"
)

// HandlerBundle groups the endpoint handlers and the repositories the
// route-level middleware needs.
type HandlerBundle struct {
	UserRepo repository.UserRepository

	Provider *ProviderHandler
	Booking  *BookingHandler
	Review   *ReviewHandler
}
