package booking

import "servicehub/models"

// transitions lists the legal next states. Terminal states have no entry.
var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled, models.BookingDeclined},
	models.BookingConfirmed: {models.BookingCompleted, models.BookingCancelled, models.BookingDeclined},
}

// CanTransition reports whether a booking may move from one status to
// another. Re-entering the current status is never legal.
func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
