package models

import "time"

// Routing keys for domain events published to the events exchange.
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventReviewSubmitted      = "review.submitted"
	EventBookingReminder      = "booking.reminder"
)

// BookingEvent is the payload of booking lifecycle events.
type BookingEvent struct {
	BookingID  string        `json:"bookingId"`
	ProviderID string        `json:"providerId"`
	CustomerID string        `json:"customerId"`
	From       BookingStatus `json:"from,omitempty"`
	To         BookingStatus `json:"to"`
	ActorID    string        `json:"actorId"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// ReviewEvent is the payload of review.submitted.
type ReviewEvent struct {
	ReviewID   string    `json:"reviewId"`
	BookingID  string    `json:"bookingId"`
	ProviderID string    `json:"providerId"`
	Rating     int       `json:"rating"`
	Average    float64   `json:"average"`
	Count      int       `json:"count"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ReminderPayload is the task payload for upcoming booking reminders.
type ReminderPayload struct {
	BookingID   string    `json:"bookingId"`
	CustomerID  string    `json:"customerId"`
	ProviderID  string    `json:"providerId"`
	BookingDate time.Time `json:"bookingDate"`
	BookingTime string    `json:"bookingTime"`
}
