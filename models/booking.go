package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCompleted BookingStatus = "Completed"
	BookingCancelled BookingStatus = "Cancelled"
	BookingDeclined  BookingStatus = "Declined"
)

// Terminal reports whether no further transition is legal from s.
func (s BookingStatus) Terminal() bool {
	return s == BookingCompleted || s == BookingCancelled || s == BookingDeclined
}

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled, BookingDeclined:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "Pending"
	PaymentPaid     PaymentStatus = "Paid"
	PaymentRefunded PaymentStatus = "Refunded"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentCard   PaymentMethod = "Card"
	PaymentOnline PaymentMethod = "Online"
)

type ServiceAddress struct {
	Street         string `bson:"street" json:"street"`
	City           string `bson:"city,omitempty" json:"city,omitempty"`
	State          string `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode        string `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
	AdditionalInfo string `bson:"additionalInfo,omitempty" json:"additionalInfo,omitempty"`
}

// Booking is a scheduled engagement between one customer and one provider.
type Booking struct {
	ID                 string         `bson:"id" json:"id"`
	CustomerID         string         `bson:"customerId" json:"customerId"`
	ProviderID         string         `bson:"providerId" json:"providerId"`
	ServiceID          string         `bson:"serviceId" json:"serviceId"`
	BookingDate        time.Time      `bson:"bookingDate" json:"bookingDate"`
	BookingTime        string         `bson:"bookingTime" json:"bookingTime"`
	ServiceAddress     ServiceAddress `bson:"serviceAddress" json:"serviceAddress"`
	ContactPhone       string         `bson:"contactPhone" json:"contactPhone"`
	AdditionalNotes    string         `bson:"additionalNotes" json:"additionalNotes"`
	TotalAmount        float64        `bson:"totalAmount" json:"totalAmount"`
	ServiceFee         float64        `bson:"serviceFee" json:"serviceFee"`
	Status             BookingStatus  `bson:"status" json:"status"`
	PaymentStatus      PaymentStatus  `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod      PaymentMethod  `bson:"paymentMethod" json:"paymentMethod"`
	CancellationReason string         `bson:"cancellationReason" json:"cancellationReason"`
	CreatedAt          time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// BookingDetails is the customer-supplied part of a new booking.
type BookingDetails struct {
	BookingDate     time.Time      `json:"bookingDate"`
	BookingTime     string         `json:"bookingTime"`
	ServiceAddress  ServiceAddress `json:"serviceAddress"`
	ContactPhone    string         `json:"contactPhone"`
	AdditionalNotes string         `json:"additionalNotes"`
	TotalAmount     float64        `json:"totalAmount"`
	ServiceFee      float64        `json:"serviceFee"`
	PaymentMethod   PaymentMethod  `json:"paymentMethod"`
}

// BookingPatch carries the scheduling/contact fields a customer may edit
// while the booking is still pending. Nil fields are left unchanged.
type BookingPatch struct {
	BookingDate     *time.Time      `json:"bookingDate"`
	BookingTime     *string         `json:"bookingTime"`
	ServiceAddress  *ServiceAddress `json:"serviceAddress"`
	ContactPhone    *string         `json:"contactPhone"`
	AdditionalNotes *string         `json:"additionalNotes"`
}

// Empty reports whether the patch changes nothing.
func (p BookingPatch) Empty() bool {
	return p.BookingDate == nil && p.BookingTime == nil && p.ServiceAddress == nil &&
		p.ContactPhone == nil && p.AdditionalNotes == nil
}

// Apply copies the set fields onto b.
func (p BookingPatch) Apply(b *Booking) {
	if p.BookingDate != nil {
		b.BookingDate = *p.BookingDate
	}
	if p.BookingTime != nil {
		b.BookingTime = *p.BookingTime
	}
	if p.ServiceAddress != nil {
		b.ServiceAddress = *p.ServiceAddress
	}
	if p.ContactPhone != nil {
		b.ContactPhone = *p.ContactPhone
	}
	if p.AdditionalNotes != nil {
		b.AdditionalNotes = *p.AdditionalNotes
	}
}
