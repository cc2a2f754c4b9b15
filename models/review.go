package models

import "time"

type ProviderResponse struct {
	Comment     string    `bson:"comment" json:"comment"`
	RespondedAt time.Time `bson:"respondedAt" json:"respondedAt"`
}

// Review is immutable after creation except for the provider response.
type Review struct {
	ID               string            `bson:"id" json:"id"`
	BookingID        string            `bson:"bookingId" json:"bookingId"`
	CustomerID       string            `bson:"customerId" json:"customerId"`
	ProviderID       string            `bson:"providerId" json:"providerId"`
	ServiceName      string            `bson:"serviceName" json:"serviceName"`
	Rating           int               `bson:"rating" json:"rating"`
	Comment          string            `bson:"comment" json:"comment"`
	VerifiedPurchase bool              `bson:"verifiedPurchase" json:"verifiedPurchase"`
	ProviderResponse *ProviderResponse `bson:"providerResponse,omitempty" json:"providerResponse,omitempty"`
	CreatedAt        time.Time         `bson:"createdAt" json:"createdAt"`
}
