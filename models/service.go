package models

import "time"

// Service is a priced offering listed by a provider.
type Service struct {
	ID                string    `bson:"id" json:"id"`
	ProviderID        string    `bson:"providerId" json:"providerId"`
	Name              string    `bson:"name" json:"name"`
	Description       string    `bson:"description" json:"description"`
	Category          string    `bson:"category" json:"category"`
	PricePerHour      float64   `bson:"pricePerHour" json:"pricePerHour"`
	EstimatedDuration string    `bson:"estimatedDuration" json:"estimatedDuration,omitempty"`
	IsActive          bool      `bson:"isActive" json:"isActive"`
	CreatedAt         time.Time `bson:"createdAt" json:"createdAt"`
}

// ProviderDetail is a provider together with its active services.
type ProviderDetail struct {
	Provider
	Services []Service `json:"services"`
}
