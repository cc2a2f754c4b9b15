package providerRepo

import (
	"context"

	"servicehub/models"
)

// NearbyCriteria narrows the verified-provider scan to a spherical cap.
// A nil Center disables the geo narrowing.
type NearbyCriteria struct {
	Center   *models.GeoPoint
	RadiusKm float64
}

// ProviderRepository defines methods for provider data access.
type ProviderRepository interface {
	// Create inserts a new provider. A second profile for one account is AlreadyExists.
	Create(ctx context.Context, provider *models.Provider) error
	// GetByID retrieves a provider by its unique ID.
	GetByID(ctx context.Context, id string) (*models.Provider, error)
	// GetByUserID retrieves the provider profile owned by an account.
	GetByUserID(ctx context.Context, userID string) (*models.Provider, error)
	// List returns providers matching filter, best rated first.
	List(ctx context.Context, filter models.ProviderFilter) ([]models.Provider, error)
	// FindVerified returns verified providers in stable createdAt, id order.
	// The result may contain providers outside the radius; callers filter exactly.
	FindVerified(ctx context.Context, criteria NearbyCriteria) ([]models.Provider, error)
	// UpdateProfile applies an owner's profile edit and returns the updated provider.
	UpdateProfile(ctx context.Context, id string, update models.ProviderProfileUpdate) (*models.Provider, error)
	// SetVerified flips the verification flag and returns the updated provider.
	SetVerified(ctx context.Context, id string, verified bool) (*models.Provider, error)

	// IncTotalBookings atomically adds one booking to the provider's stats.
	IncTotalBookings(ctx context.Context, id string) error
	// ApplyCompletion atomically records one completed booking worth amount
	// and recomputes the completion rate from the stored counters.
	ApplyCompletion(ctx context.Context, id string, amount float64) error
	// SetRating overwrites the derived rating.
	SetRating(ctx context.Context, id string, rating models.Rating) error
}
