package reviewRepo

import (
	"context"

	"servicehub/models"
)

// ReviewRepository defines methods for review data access.
type ReviewRepository interface {
	// Create inserts a review. A second review for one booking is AlreadyExists.
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	// RatingsForProvider returns every stored rating for the provider.
	RatingsForProvider(ctx context.Context, providerID string) ([]int, error)
	// ListByProvider returns the provider's reviews, newest first.
	ListByProvider(ctx context.Context, providerID string) ([]models.Review, error)
	// SetProviderResponse stores the provider's reply once; a second reply is AlreadyExists.
	SetProviderResponse(ctx context.Context, id string, response models.ProviderResponse) (*models.Review, error)
}
