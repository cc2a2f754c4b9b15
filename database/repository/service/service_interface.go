package serviceRepo

import (
	"context"

	"servicehub/models"
)

// ServiceRepository is read-mostly access to provider offerings.
type ServiceRepository interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id string) (*models.Service, error)
	ListActiveByProvider(ctx context.Context, providerID string) ([]models.Service, error)
}
