package provider

import (
	"context"

	"servicehub/database/repository"
	"servicehub/models"
	"servicehub/services/geo"
	"servicehub/services/stats"

	"go.uber.org/zap"
)

// ProviderService defines the provider discovery and profile operations.
type ProviderService interface {
	// FindNearby returns verified providers within radiusKm of point, nearest first.
	FindNearby(ctx context.Context, point *models.GeoPoint, radiusKm float64, category models.ProviderCategory) ([]models.NearbyProvider, error)
	// RegisterProvider creates the provider profile owned by userID.
	RegisterProvider(ctx context.Context, userID string, reg models.ProviderRegistration) (*models.Provider, error)
	// UpdateProfile edits the profile owned by accountID.
	UpdateProfile(ctx context.Context, accountID string, update models.ProviderProfileUpdate) (*models.Provider, error)
	ListProviders(ctx context.Context, filter models.ProviderFilter) ([]models.Provider, error)
	// GetProvider returns the provider with its active services.
	GetProvider(ctx context.Context, providerID string) (*models.ProviderDetail, error)
	VerifyProvider(ctx context.Context, providerID string) (*models.Provider, error)
	// GetDashboardStats returns the stats of the profile owned by accountID.
	GetDashboardStats(ctx context.Context, accountID string) (*models.ProviderStatsView, error)
}

// DefaultProviderService is the production implementation.
type DefaultProviderService struct {
	Repo     repository.ProviderRepository
	Services repository.ServiceRepository
	Stats    stats.StatsService
	Geocoder geo.Geocoder
	Logger   *zap.Logger
}
