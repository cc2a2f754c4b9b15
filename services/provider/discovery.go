package provider

import (
	"context"
	"math"
	"sort"

	"servicehub/database/repository"
	"servicehub/models"
	"servicehub/services/geo"
	"servicehub/utils"

	"github.com/juju/errors"
	"go.uber.org/zap"
)

// FindNearby filters verified providers by exact haversine distance, then
// by category, and sorts the survivors by distance. Ties keep repository
// order. Distances are compared at full precision and rounded only in the
// returned entries.
func (s *DefaultProviderService) FindNearby(ctx context.Context, point *models.GeoPoint, radiusKm float64, category models.ProviderCategory) ([]models.NearbyProvider, error) {
	if !point.Valid() {
		return nil, errors.NotValidf("search location")
	}
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm < 0 {
		return nil, errors.NotValidf("radius %v", radiusKm)
	}
	if category != "" && !category.Valid() {
		return nil, errors.NotValidf("category %q", category)
	}

	candidates, err := s.Repo.FindVerified(ctx, repository.NearbyCriteria{Center: point, RadiusKm: radiusKm})
	if err != nil {
		return nil, errors.Trace(err)
	}

	type hit struct {
		provider models.Provider
		distance float64
	}
	hits := make([]hit, 0, len(candidates))
	for _, p := range candidates {
		if !p.Location.Valid() {
			continue
		}
		d := geo.DistanceKm(*point, *p.Location)
		if d > radiusKm {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		hits = append(hits, hit{provider: p, distance: d})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].distance < hits[j].distance })

	results := make([]models.NearbyProvider, len(hits))
	for i, h := range hits {
		results[i] = models.NearbyProvider{Provider: h.provider, DistanceKm: geo.RoundKm(h.distance)}
	}

	utils.NearbySearchResults.Observe(float64(len(results)))
	s.Logger.Debug("Nearby search",
		zap.Float64("lat", point.Lat()),
		zap.Float64("lng", point.Lon()),
		zap.Float64("radiusKm", radiusKm),
		zap.String("category", string(category)),
		zap.Int("candidates", len(candidates)),
		zap.Int("results", len(results)))
	return results, nil
}
