// Package stats maintains the derived per-provider aggregates: booking
// counters, completion rate, earnings and the rating average.
package stats

import (
	"context"

	"servicehub/database"
	providerRepo "servicehub/database/repository/provider"
	reviewRepo "servicehub/database/repository/review"
	"servicehub/models"

	"github.com/juju/errors"
)

// StatsService defines the aggregate maintenance operations. The Record and
// Recompute calls join the caller's transaction when ctx carries one.
type StatsService interface {
	RecordBookingCreated(ctx context.Context, providerID string) error
	RecordCompletion(ctx context.Context, providerID string, amount float64) error
	RecomputeRating(ctx context.Context, providerID string) (models.Rating, error)
	GetProviderStats(ctx context.Context, providerID string) (*models.ProviderStatsView, error)
}

// DefaultStatsService is the production implementation.
type DefaultStatsService struct {
	Providers providerRepo.ProviderRepository
	Reviews   reviewRepo.ReviewRepository
	Tx        database.Transactor
}

func (s *DefaultStatsService) RecordBookingCreated(ctx context.Context, providerID string) error {
	return s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		return errors.Trace(s.Providers.IncTotalBookings(ctx, providerID))
	})
}

func (s *DefaultStatsService) RecordCompletion(ctx context.Context, providerID string, amount float64) error {
	return s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		return errors.Trace(s.Providers.ApplyCompletion(ctx, providerID, amount))
	})
}

// RecomputeRating rescans every review of the provider and overwrites the
// stored rating. Running it twice yields the same result.
func (s *DefaultStatsService) RecomputeRating(ctx context.Context, providerID string) (models.Rating, error) {
	var rating models.Rating
	err := s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		ratings, err := s.Reviews.RatingsForProvider(ctx, providerID)
		if err != nil {
			return errors.Trace(err)
		}
		rating = AverageRating(ratings)
		return errors.Trace(s.Providers.SetRating(ctx, providerID, rating))
	})
	if err != nil {
		return models.Rating{}, err
	}
	return rating, nil
}

func (s *DefaultStatsService) GetProviderStats(ctx context.Context, providerID string) (*models.ProviderStatsView, error) {
	p, err := s.Providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &models.ProviderStatsView{
		TotalBookings:     p.Stats.TotalBookings,
		CompletedBookings: p.Stats.CompletedBookings,
		CompletionRate:    p.Stats.CompletionRate,
		TotalEarnings:     p.Stats.TotalEarnings,
		Rating:            p.Rating,
	}, nil
}

// AverageRating returns the count and the mean rounded to one decimal.
func AverageRating(ratings []int) models.Rating {
	if len(ratings) == 0 {
		return models.Rating{}
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return models.Rating{
		Average: models.RoundRating(float64(sum) / float64(len(ratings))),
		Count:   len(ratings),
	}
}
