// Package review records customer reviews of completed bookings and keeps
// provider ratings derived from them.
package review

import (
	"context"
	"strings"
	"time"

	"servicehub/database"
	"servicehub/database/repository"
	"servicehub/models"
	"servicehub/services/events"
	"servicehub/services/stats"
	"servicehub/utils"

	"github.com/google/uuid"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ReviewService defines the review ledger operations.
type ReviewService interface {
	SubmitReview(ctx context.Context, bookingID, customerID string, rating int, comment string) (*models.Review, error)
	ListProviderReviews(ctx context.Context, providerID string) ([]models.Review, error)
	RespondToReview(ctx context.Context, reviewID, actorID, comment string) (*models.Review, error)
}

// DefaultReviewService is the production implementation.
type DefaultReviewService struct {
	Reviews   repository.ReviewRepository
	Bookings  repository.BookingRepository
	Providers repository.ProviderRepository
	Services  repository.ServiceRepository
	Stats     stats.StatsService
	Tx        database.Transactor
	Events    events.Publisher
	Logger    *zap.Logger
}

// SubmitReview accepts one review per completed booking from its customer
// and refreshes the provider's rating in the same transaction.
func (s *DefaultReviewService) SubmitReview(ctx context.Context, bookingID, customerID string, rating int, comment string) (*models.Review, error) {
	if rating < MinRating || rating > MaxRating {
		return nil, errors.NotValidf("rating %d (want %d-%d)", rating, MinRating, MaxRating)
	}

	booking, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if booking.CustomerID != customerID {
		return nil, errors.Unauthorizedf("account %s did not make booking %s", customerID, bookingID)
	}
	if booking.Status != models.BookingCompleted {
		return nil, utils.InvalidStatef("booking %s is %s; only completed bookings can be reviewed", bookingID, booking.Status)
	}

	review := &models.Review{
		ID:               uuid.New().String(),
		BookingID:        booking.ID,
		CustomerID:       customerID,
		ProviderID:       booking.ProviderID,
		Rating:           rating,
		Comment:          strings.TrimSpace(comment),
		VerifiedPurchase: true,
		CreatedAt:        time.Now().UTC(),
	}
	if svc, err := s.Services.GetByID(ctx, booking.ServiceID); err == nil {
		review.ServiceName = svc.Name
	}

	var updated models.Rating
	err = s.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		exists, err := s.Reviews.ExistsForBooking(ctx, booking.ID)
		if err != nil {
			return errors.Trace(err)
		}
		if exists {
			return errors.AlreadyExistsf("review for booking %q", booking.ID)
		}
		if err := s.Reviews.Create(ctx, review); err != nil {
			return err
		}
		updated, err = s.Stats.RecomputeRating(ctx, booking.ProviderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	utils.ReviewsSubmitted.Inc()
	s.Logger.Info("Review submitted",
		zap.String("reviewId", review.ID),
		zap.String("providerId", review.ProviderID),
		zap.Int("rating", rating),
		zap.Float64("average", updated.Average))
	events.Emit(ctx, s.Events, s.Logger, models.EventReviewSubmitted, models.ReviewEvent{
		ReviewID:   review.ID,
		BookingID:  review.BookingID,
		ProviderID: review.ProviderID,
		Rating:     rating,
		Average:    updated.Average,
		Count:      updated.Count,
		OccurredAt: review.CreatedAt,
	})
	return review, nil
}

// ListProviderReviews returns the provider's reviews newest first.
func (s *DefaultReviewService) ListProviderReviews(ctx context.Context, providerID string) ([]models.Review, error) {
	if _, err := s.Providers.GetByID(ctx, providerID); err != nil {
		return nil, errors.Trace(err)
	}
	return s.Reviews.ListByProvider(ctx, providerID)
}

// RespondToReview attaches the provider's single reply to a review.
func (s *DefaultReviewService) RespondToReview(ctx context.Context, reviewID, actorID, comment string) (*models.Review, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, errors.NotValidf("empty response")
	}
	review, err := s.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	provider, err := s.Providers.GetByID(ctx, review.ProviderID)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if provider.UserID != actorID {
		return nil, errors.Unauthorizedf("account %s does not own provider %s", actorID, provider.ID)
	}
	return s.Reviews.SetProviderResponse(ctx, reviewID, models.ProviderResponse{
		Comment:     comment,
		RespondedAt: time.Now().UTC(),
	})
}
