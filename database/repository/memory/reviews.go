package memoryRepo

import (
	"context"
	"sort"

	reviewRepo "servicehub/database/repository/review"
	"servicehub/models"

	"github.com/juju/errors"
)

var _ reviewRepo.ReviewRepository = (*ReviewRepo)(nil)

type ReviewRepo struct {
	s *Store
}

func (r *ReviewRepo) Create(ctx context.Context, review *models.Review) error {
	return r.s.write(ctx, func() error {
		for _, existing := range r.s.reviews {
			if existing.BookingID == review.BookingID {
				return errors.AlreadyExistsf("review for booking %q", review.BookingID)
			}
		}
		r.s.reviews[review.ID] = *review
		return nil
	})
}

func (r *ReviewRepo) GetByID(ctx context.Context, id string) (*models.Review, error) {
	var out models.Review
	err := r.s.read(ctx, func() error {
		rv, ok := r.s.reviews[id]
		if !ok {
			return errors.NotFoundf("review %q", id)
		}
		out = rv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ReviewRepo) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	found := false
	err := r.s.read(ctx, func() error {
		for _, rv := range r.s.reviews {
			if rv.BookingID == bookingID {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *ReviewRepo) RatingsForProvider(ctx context.Context, providerID string) ([]int, error) {
	ratings := []int{}
	err := r.s.read(ctx, func() error {
		for _, rv := range r.s.reviews {
			if rv.ProviderID == providerID {
				ratings = append(ratings, rv.Rating)
			}
		}
		return nil
	})
	return ratings, err
}

func (r *ReviewRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Review, error) {
	out := []models.Review{}
	err := r.s.read(ctx, func() error {
		for _, rv := range r.s.reviews {
			if rv.ProviderID == providerID {
				out = append(out, rv)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *ReviewRepo) SetProviderResponse(ctx context.Context, id string, response models.ProviderResponse) (*models.Review, error) {
	var out models.Review
	err := r.s.write(ctx, func() error {
		rv, ok := r.s.reviews[id]
		if !ok {
			return errors.NotFoundf("review %q", id)
		}
		if rv.ProviderResponse != nil {
			return errors.AlreadyExistsf("response to review %q", id)
		}
		resp := response
		rv.ProviderResponse = &resp
		r.s.reviews[id] = rv
		out = rv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
