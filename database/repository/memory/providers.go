package memoryRepo

import (
	"context"
	"sort"
	"time"

	providerRepo "servicehub/database/repository/provider"
	"servicehub/models"

	"github.com/juju/errors"
)

var _ providerRepo.ProviderRepository = (*ProviderRepo)(nil)

type ProviderRepo struct {
	s *Store
}

func cloneProvider(p models.Provider) *models.Provider {
	if p.Location != nil {
		loc := *p.Location
		loc.Coordinates = append([]float64(nil), p.Location.Coordinates...)
		p.Location = &loc
	}
	return &p
}

func (r *ProviderRepo) Create(ctx context.Context, provider *models.Provider) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.providers[provider.ID]; ok {
			return errors.AlreadyExistsf("provider %q", provider.ID)
		}
		for _, p := range r.s.providers {
			if p.UserID == provider.UserID {
				return errors.AlreadyExistsf("provider for account %q", provider.UserID)
			}
		}
		r.s.providers[provider.ID] = *cloneProvider(*provider)
		return nil
	})
}

func (r *ProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	var out *models.Provider
	err := r.s.read(ctx, func() error {
		p, ok := r.s.providers[id]
		if !ok {
			return errors.NotFoundf("provider %q", id)
		}
		out = cloneProvider(p)
		return nil
	})
	return out, err
}

func (r *ProviderRepo) GetByUserID(ctx context.Context, userID string) (*models.Provider, error) {
	var out *models.Provider
	err := r.s.read(ctx, func() error {
		for _, p := range r.s.providers {
			if p.UserID == userID {
				out = cloneProvider(p)
				return nil
			}
		}
		return errors.NotFoundf("provider %q", userID)
	})
	return out, err
}

func (r *ProviderRepo) List(ctx context.Context, filter models.ProviderFilter) ([]models.Provider, error) {
	out := []models.Provider{}
	err := r.s.read(ctx, func() error {
		for _, p := range r.s.providers {
			if filter.Category != "" && p.Category != filter.Category {
				continue
			}
			if filter.MinRating > 0 && p.Rating.Average < filter.MinRating {
				continue
			}
			if filter.MaxPrice > 0 && p.HourlyRate > filter.MaxPrice {
				continue
			}
			if filter.Verified != nil && p.Verified != *filter.Verified {
				continue
			}
			out = append(out, *cloneProvider(p))
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Rating.Average != out[j].Rating.Average {
			return out[i].Rating.Average > out[j].Rating.Average
		}
		return createdBefore(out[i], out[j])
	})
	return out, err
}

// FindVerified ignores the geo narrowing; callers filter by exact distance.
func (r *ProviderRepo) FindVerified(ctx context.Context, _ providerRepo.NearbyCriteria) ([]models.Provider, error) {
	out := []models.Provider{}
	err := r.s.read(ctx, func() error {
		for _, p := range r.s.providers {
			if p.Verified {
				out = append(out, *cloneProvider(p))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return createdBefore(out[i], out[j]) })
	return out, err
}

func createdBefore(a, b models.Provider) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func (r *ProviderRepo) UpdateProfile(ctx context.Context, id string, update models.ProviderProfileUpdate) (*models.Provider, error) {
	var out *models.Provider
	err := r.mutate(ctx, id, func(p *models.Provider) {
		update.Apply(p)
		*p = *cloneProvider(*p)
		out = cloneProvider(*p)
	})
	return out, err
}

func (r *ProviderRepo) SetVerified(ctx context.Context, id string, verified bool) (*models.Provider, error) {
	var out *models.Provider
	err := r.mutate(ctx, id, func(p *models.Provider) {
		p.Verified = verified
		out = cloneProvider(*p)
	})
	return out, err
}

func (r *ProviderRepo) IncTotalBookings(ctx context.Context, id string) error {
	return r.mutate(ctx, id, func(p *models.Provider) {
		p.Stats.TotalBookings++
		p.Stats.CompletionRate = models.CompletionRate(p.Stats.CompletedBookings, p.Stats.TotalBookings)
	})
}

func (r *ProviderRepo) ApplyCompletion(ctx context.Context, id string, amount float64) error {
	return r.mutate(ctx, id, func(p *models.Provider) {
		p.Stats.CompletedBookings++
		p.Stats.TotalEarnings += amount
		p.Stats.CompletionRate = models.CompletionRate(p.Stats.CompletedBookings, p.Stats.TotalBookings)
	})
}

func (r *ProviderRepo) SetRating(ctx context.Context, id string, rating models.Rating) error {
	return r.mutate(ctx, id, func(p *models.Provider) {
		p.Rating = rating
	})
}

func (r *ProviderRepo) mutate(ctx context.Context, id string, f func(p *models.Provider)) error {
	return r.s.write(ctx, func() error {
		p, ok := r.s.providers[id]
		if !ok {
			return errors.NotFoundf("provider %q", id)
		}
		f(&p)
		p.UpdatedAt = time.Now().UTC()
		r.s.providers[id] = p
		return nil
	})
}
