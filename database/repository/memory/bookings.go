package memoryRepo

import (
	"context"
	"sort"
	"time"

	bookingRepo "servicehub/database/repository/booking"
	"servicehub/models"
	"servicehub/utils"

	"github.com/juju/errors"
)

var _ bookingRepo.BookingRepository = (*BookingRepo)(nil)

type BookingRepo struct {
	s *Store
}

func (r *BookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.bookings[booking.ID]; ok {
			return errors.AlreadyExistsf("booking %q", booking.ID)
		}
		r.s.bookings[booking.ID] = *booking
		return nil
	})
}

func (r *BookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var out models.Booking
	err := r.s.read(ctx, func() error {
		b, ok := r.s.bookings[id]
		if !ok {
			return errors.NotFoundf("booking %q", id)
		}
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, from, to models.BookingStatus, reason string) (*models.Booking, error) {
	return r.compareAndSet(ctx, id,
		func(b models.Booking) bool { return b.Status == from },
		func(b *models.Booking) {
			b.Status = to
			if reason != "" {
				b.CancellationReason = reason
			}
		})
}

func (r *BookingRepo) UpdateDetails(ctx context.Context, id string, patch models.BookingPatch) (*models.Booking, error) {
	return r.compareAndSet(ctx, id,
		func(b models.Booking) bool { return b.Status == models.BookingPending },
		patch.Apply)
}

func (r *BookingRepo) SetCancellationReason(ctx context.Context, id, reason string) (*models.Booking, error) {
	return r.compareAndSet(ctx, id,
		func(b models.Booking) bool {
			return b.Status == models.BookingCancelled || b.Status == models.BookingDeclined
		},
		func(b *models.Booking) { b.CancellationReason = reason })
}

func (r *BookingRepo) compareAndSet(ctx context.Context, id string, guard func(models.Booking) bool, apply func(*models.Booking)) (*models.Booking, error) {
	var out models.Booking
	err := r.s.write(ctx, func() error {
		b, ok := r.s.bookings[id]
		if !ok {
			return errors.NotFoundf("booking %q", id)
		}
		if !guard(b) {
			return utils.InvalidStatef("booking %s is %s", id, b.Status)
		}
		apply(&b)
		b.UpdatedAt = time.Now().UTC()
		r.s.bookings[id] = b
		out = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID string, status models.BookingStatus) ([]models.Booking, error) {
	return r.list(ctx, func(b models.Booking) bool {
		return b.CustomerID == customerID && (status == "" || b.Status == status)
	})
}

func (r *BookingRepo) ListByProvider(ctx context.Context, providerID string, status models.BookingStatus) ([]models.Booking, error) {
	return r.list(ctx, func(b models.Booking) bool {
		return b.ProviderID == providerID && (status == "" || b.Status == status)
	})
}

func (r *BookingRepo) list(ctx context.Context, match func(models.Booking) bool) ([]models.Booking, error) {
	out := []models.Booking{}
	err := r.s.read(ctx, func() error {
		for _, b := range r.s.bookings {
			if match(b) {
				out = append(out, b)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].BookingDate.Equal(out[j].BookingDate) {
			return out[i].BookingDate.After(out[j].BookingDate)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}
