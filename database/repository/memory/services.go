package memoryRepo

import (
	"context"
	"sort"

	serviceRepo "servicehub/database/repository/service"
	"servicehub/models"

	"github.com/juju/errors"
)

var _ serviceRepo.ServiceRepository = (*ServiceRepo)(nil)

type ServiceRepo struct {
	s *Store
}

func (r *ServiceRepo) Create(ctx context.Context, service *models.Service) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.services[service.ID]; ok {
			return errors.AlreadyExistsf("service %q", service.ID)
		}
		r.s.services[service.ID] = *service
		return nil
	})
}

func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	var out models.Service
	err := r.s.read(ctx, func() error {
		svc, ok := r.s.services[id]
		if !ok {
			return errors.NotFoundf("service %q", id)
		}
		out = svc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ServiceRepo) ListActiveByProvider(ctx context.Context, providerID string) ([]models.Service, error) {
	out := []models.Service{}
	err := r.s.read(ctx, func() error {
		for _, svc := range r.s.services {
			if svc.ProviderID == providerID && svc.IsActive {
				out = append(out, svc)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}
