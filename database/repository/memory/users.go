package memoryRepo

import (
	"context"

	userRepo "servicehub/database/repository/user"
	"servicehub/models"

	"github.com/juju/errors"
)

var _ userRepo.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	s *Store
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var out models.User
	err := r.s.read(ctx, func() error {
		u, ok := r.s.users[id]
		if !ok {
			return errors.NotFoundf("user %q", id)
		}
		out = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) error {
	return r.s.write(ctx, func() error {
		if _, ok := r.s.users[user.ID]; ok {
			return errors.AlreadyExistsf("user %q", user.ID)
		}
		for _, u := range r.s.users {
			if user.Email != "" && u.Email == user.Email {
				return errors.AlreadyExistsf("user %q", user.Email)
			}
		}
		r.s.users[user.ID] = *user
		return nil
	})
}
