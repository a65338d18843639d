package application

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	repo "bloghub/internal/domain/repository"
	"bloghub/pkg/helpers"
)

// UserService serves the authenticated user's own profile.
type UserService struct {
	Users    repo.UserRepository
	Logger   *logrus.Logger
	HashCost int
}

func NewUserService(users repo.UserRepository, logger *logrus.Logger, hashCost int) *UserService {
	return &UserService{Users: users, Logger: logger, HashCost: hashCost}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*SanitizedUser, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.Logger.WithError(err).WithField("user_id", userID).Error("get user failed")
		return nil, ErrInternal
	}
	return sanitizeUser(u), nil
}

type UpdateProfileInput struct {
	Name     *string
	Username *string
	Email    *string
	Password *string
}

// UpdateProfile applies a partial update; a new password is re-hashed, and
// a username or email taken by another account yields ErrConflict.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*SanitizedUser, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.Logger.WithError(err).WithField("user_id", userID).Error("get user failed")
		return nil, ErrInternal
	}

	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Username != nil {
		u.Username = *in.Username
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.Password != nil {
		hash, err := helpers.HashPassword(*in.Password, s.HashCost)
		if err != nil {
			s.Logger.WithError(err).Error("password hash failed")
			return nil, ErrInternal
		}
		u.Password = hash
	}

	if err := s.Users.Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, ErrConflict
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrNotFound
		}
		s.Logger.WithError(err).WithField("user_id", userID).Error("update user failed")
		return nil, ErrInternal
	}
	return sanitizeUser(u), nil
}
