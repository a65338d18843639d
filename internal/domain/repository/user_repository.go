package repository

import (
	"context"
	"errors"
	"time"

	"bloghub/internal/domain/entity"
)

// Sentinel errors returned by repository implementations.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByIdentifier matches either username or email.
	GetByIdentifier(ctx context.Context, identifier string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// UpdateLockout persists only the failed-attempt counter and lock timestamp.
	UpdateLockout(ctx context.Context, id string, attempts int, lockUntil *time.Time) error
}
