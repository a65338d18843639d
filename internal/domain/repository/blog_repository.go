package repository

import (
	"context"

	"bloghub/internal/domain/entity"
)

// BlogRepository defines persistence operations for blog posts.
// Read methods exclude soft-deleted posts.
type BlogRepository interface {
	Create(ctx context.Context, b *entity.Blog) error
	GetByID(ctx context.Context, id string) (*entity.BlogWithMeta, error)
	// ListAll returns non-deleted posts newest-first with author name and counters.
	ListAll(ctx context.Context) ([]entity.BlogWithMeta, error)
	Update(ctx context.Context, b *entity.Blog) error
	SoftDelete(ctx context.Context, id string) error
	// ToggleLike atomically adds the user to the post's like set if absent,
	// or removes it if present. Returns whether the post is liked afterwards.
	ToggleLike(ctx context.Context, blogID, userID string) (liked bool, err error)
}
