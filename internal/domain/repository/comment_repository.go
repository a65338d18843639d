package repository

import (
	"context"

	"bloghub/internal/domain/entity"
)

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	// ListByBlog returns non-deleted comments for a post newest-first with author names.
	ListByBlog(ctx context.Context, blogID string) ([]entity.CommentWithAuthor, error)
	UpdateContent(ctx context.Context, id, content string) error
	SoftDelete(ctx context.Context, id string) error
}
