package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"bloghub/internal/domain/entity"
	repo "bloghub/internal/domain/repository"
)

// CommentService implements CRUD on comments scoped to a post and author.
type CommentService struct {
	Comments repo.CommentRepository
	Blogs    repo.BlogRepository
	Logger   *logrus.Logger
}

func NewCommentService(comments repo.CommentRepository, blogs repo.BlogRepository, logger *logrus.Logger) *CommentService {
	return &CommentService{Comments: comments, Blogs: blogs, Logger: logger}
}

// CommentResponse is the API shape of a comment.
type CommentResponse struct {
	ID        string     `json:"id"`
	BlogID    string     `json:"blog_id"`
	Content   string     `json:"content"`
	Author    BlogAuthor `json:"author"`
	CreatedAt time.Time  `json:"created_at"`
}

// Create persists a comment on an existing, non-deleted post.
func (s *CommentService) Create(ctx context.Context, authorID, blogID, content string) (*CommentResponse, error) {
	if _, err := s.Blogs.GetByID(ctx, blogID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.Logger.WithError(err).WithField("blog_id", blogID).Error("get blog failed")
		return nil, ErrInternal
	}

	c := &entity.Comment{BlogID: blogID, AuthorID: authorID, Content: content}
	if err := s.Comments.Create(ctx, c); err != nil {
		s.Logger.WithError(err).WithField("blog_id", blogID).Error("create comment failed")
		return nil, ErrInternal
	}
	return &CommentResponse{
		ID:        c.ID,
		BlogID:    c.BlogID,
		Content:   c.Content,
		Author:    BlogAuthor{ID: c.AuthorID},
		CreatedAt: c.CreatedAt,
	}, nil
}

// ListByBlog returns non-deleted comments for the post, newest-first.
func (s *CommentService) ListByBlog(ctx context.Context, blogID string) ([]CommentResponse, error) {
	comments, err := s.Comments.ListByBlog(ctx, blogID)
	if err != nil {
		s.Logger.WithError(err).WithField("blog_id", blogID).Error("list comments failed")
		return nil, ErrInternal
	}
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentResponse{
			ID:        c.ID,
			BlogID:    c.BlogID,
			Content:   c.Content,
			Author:    BlogAuthor{ID: c.AuthorID, Username: c.AuthorName},
			CreatedAt: c.CreatedAt,
		})
	}
	return out, nil
}

// Update overwrites the comment content; only its author may edit.
// Soft-deleted comments are NotFound.
func (s *CommentService) Update(ctx context.Context, commentID, userID, content string) error {
	c, err := s.Comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		s.Logger.WithError(err).WithField("comment_id", commentID).Error("get comment failed")
		return ErrInternal
	}
	if c.IsDeleted {
		return ErrNotFound
	}
	if c.AuthorID != userID {
		return ErrForbidden
	}

	if err := s.Comments.UpdateContent(ctx, commentID, content); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		s.Logger.WithError(err).WithField("comment_id", commentID).Error("update comment failed")
		return ErrInternal
	}
	return nil
}

// Remove soft-deletes the comment; only its author may delete.
func (s *CommentService) Remove(ctx context.Context, commentID, userID string) error {
	c, err := s.Comments.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		s.Logger.WithError(err).WithField("comment_id", commentID).Error("get comment failed")
		return ErrInternal
	}
	if c.IsDeleted {
		return ErrNotFound
	}
	if c.AuthorID != userID {
		return ErrForbidden
	}

	if err := s.Comments.SoftDelete(ctx, commentID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		s.Logger.WithError(err).WithField("comment_id", commentID).Error("delete comment failed")
		return ErrInternal
	}
	return nil
}
