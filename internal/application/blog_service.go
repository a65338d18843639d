package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"bloghub/internal/domain/entity"
	repo "bloghub/internal/domain/repository"
	"bloghub/internal/infrastructure/search"
)

// ListingCache is the short-TTL cache for the serialized blog listing.
// Lookups that fail are treated as misses; the TTL bounds staleness.
type ListingCache interface {
	Get(ctx context.Context) (json.RawMessage, bool, error)
	Set(ctx context.Context, payload json.RawMessage) error
	Invalidate(ctx context.Context) error
}

// MediaStore uploads cover images and returns a storage id plus public URL.
type MediaStore interface {
	Upload(ctx context.Context, ownerID, filename, contentType string, r io.Reader) (storageID, url string, err error)
}

// BlogService implements CRUD and like-toggling on posts, coordinating the
// listing cache and the media store. Every successful mutation invalidates
// the cached listing.
type BlogService struct {
	Blogs  repo.BlogRepository
	Cache  ListingCache
	Media  MediaStore
	Index  *search.BlogIndex // optional
	Logger *logrus.Logger
}

func NewBlogService(blogs repo.BlogRepository, cache ListingCache, media MediaStore, index *search.BlogIndex, logger *logrus.Logger) *BlogService {
	return &BlogService{Blogs: blogs, Cache: cache, Media: media, Index: index, Logger: logger}
}

// BlogResponse is the API shape of a post: internal fields stripped, author
// flattened to id + display name.
type BlogResponse struct {
	ID            string              `json:"id"`
	Title         string              `json:"title"`
	Content       string              `json:"content"`
	Author        BlogAuthor          `json:"author"`
	LikesCount    int                 `json:"likes_count"`
	CommentsCount int                 `json:"comments_count"`
	CoverImage    *CoverImageResponse `json:"cover_image,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

type BlogAuthor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type CoverImageResponse struct {
	StorageID string `json:"storage_id"`
	URL       string `json:"url"`
}

func sanitizeBlog(b *entity.BlogWithMeta) BlogResponse {
	resp := BlogResponse{
		ID:            b.ID,
		Title:         b.Title,
		Content:       b.Content,
		Author:        BlogAuthor{ID: b.AuthorID, Username: b.AuthorName},
		LikesCount:    b.LikesCount,
		CommentsCount: b.CommentsCount,
		CreatedAt:     b.CreatedAt,
	}
	if b.CoverImage != nil {
		resp.CoverImage = &CoverImageResponse{StorageID: b.CoverImage.StorageID, URL: b.CoverImage.URL}
	}
	return resp
}

type CreateBlogInput struct {
	Title   string
	Content string
}

// ImageUpload carries an optional multipart cover image.
type ImageUpload struct {
	Filename    string
	ContentType string
	Reader      io.Reader
}

// Create persists a new post. When an image is supplied it is uploaded
// first; an upload failure aborts the whole operation and nothing is
// persisted.
func (s *BlogService) Create(ctx context.Context, authorID string, in CreateBlogInput, image *ImageUpload) (*BlogResponse, error) {
	b := &entity.Blog{Title: in.Title, Content: in.Content, AuthorID: authorID}

	if image != nil {
		storageID, url, err := s.Media.Upload(ctx, authorID, image.Filename, image.ContentType, image.Reader)
		if err != nil {
			s.Logger.WithError(err).Error("cover image upload failed")
			return nil, ErrInternal
		}
		b.CoverImage = &entity.CoverImage{StorageID: storageID, URL: url}
	}

	if err := s.Blogs.Create(ctx, b); err != nil {
		s.Logger.WithError(err).Error("create blog failed")
		return nil, ErrInternal
	}

	s.invalidateListing(ctx)

	meta, err := s.Blogs.GetByID(ctx, b.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("blog_id", b.ID).Error("reload blog failed")
		return nil, ErrInternal
	}
	s.indexBlog(ctx, meta)

	resp := sanitizeBlog(meta)
	return &resp, nil
}

// ListAll serves the listing cache-through: a hit returns the cached
// serialized listing verbatim; a miss recomputes and caches for the TTL.
func (s *BlogService) ListAll(ctx context.Context) (json.RawMessage, error) {
	if cached, ok, err := s.Cache.Get(ctx); err == nil && ok {
		return cached, nil
	} else if err != nil {
		s.Logger.WithError(err).Warn("listing cache lookup failed")
	}

	blogs, err := s.Blogs.ListAll(ctx)
	if err != nil {
		s.Logger.WithError(err).Error("list blogs failed")
		return nil, ErrInternal
	}

	out := make([]BlogResponse, 0, len(blogs))
	for i := range blogs {
		out = append(out, sanitizeBlog(&blogs[i]))
	}
	payload, err := json.Marshal(out)
	if err != nil {
		return nil, ErrInternal
	}

	if err := s.Cache.Set(ctx, payload); err != nil {
		s.Logger.WithError(err).Warn("listing cache store failed")
	}
	return payload, nil
}

// GetOne returns a single non-deleted post.
func (s *BlogService) GetOne(ctx context.Context, blogID string) (*BlogResponse, error) {
	meta, err := s.Blogs.GetByID(ctx, blogID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.Logger.WithError(err).WithField("blog_id", blogID).Error("get blog failed")
		return nil, ErrInternal
	}
	resp := sanitizeBlog(meta)
	return &resp, nil
}

type UpdateBlogInput struct {
	Title   *string
	Content *string
}

// Update applies a partial overwrite; only the owning author may edit.
func (s *BlogService) Update(ctx context.Context, blogID, authorID string, in UpdateBlogInput) (*BlogResponse, error) {
	meta, err := s.Blogs.GetByID(ctx, blogID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.Logger.WithError(err).WithField("blog_id", blogID).Error("get blog failed")
		return nil, ErrInternal
	}
	if meta.AuthorID != authorID {
		return nil, ErrForbidden
	}

	b := meta.Blog
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Content != nil {
		b.Content = *in.Content
	}
	if err := s.Blogs.Update(ctx, &b); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.Logger.WithError(err).WithField("blog_id", blogID).Error("update blog failed")
		return nil, ErrInternal
	}

	s.invalidateListing(ctx)

	meta, err = s.Blogs.GetByID(ctx, blogID)
	if err != nil {
		s.Logger.WithError(err).WithField("blog_id", blogID).Error("reload blog failed")
		return nil, ErrInternal
	}
	s.indexBlog(ctx, meta)

	resp := sanitizeBlog(meta)
	return &resp, nil
}

// Remove soft-deletes a post; the record is retained for audit.
func (s *BlogService) Remove(ctx context.Context, blogID, authorID string) error {
	meta, err := s.Blogs.GetByID(ctx, blogID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		s.Logger.WithError(err).WithField("blog_id", blogID).Error("get blog failed")
		return ErrInternal
	}
	if meta.AuthorID != authorID {
		return ErrForbidden
	}

	if err := s.Blogs.SoftDelete(ctx, blogID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotFound
		}
		s.Logger.WithError(err).WithField("blog_id", blogID).Error("soft delete failed")
		return ErrInternal
	}

	s.invalidateListing(ctx)

	if s.Index != nil {
		if err := s.Index.Delete(ctx, blogID); err != nil {
			s.Logger.WithError(err).WithField("blog_id", blogID).Warn("es delete failed")
		}
	}
	return nil
}

// ToggleLike likes the post for the user, or unlikes it when already liked.
// The set update is atomic at the database; soft-deleted posts are NotFound.
func (s *BlogService) ToggleLike(ctx context.Context, blogID, userID string) (*BlogResponse, bool, error) {
	if _, err := s.Blogs.GetByID(ctx, blogID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, false, ErrNotFound
		}
		s.Logger.WithError(err).WithField("blog_id", blogID).Error("get blog failed")
		return nil, false, ErrInternal
	}

	liked, err := s.Blogs.ToggleLike(ctx, blogID, userID)
	if err != nil {
		s.Logger.WithError(err).WithField("blog_id", blogID).Error("toggle like failed")
		return nil, false, ErrInternal
	}

	s.invalidateListing(ctx)

	meta, err := s.Blogs.GetByID(ctx, blogID)
	if err != nil {
		s.Logger.WithError(err).WithField("blog_id", blogID).Error("reload blog failed")
		return nil, false, ErrInternal
	}
	resp := sanitizeBlog(meta)
	return &resp, liked, nil
}

// Search queries the Elasticsearch index on title and content.
func (s *BlogService) Search(ctx context.Context, q string, size int) ([]search.BlogDocument, error) {
	if s.Index == nil {
		return []search.BlogDocument{}, nil
	}
	hits, err := s.Index.Search(ctx, q, size)
	if err != nil {
		s.Logger.WithError(err).Warn("blog search failed")
		return nil, ErrInternal
	}
	return hits, nil
}

func (s *BlogService) invalidateListing(ctx context.Context) {
	if err := s.Cache.Invalidate(ctx); err != nil {
		s.Logger.WithError(err).Warn("listing cache invalidation failed")
	}
}

func (s *BlogService) indexBlog(ctx context.Context, meta *entity.BlogWithMeta) {
	if s.Index == nil {
		return
	}
	_ = s.Index.Index(ctx, search.BlogDocument{
		ID:        meta.ID,
		Title:     meta.Title,
		Content:   meta.Content,
		Author:    meta.AuthorName,
		CreatedAt: meta.CreatedAt,
	})
}
