package entity

import (
	"time"
)

// CoverImage describes a blog cover uploaded to the media store.
type CoverImage struct {
	StorageID string
	URL       string
}

// Blog is a post authored by a user. Soft-deleted posts (IsDeleted=true)
// are retained for audit but excluded from every read path.
type Blog struct {
	ID         string
	Title      string
	Content    string
	AuthorID   string
	CoverImage *CoverImage
	IsDeleted  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// BlogWithMeta is a blog joined with its author display name and
// like/comment counters, as served on read paths.
type BlogWithMeta struct {
	Blog
	AuthorName    string
	LikesCount    int
	CommentsCount int
}
