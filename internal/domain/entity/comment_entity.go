package entity

import (
	"time"
)

// Comment belongs to a blog and an author. Same soft-delete rule as Blog.
type Comment struct {
	ID        string
	BlogID    string
	AuthorID  string
	Content   string
	IsDeleted bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CommentWithAuthor joins the author display name for API responses.
type CommentWithAuthor struct {
	Comment
	AuthorName string
}
