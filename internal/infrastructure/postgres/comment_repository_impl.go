package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"bloghub/internal/domain/entity"
	"bloghub/internal/domain/repository"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO comments (blog_id, author_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, c.BlogID, c.AuthorID, c.Content)

	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *CommentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	c := &entity.Comment{}
	row := r.pool.QueryRow(ctx, `
		SELECT id, blog_id, author_id, content, is_deleted, created_at, updated_at
		FROM comments
		WHERE id = $1
	`, id)
	if err := row.Scan(&c.ID, &c.BlogID, &c.AuthorID, &c.Content,
		&c.IsDeleted, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *CommentRepository) ListByBlog(ctx context.Context, blogID string) ([]entity.CommentWithAuthor, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.blog_id, c.author_id, c.content, c.is_deleted, c.created_at, c.updated_at,
		       u.username
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.blog_id = $1 AND c.is_deleted = false
		ORDER BY c.created_at DESC
	`, blogID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.CommentWithAuthor, 0)
	for rows.Next() {
		c := entity.CommentWithAuthor{}
		if err := rows.Scan(&c.ID, &c.BlogID, &c.AuthorID, &c.Content,
			&c.IsDeleted, &c.CreatedAt, &c.UpdatedAt, &c.AuthorName); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CommentRepository) UpdateContent(ctx context.Context, id, content string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE comments
		SET content = $1, updated_at = now()
		WHERE id = $2 AND is_deleted = false
	`, content, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *CommentRepository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE comments
		SET is_deleted = true, updated_at = now()
		WHERE id = $1 AND is_deleted = false
	`, id)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
