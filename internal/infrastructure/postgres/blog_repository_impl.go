package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bloghub/internal/domain/entity"
	"bloghub/internal/domain/repository"
)

type BlogRepository struct {
	pool *pgxpool.Pool
}

func NewBlogRepository(pool *pgxpool.Pool) *BlogRepository {
	return &BlogRepository{pool: pool}
}

func (r *BlogRepository) Create(ctx context.Context, b *entity.Blog) error {
	var storageID, url *string
	if b.CoverImage != nil {
		storageID = &b.CoverImage.StorageID
		url = &b.CoverImage.URL
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO blogs (title, content, author_id, cover_storage_id, cover_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`, b.Title, b.Content, b.AuthorID, storageID, url)

	if err := row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return mapError(err)
	}
	return nil
}

const blogMetaQuery = `
	SELECT b.id, b.title, b.content, b.author_id, b.cover_storage_id, b.cover_url,
	       b.is_deleted, b.created_at, b.updated_at,
	       u.username,
	       (SELECT count(*) FROM blog_likes l WHERE l.blog_id = b.id),
	       (SELECT count(*) FROM comments c WHERE c.blog_id = b.id AND c.is_deleted = false)
	FROM blogs b
	JOIN users u ON u.id = b.author_id`

func scanBlogMeta(row pgx.Row) (*entity.BlogWithMeta, error) {
	b := &entity.BlogWithMeta{}
	var storageID, url *string
	if err := row.Scan(&b.ID, &b.Title, &b.Content, &b.AuthorID, &storageID, &url,
		&b.IsDeleted, &b.CreatedAt, &b.UpdatedAt,
		&b.AuthorName, &b.LikesCount, &b.CommentsCount); err != nil {
		return nil, mapError(err)
	}
	if storageID != nil && url != nil {
		b.CoverImage = &entity.CoverImage{StorageID: *storageID, URL: *url}
	}
	return b, nil
}

func (r *BlogRepository) GetByID(ctx context.Context, id string) (*entity.BlogWithMeta, error) {
	return scanBlogMeta(r.pool.QueryRow(ctx, blogMetaQuery+`
		WHERE b.id = $1 AND b.is_deleted = false
	`, id))
}

func (r *BlogRepository) ListAll(ctx context.Context) ([]entity.BlogWithMeta, error) {
	rows, err := r.pool.Query(ctx, blogMetaQuery+`
		WHERE b.is_deleted = false
		ORDER BY b.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.BlogWithMeta, 0)
	for rows.Next() {
		b, err := scanBlogMeta(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *BlogRepository) Update(ctx context.Context, b *entity.Blog) error {
	b.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE blogs
		SET title = $1, content = $2, updated_at = $3
		WHERE id = $4 AND is_deleted = false
	`, b.Title, b.Content, b.UpdatedAt, b.ID)
	if err != nil {
		return mapError(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BlogRepository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE blogs
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

// ToggleLike relies on the blog_likes primary key for atomicity: the insert
// is add-if-absent, and when it affects no row the like already existed and
// is removed instead. No read-modify-write on a loaded like set.
func (r *BlogRepository) ToggleLike(ctx context.Context, blogID, userID string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		INSERT INTO blog_likes (blog_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (blog_id, user_id) DO NOTHING
	`, blogID, userID)
	if err != nil {
		return false, mapError(err)
	}
	if res.RowsAffected() > 0 {
		return true, nil
	}
	_, err = r.pool.Exec(ctx, `
		DELETE FROM blog_likes
		WHERE blog_id = $1 AND user_id = $2
	`, blogID, userID)
	if err != nil {
		return false, mapError(err)
	}
	return false, nil
}

var _ repository.BlogRepository = (*BlogRepository)(nil)
