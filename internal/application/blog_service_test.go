package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloghub/internal/domain/entity"
	repo "bloghub/internal/domain/repository"
)

type fakeBlogRepo struct {
	mu     sync.Mutex
	blogs  map[string]*entity.Blog
	likes  map[string]map[string]bool
	nextID int
}

func newFakeBlogRepo() *fakeBlogRepo {
	return &fakeBlogRepo{
		blogs: make(map[string]*entity.Blog),
		likes: make(map[string]map[string]bool),
	}
}

func (f *fakeBlogRepo) Create(_ context.Context, b *entity.Blog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	b.ID = fmt.Sprintf("blog-%d", f.nextID)
	b.CreatedAt = time.Now().Add(time.Duration(f.nextID) * time.Millisecond)
	b.UpdatedAt = b.CreatedAt
	cp := *b
	f.blogs[b.ID] = &cp
	return nil
}

func (f *fakeBlogRepo) withMeta(b *entity.Blog) *entity.BlogWithMeta {
	likes := 0
	for _, liked := range f.likes[b.ID] {
		if liked {
			likes++
		}
	}
	cp := *b
	return &entity.BlogWithMeta{Blog: cp, AuthorName: "author-" + b.AuthorID, LikesCount: likes}
}

func (f *fakeBlogRepo) GetByID(_ context.Context, id string) (*entity.BlogWithMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blogs[id]
	if !ok || b.IsDeleted {
		return nil, repo.ErrNotFound
	}
	return f.withMeta(b), nil
}

func (f *fakeBlogRepo) ListAll(_ context.Context) ([]entity.BlogWithMeta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entity.BlogWithMeta, 0)
	for _, b := range f.blogs {
		if b.IsDeleted {
			continue
		}
		out = append(out, *f.withMeta(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeBlogRepo) Update(_ context.Context, b *entity.Blog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.blogs[b.ID]
	if !ok || existing.IsDeleted {
		return repo.ErrNotFound
	}
	existing.Title = b.Title
	existing.Content = b.Content
	existing.UpdatedAt = time.Now()
	return nil
}

func (f *fakeBlogRepo) SoftDelete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.blogs[id]
	if !ok || b.IsDeleted {
		return repo.ErrNotFound
	}
	b.IsDeleted = true
	return nil
}

func (f *fakeBlogRepo) ToggleLike(_ context.Context, blogID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.likes[blogID] == nil {
		f.likes[blogID] = make(map[string]bool)
	}
	liked := !f.likes[blogID][userID]
	f.likes[blogID][userID] = liked
	return liked, nil
}

var _ repo.BlogRepository = (*fakeBlogRepo)(nil)

type fakeListingCache struct {
	mu            sync.Mutex
	payload       json.RawMessage
	sets          int
	invalidations int
}

func (f *fakeListingCache) Get(_ context.Context) (json.RawMessage, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.payload == nil {
		return nil, false, nil
	}
	return f.payload, true, nil
}

func (f *fakeListingCache) Set(_ context.Context, payload json.RawMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payload = payload
	f.sets++
	return nil
}

func (f *fakeListingCache) Invalidate(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payload = nil
	f.invalidations++
	return nil
}

type fakeMediaStore struct {
	fail    bool
	uploads int
}

func (f *fakeMediaStore) Upload(_ context.Context, ownerID, filename, _ string, _ io.Reader) (string, string, error) {
	if f.fail {
		return "", "", errors.New("upload failed")
	}
	f.uploads++
	id := "covers/" + ownerID + "/" + filename
	return id, "https://cdn.example.com/" + id, nil
}

func newBlogService(blogs *fakeBlogRepo, cache *fakeListingCache, media *fakeMediaStore) *BlogService {
	return NewBlogService(blogs, cache, media, nil, quietLogger())
}

func createBlog(t *testing.T, svc *BlogService, authorID, title string) *BlogResponse {
	t.Helper()
	b, err := svc.Create(context.Background(), authorID, CreateBlogInput{Title: title, Content: "content of " + title}, nil)
	require.NoError(t, err)
	return b
}

func TestCreateWithoutImage(t *testing.T) {
	svc := newBlogService(newFakeBlogRepo(), &fakeListingCache{}, &fakeMediaStore{})

	b := createBlog(t, svc, "u1", "First post")
	assert.Equal(t, "First post", b.Title)
	assert.Equal(t, "u1", b.Author.ID)
	assert.Nil(t, b.CoverImage)
	assert.Zero(t, b.LikesCount)
}

func TestCreateWithImage(t *testing.T) {
	media := &fakeMediaStore{}
	svc := newBlogService(newFakeBlogRepo(), &fakeListingCache{}, media)

	b, err := svc.Create(context.Background(), "u1",
		CreateBlogInput{Title: "With cover", Content: "body"},
		&ImageUpload{Filename: "cover.png", ContentType: "image/png", Reader: strings.NewReader("png bytes")})
	require.NoError(t, err)
	require.NotNil(t, b.CoverImage)
	assert.Equal(t, 1, media.uploads)
	assert.Contains(t, b.CoverImage.URL, "cover.png")
}

func TestCreateUploadFailureAbortsCreate(t *testing.T) {
	blogs := newFakeBlogRepo()
	svc := newBlogService(blogs, &fakeListingCache{}, &fakeMediaStore{fail: true})

	_, err := svc.Create(context.Background(), "u1",
		CreateBlogInput{Title: "Doomed", Content: "body"},
		&ImageUpload{Filename: "cover.png", ContentType: "image/png", Reader: strings.NewReader("png")})
	assert.ErrorIs(t, err, ErrInternal)

	all, err := blogs.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestListAllCachesAndServesVerbatim(t *testing.T) {
	blogs := newFakeBlogRepo()
	cache := &fakeListingCache{}
	svc := newBlogService(blogs, cache, &fakeMediaStore{})
	createBlog(t, svc, "u1", "Post one")

	first, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	var listed []BlogResponse
	require.NoError(t, json.Unmarshal(first, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Post one", listed[0].Title)

	// Mutate the store behind the cache: the cached payload must win.
	_, err = blogs.ToggleLike(context.Background(), listed[0].ID, "u2")
	require.NoError(t, err)

	second, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
	assert.Equal(t, 1, cache.sets)
}

func TestMutationsInvalidateListing(t *testing.T) {
	blogs := newFakeBlogRepo()
	cache := &fakeListingCache{}
	svc := newBlogService(blogs, cache, &fakeMediaStore{})

	ctx := context.Background()
	b := createBlog(t, svc, "u1", "Post")
	assert.Equal(t, 1, cache.invalidations)

	title := "Renamed"
	_, err := svc.Update(ctx, b.ID, "u1", UpdateBlogInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, 2, cache.invalidations)

	_, _, err = svc.ToggleLike(ctx, b.ID, "u2")
	require.NoError(t, err)
	assert.Equal(t, 3, cache.invalidations)

	require.NoError(t, svc.Remove(ctx, b.ID, "u1"))
	assert.Equal(t, 4, cache.invalidations)
}

func TestGetOneMissing(t *testing.T) {
	svc := newBlogService(newFakeBlogRepo(), &fakeListingCache{}, &fakeMediaStore{})
	_, err := svc.GetOne(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePartialOverwrite(t *testing.T) {
	svc := newBlogService(newFakeBlogRepo(), &fakeListingCache{}, &fakeMediaStore{})
	b := createBlog(t, svc, "u1", "Original")

	title := "Changed"
	updated, err := svc.Update(context.Background(), b.ID, "u1", UpdateBlogInput{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Changed", updated.Title)
	assert.Equal(t, b.Content, updated.Content)
}

func TestUpdateByNonOwner(t *testing.T) {
	blogs := newFakeBlogRepo()
	svc := newBlogService(blogs, &fakeListingCache{}, &fakeMediaStore{})
	b := createBlog(t, svc, "u1", "Mine")

	title := "Hijacked"
	_, err := svc.Update(context.Background(), b.ID, "u2", UpdateBlogInput{Title: &title})
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := svc.GetOne(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", got.Title)
}

func TestRemoveByNonOwner(t *testing.T) {
	svc := newBlogService(newFakeBlogRepo(), &fakeListingCache{}, &fakeMediaStore{})
	b := createBlog(t, svc, "u1", "Mine")

	assert.ErrorIs(t, svc.Remove(context.Background(), b.ID, "u2"), ErrForbidden)
}

func TestRemoveHidesPost(t *testing.T) {
	svc := newBlogService(newFakeBlogRepo(), &fakeListingCache{}, &fakeMediaStore{})
	b := createBlog(t, svc, "u1", "Gone soon")

	require.NoError(t, svc.Remove(context.Background(), b.ID, "u1"))

	_, err := svc.GetOne(context.Background(), b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	listing, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	var listed []BlogResponse
	require.NoError(t, json.Unmarshal(listing, &listed))
	assert.Empty(t, listed)
}

func TestToggleLikeRoundTrip(t *testing.T) {
	svc := newBlogService(newFakeBlogRepo(), &fakeListingCache{}, &fakeMediaStore{})
	b := createBlog(t, svc, "u1", "Likeable")

	ctx := context.Background()
	resp, liked, err := svc.ToggleLike(ctx, b.ID, "u2")
	require.NoError(t, err)
	assert.True(t, liked)
	assert.Equal(t, 1, resp.LikesCount)

	resp, liked, err = svc.ToggleLike(ctx, b.ID, "u2")
	require.NoError(t, err)
	assert.False(t, liked)
	assert.Zero(t, resp.LikesCount)
}

func TestToggleLikeDeletedPost(t *testing.T) {
	svc := newBlogService(newFakeBlogRepo(), &fakeListingCache{}, &fakeMediaStore{})
	b := createBlog(t, svc, "u1", "Short lived")
	require.NoError(t, svc.Remove(context.Background(), b.ID, "u1"))

	_, _, err := svc.ToggleLike(context.Background(), b.ID, "u2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchWithoutIndex(t *testing.T) {
	svc := newBlogService(newFakeBlogRepo(), &fakeListingCache{}, &fakeMediaStore{})
	hits, err := svc.Search(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}
