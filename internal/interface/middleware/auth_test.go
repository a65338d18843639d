package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bloghub/internal/domain/entity"
	repo "bloghub/internal/domain/repository"
	"bloghub/pkg/helpers"
)

type stubUserRepo struct {
	users map[string]*entity.User
}

func (s *stubUserRepo) Create(context.Context, *entity.User) error { return nil }

func (s *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) GetByIdentifier(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}

func (s *stubUserRepo) Update(context.Context, *entity.User) error { return nil }

func (s *stubUserRepo) UpdateLockout(context.Context, string, int, *time.Time) error { return nil }

var _ repo.UserRepository = (*stubUserRepo)(nil)

func authTestRouter(users repo.UserRepository, tokens *helpers.TokenManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Auth(users, tokens), func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "principal missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": p.ID, "name": p.DisplayName})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMissingToken(t *testing.T) {
	tokens := helpers.NewTokenManager("secret", time.Hour)
	r := authTestRouter(&stubUserRepo{users: map[string]*entity.User{}}, tokens)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Basic abc").Code)
}

func TestAuthInvalidToken(t *testing.T) {
	tokens := helpers.NewTokenManager("secret", time.Hour)
	r := authTestRouter(&stubUserRepo{users: map[string]*entity.User{}}, tokens)

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Bearer garbage").Code)

	other, _, err := helpers.NewTokenManager("other-secret", time.Hour).Generate("user-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Bearer "+other).Code)
}

func TestAuthDeletedAccount(t *testing.T) {
	tokens := helpers.NewTokenManager("secret", time.Hour)
	r := authTestRouter(&stubUserRepo{users: map[string]*entity.User{}}, tokens)

	token, _, err := tokens.Generate("user-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Bearer "+token).Code)
}

func TestAuthLockedAccount(t *testing.T) {
	tokens := helpers.NewTokenManager("secret", time.Hour)
	until := time.Now().Add(10 * time.Minute)
	users := &stubUserRepo{users: map[string]*entity.User{
		"user-1": {ID: "user-1", Username: "alice", LockUntil: &until},
	}}
	r := authTestRouter(users, tokens)

	token, _, err := tokens.Generate("user-1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "Bearer "+token).Code)
}

func TestAuthValidToken(t *testing.T) {
	tokens := helpers.NewTokenManager("secret", time.Hour)
	users := &stubUserRepo{users: map[string]*entity.User{
		"user-1": {ID: "user-1", Username: "alice"},
	}}
	r := authTestRouter(users, tokens)

	token, _, err := tokens.Generate("user-1")
	require.NoError(t, err)

	w := doRequest(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")

	// Expired lock no longer blocks.
	past := time.Now().Add(-time.Minute)
	users.users["user-1"].LockUntil = &past
	assert.Equal(t, http.StatusOK, doRequest(r, "Bearer "+token).Code)
}
