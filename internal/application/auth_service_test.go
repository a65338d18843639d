package application

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"bloghub/internal/domain/entity"
	repo "bloghub/internal/domain/repository"
	"bloghub/pkg/helpers"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*entity.User
	nextID int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	f.nextID++
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByIdentifier(_ context.Context, identifier string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == identifier || u.Email == identifier {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	for id, existing := range f.users {
		if id == u.ID {
			continue
		}
		if existing.Username == u.Username || existing.Email == u.Email {
			return repo.ErrDuplicate
		}
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f *fakeUserRepo) UpdateLockout(_ context.Context, id string, attempts int, lockUntil *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.FailedLoginAttempts = attempts
	u.LockUntil = lockUntil
	return nil
}

var _ repo.UserRepository = (*fakeUserRepo)(nil)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newAuthService(users repo.UserRepository) *AuthService {
	tokens := helpers.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(users, tokens, nil, quietLogger(), bcrypt.MinCost, 3, 15*time.Minute)
}

func signupUser(t *testing.T, svc *AuthService) *SanitizedUser {
	t.Helper()
	u, _, err := svc.Signup(context.Background(), SignupInput{
		Name:     "Alice",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)
	return u
}

func TestSignupIssuesToken(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)

	u, token, err := svc.Signup(context.Background(), SignupInput{
		Name:     "Alice",
		Username: "alice",
		Email:    "alice@example.com",
		Password: "sup3rsecret",
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "alice", u.Username)
	assert.NotEmpty(t, u.ID)

	claims, err := svc.Tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
}

func TestSignupStoresHashedPassword(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	u := signupUser(t, svc)

	stored, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "sup3rsecret", stored.Password)
	assert.True(t, helpers.CompareHashAndPassword(stored.Password, "sup3rsecret"))
}

func TestSignupDuplicateUsername(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	signupUser(t, svc)

	_, _, err := svc.Signup(context.Background(), SignupInput{
		Name:     "Other",
		Username: "alice",
		Email:    "other@example.com",
		Password: "password1",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestSigninByUsernameAndEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	signupUser(t, svc)

	for _, identifier := range []string{"alice", "alice@example.com"} {
		u, token, err := svc.Signin(context.Background(), identifier, "sup3rsecret")
		require.NoError(t, err, identifier)
		assert.Equal(t, "alice", u.Username)
		assert.NotEmpty(t, token)
	}
}

func TestSigninUnknownIdentifier(t *testing.T) {
	svc := newAuthService(newFakeUserRepo())
	_, _, err := svc.Signin(context.Background(), "nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSigninWrongPasswordCountsAttempts(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	u := signupUser(t, svc)

	for i := 0; i < svc.MaxAttempts-1; i++ {
		_, _, err := svc.Signin(context.Background(), "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	}
	stored, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, svc.MaxAttempts-1, stored.FailedLoginAttempts)
	assert.Nil(t, stored.LockUntil)

	// The final failure trips the lock and already reports it.
	_, _, err = svc.Signin(context.Background(), "alice", "wrong")
	var locked *AccountLockedError
	require.ErrorAs(t, err, &locked)

	stored, err = users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LockUntil)
	assert.True(t, stored.LockUntil.After(time.Now()))
}

func TestSigninLockedRejectsCorrectPassword(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	u := signupUser(t, svc)

	until := time.Now().Add(10 * time.Minute)
	require.NoError(t, users.UpdateLockout(context.Background(), u.ID, svc.MaxAttempts, &until))

	_, _, err := svc.Signin(context.Background(), "alice", "sup3rsecret")
	var locked *AccountLockedError
	require.ErrorAs(t, err, &locked)
	assert.Greater(t, locked.RetryAfter, time.Duration(0))

	// A locked signin must not touch the counter.
	stored, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, svc.MaxAttempts, stored.FailedLoginAttempts)
}

func TestSigninAfterLockExpires(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	u := signupUser(t, svc)

	past := time.Now().Add(-time.Minute)
	require.NoError(t, users.UpdateLockout(context.Background(), u.ID, svc.MaxAttempts, &past))

	_, token, err := svc.Signin(context.Background(), "alice", "sup3rsecret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	stored, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.FailedLoginAttempts)
	assert.Nil(t, stored.LockUntil)
}

func TestSigninSuccessResetsCounters(t *testing.T) {
	users := newFakeUserRepo()
	svc := newAuthService(users)
	u := signupUser(t, svc)

	_, _, err := svc.Signin(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, _, err = svc.Signin(context.Background(), "alice", "sup3rsecret")
	require.NoError(t, err)

	stored, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.FailedLoginAttempts)
}
