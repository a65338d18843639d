package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"bloghub/internal/domain/entity"
	repo "bloghub/internal/domain/repository"
	"bloghub/pkg/helpers"
	"bloghub/pkg/mailer"
)

// AuthService verifies credentials, manages failed-attempt lockout, and
// issues session tokens.
type AuthService struct {
	Users        repo.UserRepository
	Tokens       *helpers.TokenManager
	Queue        *helpers.RabbitPublisher // optional; welcome emails
	Logger       *logrus.Logger
	HashCost     int
	MaxAttempts  int
	LockDuration time.Duration
}

func NewAuthService(users repo.UserRepository, tokens *helpers.TokenManager, queue *helpers.RabbitPublisher, logger *logrus.Logger, hashCost, maxAttempts int, lockDuration time.Duration) *AuthService {
	return &AuthService{
		Users:        users,
		Tokens:       tokens,
		Queue:        queue,
		Logger:       logger,
		HashCost:     hashCost,
		MaxAttempts:  maxAttempts,
		LockDuration: lockDuration,
	}
}

// SanitizedUser is the user shape returned to clients; it never carries the
// password hash or lockout counters.
type SanitizedUser struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

func sanitizeUser(u *entity.User) *SanitizedUser {
	return &SanitizedUser{ID: u.ID, Name: u.Name, Username: u.Username, Email: u.Email}
}

type SignupInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// Signup creates an account and issues a session token. A username or email
// already registered yields ErrConflict; the unique constraints make the
// check-and-create race-free.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*SanitizedUser, string, error) {
	hash, err := helpers.HashPassword(in.Password, s.HashCost)
	if err != nil {
		s.Logger.WithError(err).Error("password hash failed")
		return nil, "", ErrInternal
	}

	u := &entity.User{Name: in.Name, Username: in.Username, Email: in.Email, Password: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, "", ErrConflict
		}
		s.Logger.WithError(err).Error("create user failed")
		return nil, "", ErrInternal
	}
	s.Logger.WithField("user_id", u.ID).Info("user created")

	token, _, err := s.Tokens.Generate(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return nil, "", ErrInternal
	}

	s.publishWelcome(ctx, u)

	return sanitizeUser(u), token, nil
}

// Signin authenticates by username-or-email identifier. Failed attempts are
// counted on the user record; reaching MaxAttempts locks the account for
// LockDuration. An active lock fails before any password comparison.
func (s *AuthService) Signin(ctx context.Context, identifier, password string) (*SanitizedUser, string, error) {
	u, err := s.Users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		s.Logger.WithError(err).Error("user lookup failed")
		return nil, "", ErrInternal
	}

	now := time.Now()
	if u.Locked(now) {
		return nil, "", &AccountLockedError{RetryAfter: u.LockUntil.Sub(now)}
	}

	if !helpers.CompareHashAndPassword(u.Password, password) {
		attempts := u.FailedLoginAttempts + 1
		lockUntil := u.LockUntil
		locked := attempts >= s.MaxAttempts
		if locked {
			t := now.Add(s.LockDuration)
			lockUntil = &t
			s.Logger.WithField("user_id", u.ID).Warn("account locked after repeated failures")
		}
		if err := s.Users.UpdateLockout(ctx, u.ID, attempts, lockUntil); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("persist lockout failed")
			return nil, "", ErrInternal
		}
		// The attempt that trips the threshold already reports the lock.
		if locked {
			return nil, "", &AccountLockedError{RetryAfter: s.LockDuration}
		}
		return nil, "", ErrInvalidPassword
	}

	// Successful login clears prior failures and any expired lock.
	if u.FailedLoginAttempts > 0 || u.LockUntil != nil {
		if err := s.Users.UpdateLockout(ctx, u.ID, 0, nil); err != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("reset lockout failed")
			return nil, "", ErrInternal
		}
	}

	token, _, err := s.Tokens.Generate(u.ID)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return nil, "", ErrInternal
	}
	return sanitizeUser(u), token, nil
}

func (s *AuthService) publishWelcome(ctx context.Context, u *entity.User) {
	if s.Queue == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: "welcome",
		Data:     map[string]any{"AppName": "bloghub", "Name": u.Name, "Username": u.Username},
	}
	if err := s.Queue.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("enqueue welcome email failed")
	}
}
