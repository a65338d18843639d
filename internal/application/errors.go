package application

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors surfaced to handlers. Infrastructure failures are logged and
// wrapped into ErrInternal so no internal detail reaches the client.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("incorrect password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInternal           = errors.New("internal error")
)

// AccountLockedError reports the remaining lockout window so the client
// knows when to retry. Distinct from ErrUnauthorized.
type AccountLockedError struct {
	RetryAfter time.Duration
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account is locked, try again in %d seconds", int(e.RetryAfter.Seconds()+0.5))
}
