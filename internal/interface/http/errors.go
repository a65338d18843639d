package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"bloghub/internal/application"
	"bloghub/pkg/response"
)

// writeServiceError maps domain errors to their HTTP status. Anything
// unrecognized becomes a generic 500 with no internal detail.
func writeServiceError(c *gin.Context, err error) {
	var locked *application.AccountLockedError
	switch {
	case errors.As(err, &locked):
		response.Error[any](c, http.StatusLocked, "account is temporarily locked", map[string]any{
			"retry_after_seconds": int(locked.RetryAfter.Seconds() + 0.5),
		})
	case errors.Is(err, application.ErrNotFound):
		response.Error[any](c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, application.ErrForbidden):
		response.Error[any](c, http.StatusForbidden, "you are not allowed to do that", nil)
	case errors.Is(err, application.ErrConflict):
		response.Error[any](c, http.StatusConflict, "already exists", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, application.ErrInvalidPassword):
		response.Error[any](c, http.StatusUnauthorized, "incorrect password", nil)
	case errors.Is(err, application.ErrUnauthorized):
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
	default:
		response.Error[any](c, http.StatusInternalServerError, "something went wrong", nil)
	}
}
