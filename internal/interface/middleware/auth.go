package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	repo "bloghub/internal/domain/repository"
	"bloghub/pkg/helpers"
	"bloghub/pkg/response"
)

const CtxPrincipalKey = "principal"

// Principal is the authenticated caller attached to the request context.
type Principal struct {
	ID          string
	DisplayName string
}

// PrincipalFrom returns the authenticated principal set by Auth.
func PrincipalFrom(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(CtxPrincipalKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}

// Auth validates the bearer token and re-fetches the user, so a deleted or
// locked account is rejected even while its token is otherwise valid. This
// makes the lockout mechanism a server-side session revocation.
func Auth(users repo.UserRepository, tokens *helpers.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}
		claims, err := tokens.Parse(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}

		u, err := users.GetByID(c.Request.Context(), claims.Subject)
		if err != nil || u == nil {
			response.AbortError(c, http.StatusUnauthorized, "account no longer exists", nil)
			return
		}
		if u.Locked(time.Now()) {
			response.AbortError(c, http.StatusUnauthorized, "account is currently locked", nil)
			return
		}

		c.Set(CtxPrincipalKey, Principal{ID: u.ID, DisplayName: u.Username})
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
