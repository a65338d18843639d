package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"bloghub/internal/container"
	handlers "bloghub/internal/interface/http"
	"bloghub/internal/interface/middleware"
)

// AuthModule wires signup/signin routes.
// Both are public and carry per-IP rate limits against credential stuffing.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	signinLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/auth/signup", signupLimiter, m.Handler.Signup)
	rg.POST("/auth/signin", signinLimiter, m.Handler.Signin)
}
