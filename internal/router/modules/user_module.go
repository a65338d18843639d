package modules

import (
	"github.com/gin-gonic/gin"

	handlers "bloghub/internal/interface/http"
)

// UserModule wires the authenticated user's own profile routes.
type UserModule struct {
	Handler *handlers.UserHandler
	Guard   gin.HandlerFunc
}

func NewUserModule(h *handlers.UserHandler, guard gin.HandlerFunc) *UserModule {
	return &UserModule{Handler: h, Guard: guard}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/user-blog")
	auth.Use(m.Guard)
	{
		auth.GET("/profile", m.Handler.GetProfile)
		auth.PATCH("/profile", m.Handler.UpdateProfile)
	}
}
