package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"bloghub/internal/container"
	handlers "bloghub/internal/interface/http"
	"bloghub/internal/interface/middleware"
)

// BlogModule wires blog routes.
// Listing, search, and single reads are public; writes require a bearer token.
type BlogModule struct {
	Handler *handlers.BlogHandler
	Guard   gin.HandlerFunc
}

func NewBlogModule(h *handlers.BlogHandler, guard gin.HandlerFunc) *BlogModule {
	return &BlogModule{Handler: h, Guard: guard}
}

func (m *BlogModule) Register(rg *gin.RouterGroup) {
	rg.GET("/blogs", m.Handler.List)
	rg.GET("/blogs/search", m.Handler.Search)
	rg.GET("/blogs/:id", m.Handler.Get)

	auth := rg.Group("/")
	auth.Use(m.Guard)
	auth.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUser(), nil))
	{
		auth.POST("/blogs", m.Handler.Create)
		auth.PATCH("/blogs/:id", m.Handler.Update)
		auth.DELETE("/blogs/:id", m.Handler.Delete)
		auth.PATCH("/blogs/:id/like", m.Handler.ToggleLike)
	}
}
