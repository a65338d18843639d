package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"bloghub/internal/container"
	handlers "bloghub/internal/interface/http"
	"bloghub/internal/interface/middleware"
)

// CommentModule wires comment routes: public listing per post, protected writes.
type CommentModule struct {
	Handler *handlers.CommentHandler
	Guard   gin.HandlerFunc
}

func NewCommentModule(h *handlers.CommentHandler, guard gin.HandlerFunc) *CommentModule {
	return &CommentModule{Handler: h, Guard: guard}
}

func (m *CommentModule) Register(rg *gin.RouterGroup) {
	rg.GET("/comments/:blogId", m.Handler.ListByBlog)

	auth := rg.Group("/")
	auth.Use(m.Guard)
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUser(), nil))
	{
		auth.POST("/comments/:blogId", m.Handler.Create)
		auth.PATCH("/comments/:id", m.Handler.Update)
		auth.DELETE("/comments/:id", m.Handler.Delete)
	}
}
