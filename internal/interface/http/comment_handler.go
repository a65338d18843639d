package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"bloghub/internal/application"
	"bloghub/internal/interface/middleware"
	"bloghub/pkg/response"
	"bloghub/pkg/validation"
)

type CommentHandler struct {
	Svc    *application.CommentService
	Logger *logrus.Logger
}

func NewCommentHandler(svc *application.CommentService, logger *logrus.Logger) *CommentHandler {
	return &CommentHandler{Svc: svc, Logger: logger}
}

type commentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

// ListByBlog GET /comments/:blogId
func (h *CommentHandler) ListByBlog(c *gin.Context) {
	comments, err := h.Svc.ListByBlog(c.Request.Context(), c.Param("blogId"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, comments, "comments", nil)
}

// Create POST /comments/:blogId
func (h *CommentHandler) Create(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	comment, err := h.Svc.Create(c.Request.Context(), p.ID, c.Param("blogId"), req.Content)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, comment, "comment added", nil)
}

// Update PATCH /comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	if err := h.Svc.Update(c.Request.Context(), c.Param("id"), p.ID, req.Content); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "comment updated", nil)
}

// Delete DELETE /comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	if err := h.Svc.Remove(c.Request.Context(), c.Param("id"), p.ID); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "comment deleted successfully", nil)
}
