package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"bloghub/internal/application"
	"bloghub/internal/interface/middleware"
	"bloghub/pkg/response"
	"bloghub/pkg/validation"
)

type BlogHandler struct {
	Svc    *application.BlogService
	Logger *logrus.Logger
}

func NewBlogHandler(svc *application.BlogService, logger *logrus.Logger) *BlogHandler {
	return &BlogHandler{Svc: svc, Logger: logger}
}

type createBlogRequest struct {
	Title   string `form:"title" binding:"required,max=200"`
	Content string `form:"content" binding:"required"`
}

type updateBlogRequest struct {
	Title   *string `json:"title" binding:"omitempty,max=200"`
	Content *string `json:"content"`
}

// List GET /blogs
func (h *BlogHandler) List(c *gin.Context) {
	payload, err := h.Svc.ListAll(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, payload, "blogs", nil)
}

// Get GET /blogs/:id
func (h *BlogHandler) Get(c *gin.Context) {
	blog, err := h.Svc.GetOne(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, blog, "blog", nil)
}

// Create POST /blogs (multipart, optional "file" field)
func (h *BlogHandler) Create(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req createBlogRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	var image *application.ImageUpload
	if fh, err := c.FormFile("file"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			response.Error[any](c, http.StatusBadRequest, "unreadable file", nil)
			return
		}
		defer func() { _ = f.Close() }()
		image = &application.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Reader:      f,
		}
	}

	blog, err := h.Svc.Create(c.Request.Context(), p.ID, application.CreateBlogInput{
		Title:   req.Title,
		Content: req.Content,
	}, image)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, blog, "blog created successfully", nil)
}

// Update PATCH /blogs/:id
func (h *BlogHandler) Update(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req updateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	blog, err := h.Svc.Update(c.Request.Context(), c.Param("id"), p.ID, application.UpdateBlogInput{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, blog, "blog updated successfully", nil)
}

// Delete DELETE /blogs/:id (soft delete)
func (h *BlogHandler) Delete(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	if err := h.Svc.Remove(c.Request.Context(), c.Param("id"), p.ID); err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "blog deleted successfully", nil)
}

// ToggleLike PATCH /blogs/:id/like
func (h *BlogHandler) ToggleLike(c *gin.Context) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	blog, liked, err := h.Svc.ToggleLike(c.Request.Context(), c.Param("id"), p.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	msg := "like removed"
	if liked {
		msg = "blog liked"
	}
	response.Success(c, http.StatusOK, blog, msg, map[string]any{"liked": liked})
}

// Search GET /blogs/search?q=
func (h *BlogHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "missing query", map[string]string{"q": "is required"})
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}
