package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	blogapp "github.com/solarmd/backend/internal/application/blog"
	"github.com/solarmd/backend/internal/interfaces/http/middleware"
)

// PostHandler handles blog post API endpoints
type PostHandler struct {
	BaseHandler
	postService *blogapp.PostService
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postService *blogapp.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// RegisterRoutes registers the public post endpoints
func (h *PostHandler) RegisterRoutes(rg *gin.RouterGroup) {
	posts := rg.Group("/posts")
	posts.GET("", h.ListPublished)
	posts.GET("/featured", h.ListFeatured)
	posts.GET("/:slug", h.GetBySlug)
}

// RegisterAdminRoutes registers the post management endpoints
func (h *PostHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	posts := rg.Group("/posts")
	posts.POST("", h.Create)
	posts.PUT("/:id", h.Update)
	posts.DELETE("/:id", h.Delete)
	posts.POST("/:id/publish", h.Publish)
	posts.POST("/:id/unpublish", h.Unpublish)
	posts.GET("/:id/history", h.EditHistory)
	posts.POST("/:id/images", h.AttachImage)

	rg.DELETE("/post-images/:id", h.RemoveImage)
}

// ListPublished lists published posts, newest first
func (h *PostHandler) ListPublished(c *gin.Context) {
	listReq, ok := bindListQuery(c)
	if !ok {
		return
	}
	posts, err := h.postService.ListPublished(c.Request.Context(), listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, posts)
}

// ListFeatured lists featured published posts
func (h *PostHandler) ListFeatured(c *gin.Context) {
	posts, err := h.postService.ListFeatured(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, posts)
}

// GetBySlug returns one post and records the view
func (h *PostHandler) GetBySlug(c *gin.Context) {
	post, err := h.postService.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// Create creates a post authored by the acting staff member
func (h *PostHandler) Create(c *gin.Context) {
	authorID, ok := actingStaff(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	var req blogapp.CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.postService.Create(c.Request.Context(), authorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, post)
}

// Update edits a post
func (h *PostHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req blogapp.UpdatePostRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.postService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// Publish makes a post visible
func (h *PostHandler) Publish(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	post, err := h.postService.Publish(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// Unpublish hides a post
func (h *PostHandler) Unpublish(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	post, err := h.postService.Unpublish(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// EditHistory lists archived revisions of a post
func (h *PostHandler) EditHistory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	rows, err := h.postService.EditHistory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// AttachImage adds an image to a post
func (h *PostHandler) AttachImage(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req blogapp.AttachImageRequest
	if !bindJSON(c, &req) {
		return
	}
	image, err := h.postService.AttachImage(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, image)
}

// RemoveImage deletes a post image
func (h *PostHandler) RemoveImage(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.postService.RemoveImage(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete deletes a post
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.postService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// actingStaff extracts the acting staff ID stamped by the auth middleware
func actingStaff(c *gin.Context) (uuid.UUID, bool) {
	value := c.GetString(middleware.StaffIDKey)
	if value == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
