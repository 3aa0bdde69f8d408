package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/solarmd/backend/internal/domain/lifecycle"
)

// ListenerHandler exposes the listener registry over the admin API so
// operators can inspect and toggle derived-state maintenance per domain.
type ListenerHandler struct {
	BaseHandler
	registry *lifecycle.Registry
}

// NewListenerHandler creates a new ListenerHandler
func NewListenerHandler(registry *lifecycle.Registry) *ListenerHandler {
	return &ListenerHandler{registry: registry}
}

// RegisterAdminRoutes registers the listener management endpoints
func (h *ListenerHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	listeners := rg.Group("/listeners")
	listeners.GET("", h.StatusAll)
	listeners.GET("/:domain", h.Status)
	listeners.POST("/:domain/enable", h.Enable)
	listeners.POST("/:domain/disable", h.Disable)
}

// StatusAll reports the registration state of every listener group
func (h *ListenerHandler) StatusAll(c *gin.Context) {
	h.Success(c, h.registry.StatusAll())
}

// Status reports the registration state of one listener group
func (h *ListenerHandler) Status(c *gin.Context) {
	state, err := h.registry.Status(c.Param("domain"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"domain": c.Param("domain"), "state": state})
}

// Enable attaches a domain's listener group to the dispatcher
func (h *ListenerHandler) Enable(c *gin.Context) {
	result, err := h.registry.Enable(c.Param("domain"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Disable detaches a domain's listener group from the dispatcher
func (h *ListenerHandler) Disable(c *gin.Context) {
	result, err := h.registry.Disable(c.Param("domain"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
