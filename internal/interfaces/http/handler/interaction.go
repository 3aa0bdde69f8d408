package handler

import (
	"github.com/gin-gonic/gin"
	marketingapp "github.com/solarmd/backend/internal/application/marketing"
	"github.com/solarmd/backend/internal/domain/marketing"
)

// InteractionHandler handles client interaction and request API endpoints
type InteractionHandler struct {
	BaseHandler
	interactionService *marketingapp.InteractionService
}

// NewInteractionHandler creates a new InteractionHandler
func NewInteractionHandler(interactionService *marketingapp.InteractionService) *InteractionHandler {
	return &InteractionHandler{interactionService: interactionService}
}

// RegisterRoutes registers the storefront interaction endpoints
func (h *InteractionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients/:client_id")
	clients.POST("/interactions", h.Record)
	clients.POST("/requests", h.CreateRequest)

	rg.GET("/interactions/:target_type/:target_id/count", h.ViewCount)
}

// RegisterAdminRoutes registers the request back-office endpoints
func (h *InteractionHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	requests := rg.Group("/requests")
	requests.GET("", h.ListUnprocessed)
	requests.POST("/:id/process", h.ProcessRequest)
}

// Record records a client interaction with a catalog or blog target
func (h *InteractionHandler) Record(c *gin.Context) {
	clientID, ok := parseUUIDParam(c, "client_id")
	if !ok {
		return
	}
	var req marketingapp.RecordInteractionRequest
	if !bindJSON(c, &req) {
		return
	}
	interaction, err := h.interactionService.Record(c.Request.Context(), clientID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, interaction)
}

// ViewCount returns the interaction count for a target
func (h *InteractionHandler) ViewCount(c *gin.Context) {
	targetType := marketing.TargetType(c.Param("target_type"))
	if !targetType.Valid() {
		h.BadRequest(c, "unknown target type")
		return
	}
	targetID, ok := parseUUIDParam(c, "target_id")
	if !ok {
		return
	}
	count, err := h.interactionService.ViewCount(c.Request.Context(), targetType, targetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"target_type": targetType, "target_id": targetID, "count": count})
}

// CreateRequest files a client request
func (h *InteractionHandler) CreateRequest(c *gin.Context) {
	clientID, ok := parseUUIDParam(c, "client_id")
	if !ok {
		return
	}
	var req marketingapp.CreateRequestRequest
	if !bindJSON(c, &req) {
		return
	}
	request, err := h.interactionService.CreateRequest(c.Request.Context(), clientID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, request)
}

// ProcessRequest marks a request processed by the authenticated staff member
func (h *InteractionHandler) ProcessRequest(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	request, err := h.interactionService.ProcessRequest(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, request)
}

// ListUnprocessed lists requests awaiting staff action
func (h *InteractionHandler) ListUnprocessed(c *gin.Context) {
	listReq, ok := bindListQuery(c)
	if !ok {
		return
	}
	requests, err := h.interactionService.ListUnprocessed(c.Request.Context(), listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, requests)
}
