package handler

import (
	"github.com/gin-gonic/gin"
	saleapp "github.com/solarmd/backend/internal/application/sale"
	"github.com/solarmd/backend/internal/domain/catalog"
)

// OrderHandler handles cart and order API endpoints. Storefront endpoints
// address the client by path parameter; the shop has no client sessions.
type OrderHandler struct {
	BaseHandler
	orderService *saleapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *saleapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes registers the storefront cart and order endpoints
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients/:client_id")
	clients.GET("/cart", h.GetCart)
	clients.POST("/cart/items", h.AddToCart)
	clients.DELETE("/cart/items/:product_id", h.RemoveFromCart)
	clients.POST("/cart/checkout", h.Checkout)
	clients.GET("/orders", h.ListByClient)

	rg.GET("/orders/:number", h.GetByNumber)
}

// RegisterAdminRoutes registers the fulfilment endpoints
func (h *OrderHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.POST("/:id/transition", h.Transition)
	orders.GET("/:id/history", h.StatusHistory)
}

// checkoutRequest is the payload for converting a cart into an order
type checkoutRequest struct {
	Comment string `json:"comment" binding:"max=2000"`
}

// GetCart returns the client's open cart
func (h *OrderHandler) GetCart(c *gin.Context) {
	clientID, ok := parseUUIDParam(c, "client_id")
	if !ok {
		return
	}
	cart, err := h.orderService.GetCart(c.Request.Context(), clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddToCart adds a product line to the client's cart, priced at the tier
// given in the price_tier query parameter (default: user)
func (h *OrderHandler) AddToCart(c *gin.Context) {
	clientID, ok := parseUUIDParam(c, "client_id")
	if !ok {
		return
	}
	var req saleapp.AddToCartRequest
	if !bindJSON(c, &req) {
		return
	}

	tier := catalog.PriceType(c.DefaultQuery("price_tier", string(catalog.PriceTypeUser)))
	if !tier.Valid() {
		h.BadRequest(c, "unknown price tier")
		return
	}

	cart, err := h.orderService.AddToCart(c.Request.Context(), clientID, tier, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveFromCart drops a product line from the client's cart
func (h *OrderHandler) RemoveFromCart(c *gin.Context) {
	clientID, ok := parseUUIDParam(c, "client_id")
	if !ok {
		return
	}
	productID, ok := parseUUIDParam(c, "product_id")
	if !ok {
		return
	}
	cart, err := h.orderService.RemoveFromCart(c.Request.Context(), clientID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Checkout converts the client's cart into a pending order
func (h *OrderHandler) Checkout(c *gin.Context) {
	clientID, ok := parseUUIDParam(c, "client_id")
	if !ok {
		return
	}
	var req checkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.Checkout(c.Request.Context(), clientID, req.Comment)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// ListByClient lists a client's orders
func (h *OrderHandler) ListByClient(c *gin.Context) {
	clientID, ok := parseUUIDParam(c, "client_id")
	if !ok {
		return
	}
	listReq, ok := bindListQuery(c)
	if !ok {
		return
	}
	orders, err := h.orderService.ListByClient(c.Request.Context(), clientID, listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// GetByNumber returns an order by its public number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	order, err := h.orderService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Transition moves an order along the fulfilment state machine
func (h *OrderHandler) Transition(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req saleapp.TransitionRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orderService.Transition(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// StatusHistory lists an order's audited transitions
func (h *OrderHandler) StatusHistory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	rows, err := h.orderService.StatusHistory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
