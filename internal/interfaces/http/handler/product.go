package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/solarmd/backend/internal/application/catalog"
)

// ProductHandler handles product, gallery and price API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	imageService   *catalogapp.ProductImageService
	priceService   *catalogapp.PriceService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(
	productService *catalogapp.ProductService,
	imageService *catalogapp.ProductImageService,
	priceService *catalogapp.PriceService,
) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		imageService:   imageService,
		priceService:   priceService,
	}
}

// RegisterRoutes registers the public product endpoints
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("/:id", h.GetByID)
	products.GET("/:id/images", h.ListImages)
	products.GET("/:id/prices", h.ListPrices)

	rg.GET("/categories/:id/products", h.ListByCategory)
}

// RegisterAdminRoutes registers the product management endpoints
func (h *ProductHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.POST("", h.Create)
	products.PUT("/:id", h.Update)
	products.DELETE("/:id", h.Delete)

	products.POST("/:id/images", h.AddImage)
	products.POST("/:id/prices", h.SetPrice)
	products.GET("/:id/prices/history", h.PriceHistory)

	images := rg.Group("/images")
	images.PUT("/:id/primary", h.SetPrimaryImage)
	images.DELETE("/:id", h.DeleteImage)
}

// GetByID returns one product
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ListByCategory lists products in a category
func (h *ProductHandler) ListByCategory(c *gin.Context) {
	categoryID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	listReq, ok := bindListQuery(c)
	if !ok {
		return
	}
	products, err := h.productService.ListByCategory(c.Request.Context(), categoryID, listReq.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// Create creates a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update updates a product
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}
	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete deletes a product
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListImages lists a product's gallery
func (h *ProductHandler) ListImages(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	images, err := h.imageService.List(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, images)
}

// AddImage attaches an image to a product
func (h *ProductHandler) AddImage(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.AddImageRequest
	if !bindJSON(c, &req) {
		return
	}
	image, err := h.imageService.Add(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, image)
}

// SetPrimaryImage makes one image the product's representative image
func (h *ProductHandler) SetPrimaryImage(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	image, err := h.imageService.SetPrimary(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, image)
}

// DeleteImage removes an image from a product's gallery
func (h *ProductHandler) DeleteImage(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.imageService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListPrices lists a product's tier prices
func (h *ProductHandler) ListPrices(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	prices, err := h.priceService.ListByProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, prices)
}

// SetPrice creates or updates a tier price
func (h *ProductHandler) SetPrice(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req catalogapp.SetPriceRequest
	if !bindJSON(c, &req) {
		return
	}
	price, err := h.priceService.Set(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, price)
}

// PriceHistory lists the audit trail of a product's price changes
func (h *ProductHandler) PriceHistory(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	rows, err := h.priceService.History(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
