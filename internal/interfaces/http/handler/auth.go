package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	identityapp "github.com/solarmd/backend/internal/application/identity"
)

// AuthHandler handles staff authentication and client registration
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers the auth endpoints
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/register", h.RegisterClient)
}

// RegisterAdminRoutes registers staff-management endpoints behind auth
func (h *AuthHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/staff", h.CreateStaff)
}

// Login authenticates a staff member and returns an access token
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, identityapp.ErrInvalidCredentials) {
			h.Unauthorized(c, "invalid email or password")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterClient registers a new shop client
func (h *AuthHandler) RegisterClient(c *gin.Context) {
	var req identityapp.RegisterClientRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.RegisterClient(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CreateStaff creates a staff account
func (h *AuthHandler) CreateStaff(c *gin.Context) {
	var req identityapp.CreateStaffRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.CreateStaff(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
