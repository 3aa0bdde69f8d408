package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/solarmd/backend/internal/domain/identity"
	"github.com/solarmd/backend/internal/domain/shared"
	"github.com/solarmd/backend/internal/infrastructure/auth"
	"github.com/solarmd/backend/internal/interfaces/http/dto"
)

// Gin context keys for the staff session
const (
	ClaimsKey     = "staff_claims"
	StaffIDKey    = "staff_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// StaffAuth validates the bearer token and stamps the acting staff member
// onto the request context, so audit hooks downstream can attribute writes.
func StaffAuth(tokens *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" || !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, "missing or malformed authorization header")
			return
		}

		claims, err := tokens.Validate(strings.TrimPrefix(header, BearerPrefix))
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, "token has expired")
				return
			}
			abortUnauthorized(c, "invalid token")
			return
		}

		staffID, err := claims.StaffUUID()
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(StaffIDKey, staffID.String())
		c.Request = c.Request.WithContext(shared.WithActor(c.Request.Context(), staffID))
		c.Next()
	}
}

// RequireRole rejects staff sessions below the given roles
func RequireRole(roles ...identity.StaffRole) gin.HandlerFunc {
	allowed := make(map[identity.StaffRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortUnauthorized(c, "authentication required")
			return
		}
		if !allowed[claims.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(dto.ErrCodeForbidden, "insufficient role"))
			return
		}
		c.Next()
	}
}

// GetClaims returns the validated claims of the current session, or nil
func GetClaims(c *gin.Context) *auth.Claims {
	value, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message))
}
