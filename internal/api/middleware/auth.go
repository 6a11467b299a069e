package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/example/vendor-ops/internal/auth"
	"github.com/example/vendor-ops/internal/vendor"
	"github.com/gin-gonic/gin"
)

// Context keys set on the gin context
const (
	ClaimsKey   = "claims"
	UserIDKey   = "userID"
	VendorIDKey = "vendorID"
)

// VendorResolver maps an operator to the vendor they work for
type VendorResolver interface {
	VendorID(ctx context.Context, userID string) (string, error)
}

// ExtractToken extracts JWT token from cookie or Authorization header
func ExtractToken(c *gin.Context) string {
	// Try cookie first (for browser)
	if token, err := c.Cookie("access_token"); err == nil && token != "" {
		return token
	}
	// Fall back to Authorization header (for API clients)
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// AuthMiddleware validates JWT tokens and stores the operator claims
func AuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ExtractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// VendorMiddleware resolves the operator's vendor. It must run after AuthMiddleware.
func VendorMiddleware(resolver VendorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, err := resolver.VendorID(c.Request.Context(), GetUserID(c))
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, vendor.ErrUserRequired):
				status = http.StatusUnauthorized
			case errors.Is(err, vendor.ErrNoVendorAccess):
				status = http.StatusForbidden
			}
			c.AbortWithStatusJSON(status, gin.H{"error": vendor.Message(err)})
			return
		}

		c.Set(VendorIDKey, vendorID)
		c.Next()
	}
}

// GetClaims retrieves the operator claims from the gin context
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

func GetVendorID(c *gin.Context) string {
	return c.GetString(VendorIDKey)
}
