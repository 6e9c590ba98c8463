package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ArowuTest/billstack-storefront/internal/config"
	"github.com/ArowuTest/billstack-storefront/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/exp/slog"
)

// JWTAuthMiddleware creates a gin middleware for JWT authentication.
// The token must have been issued to the requesting client id.
func JWTAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		const BearerSchema = "Bearer "
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}
		if !strings.HasPrefix(authHeader, BearerSchema) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header must start with Bearer "})
			return
		}

		claims, err := utils.ValidateJWT(authHeader[len(BearerSchema):], cfg)
		if err != nil {
			slog.Warn("Token validation failed", "requestId", c.GetString(RequestIDKey), "error", err)
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			return
		}
		if claims.ClientID != c.GetString(ClientIDKey) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token was issued to another client"})
			return
		}

		c.Set(UserEmailKey, claims.Subject)
		c.Next()
	}
}
