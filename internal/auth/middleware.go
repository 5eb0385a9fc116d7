package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys populated by AuthMiddleware for downstream handlers.
const (
	ctxUserID     = "user_id"
	ctxUserEmail  = "user_email"
	ctxUserRole   = "user_role"
	ctxUserStatus = "user_status"
)

// activeStatus mirrors user.StatusActive. Tokens are only minted after OTP
// activation, so a non-active status claim means the token predates a
// deactivation or was forged.
const activeStatus = "active"

// bearerToken pulls the token out of the Authorization header.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || strings.TrimSpace(scheme) != "Bearer" {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}

func AuthMiddleware(accessTokenSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			return
		}

		claims, err := ValidateToken(token, accessTokenSecret)
		if err != nil {
			message := "Invalid or malformed token"
			if errors.Is(err, ErrTokenExpired) {
				message = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
			return
		}

		if claims.TokenType != "access" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}

		if claims.Status != activeStatus {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is not active"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxUserRole, claims.Role)
		c.Set(ctxUserStatus, claims.Status)

		c.Next()
	}
}

func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxUserRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User role not found"})
			return
		}

		if roleStr, ok := role.(string); !ok || roleStr != requiredRole {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}

		c.Next()
	}
}

func GetUserID(c *gin.Context) (int, bool) {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(int)
	if !ok {
		return 0, false
	}

	return id, true
}
