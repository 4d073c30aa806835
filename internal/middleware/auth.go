package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pav-beep/calorie.app/internal/models"
)

// SessionCookieName is the cookie the session token lives in.
const SessionCookieName = "calorie_session"

// TokenValidator is an interface for validating session tokens.
type TokenValidator interface {
	ValidateToken(token string) (*models.SessionClaims, error)
}

// AuthMiddleware creates a middleware that resolves the session identity
// from the session cookie or a Bearer header and stores it in the
// request context.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired or invalid"})
			c.Abort()
			return
		}

		c.Set("identity", claims.Identity)
		c.Set("guest", claims.Guest)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

// Identity returns the authenticated identity stored by AuthMiddleware.
func Identity(c *gin.Context) (string, bool) {
	v, exists := c.Get("identity")
	if !exists {
		return "", false
	}
	identity, ok := v.(string)
	return identity, ok && identity != ""
}
