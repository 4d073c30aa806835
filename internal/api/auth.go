package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pav-beep/calorie.app/internal/middleware"
	"github.com/pav-beep/calorie.app/internal/service"
)

// AuthHandler handles login, logout and session inspection.
type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes registers the public auth routes.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
	}
}

// Login authorizes the identifier and, on success, issues the session
// cookie. Denied and unreachable-store outcomes get different messages.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Identifier string `json:"identifier" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "identifier is required"})
		return
	}

	result := h.auth.Authorize(c.Request.Context(), req.Identifier)
	switch result.Reason {
	case service.ReasonConnectionError:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not reach the access list, please try again"})
		return
	case service.ReasonDenied:
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access code or email not recognized"})
		return
	}

	token, expiresAt, err := h.auth.GenerateToken(result.Identity, result.Guest)
	if err != nil {
		respondError(c, err)
		return
	}

	maxAge := int(service.SessionTTL(result.Guest).Seconds())
	c.SetCookie(middleware.SessionCookieName, token, maxAge, "/", "", false, true)

	c.JSON(http.StatusOK, gin.H{
		"identity":   result.Identity,
		"guest":      result.Guest,
		"reason":     result.Reason,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// Logout deletes the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// Session returns the identity of the current session.
func (h *AuthHandler) Session(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"identity": identity,
		"guest":    c.GetBool("guest"),
	})
}
