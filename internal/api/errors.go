package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pav-beep/calorie.app/internal/models"
)

// respondError maps the service failure taxonomy onto HTTP statuses.
// Nothing is retried here; every failure is terminal for this one
// request and the message tells the user what to do next.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrAuthDenied):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access code or email not recognized"})
	case errors.Is(err, models.ErrConnection):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "connection error, please try again"})
	case errors.Is(err, models.ErrParse):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "could not read the analysis result, please retake the photo"})
	case errors.Is(err, models.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found or expired"})
	case errors.Is(err, models.ErrDataFormat):
		log.Printf("[API] Ledger data format error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "a logged entry has an unexpected format"})
	case errors.Is(err, models.ErrStore):
		log.Printf("[API] Store error: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not reach the food log, please try again"})
	default:
		log.Printf("[API] Unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
