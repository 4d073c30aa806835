package api

import (
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pav-beep/calorie.app/internal/middleware"
	"github.com/pav-beep/calorie.app/internal/models"
	"github.com/pav-beep/calorie.app/internal/service"
)

// maxPhotoBytes bounds the uploaded meal photo size.
const maxPhotoBytes = 10 << 20

// MealHandler handles the photo-analysis and food-log flow: analyze a
// photo into a pending draft, let the user adjust the numbers, commit
// the draft to the ledger, and show today's totals.
type MealHandler struct {
	vision service.VisionService
	drafts service.DraftStore
	ledger *service.LedgerService
	photos *service.PhotoService
}

func NewMealHandler(vision service.VisionService, drafts service.DraftStore, ledger *service.LedgerService, photos *service.PhotoService) *MealHandler {
	return &MealHandler{
		vision: vision,
		drafts: drafts,
		ledger: ledger,
		photos: photos,
	}
}

// RegisterRoutes registers the meal routes. The caller attaches the
// group's auth middleware.
func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.POST("/analyze", h.Analyze)
		meals.GET("/drafts/:id", h.GetDraft)
		meals.PUT("/drafts/:id", h.UpdateDraft)
		meals.POST("/drafts/:id/commit", h.CommitDraft)
		meals.DELETE("/drafts/:id", h.DeleteDraft)
		meals.GET("/today", h.Today)
	}
}

// Analyze accepts a meal photo, sends it to the vision model, parses the
// reply and stores the result as a pending draft for the user to review.
func (h *MealHandler) Analyze(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > maxPhotoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image"})
		return
	}

	contentType := http.DetectContentType(imageData)
	if contentType != "image/jpeg" && contentType != "image/png" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image must be a JPEG or PNG"})
		return
	}

	raw, err := h.vision.AnalyzeMeal(c.Request.Context(), imageData, contentType)
	if err != nil {
		respondError(c, err)
		return
	}

	record, err := service.ParseNutrition(raw)
	if err != nil {
		respondError(c, err)
		return
	}

	draft := &service.PendingDraft{
		Identity: identity,
		Record:   *record,
	}

	// Photo retention is best-effort and never blocks the analysis.
	if h.photos.Enabled() {
		if url, err := h.photos.UploadMealPhoto(c.Request.Context(), imageData, contentType); err != nil {
			log.Printf("[MealHandler] Photo upload failed: %v", err)
		} else {
			draft.PhotoURL = url
		}
	}

	if err := h.drafts.SaveDraft(c.Request.Context(), draft); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"draft": draft})
}

// GetDraft returns a pending draft owned by the current session.
func (h *MealHandler) GetDraft(c *gin.Context) {
	draft, ok := h.ownedDraft(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// UpdateDraft applies the user's adjusted values to a pending draft.
func (h *MealHandler) UpdateDraft(c *gin.Context) {
	draft, ok := h.ownedDraft(c)
	if !ok {
		return
	}

	var req struct {
		FoodName string        `json:"food_name" binding:"required"`
		Calories models.Amount `json:"calories"`
		Protein  models.Amount `json:"protein"`
		Carbs    models.Amount `json:"carbs"`
		Fat      models.Amount `json:"fat"`
		Micros   string        `json:"micros"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft.Record.FoodName = req.FoodName
	draft.Record.Calories = req.Calories
	draft.Record.Protein = req.Protein
	draft.Record.Carbs = req.Carbs
	draft.Record.Fat = req.Fat
	draft.Record.Micros = req.Micros

	if err := h.drafts.UpdateDraft(c.Request.Context(), draft); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// CommitDraft appends the draft to the ledger exactly once and deletes
// the draft. A commit failure leaves the draft in place for retry by the
// user.
func (h *MealHandler) CommitDraft(c *gin.Context) {
	draft, ok := h.ownedDraft(c)
	if !ok {
		return
	}

	entry, err := h.ledger.Append(c.Request.Context(), draft.Identity, &draft.Record)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.drafts.DeleteDraft(c.Request.Context(), draft.ID); err != nil {
		// The entry is already in the ledger; committing again would
		// double-log, so report success and let the draft expire.
		log.Printf("[MealHandler] Failed to delete committed draft %s: %v", draft.ID, err)
	}

	c.JSON(http.StatusCreated, gin.H{"entry": entry})
}

// DeleteDraft discards a pending draft without logging it.
func (h *MealHandler) DeleteDraft(c *gin.Context) {
	draft, ok := h.ownedDraft(c)
	if !ok {
		return
	}
	if err := h.drafts.DeleteDraft(c.Request.Context(), draft.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// Today returns the daily summary for the session identity, recomputed
// from the full log on every call.
func (h *MealHandler) Today(c *gin.Context) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return
	}

	summary, err := h.ledger.TodaySummary(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ownedDraft loads the draft from the path parameter and checks it
// belongs to the current session. Foreign drafts read as not-found.
func (h *MealHandler) ownedDraft(c *gin.Context) (*service.PendingDraft, bool) {
	identity, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
		return nil, false
	}

	draft, err := h.drafts.GetDraft(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if draft.Identity != identity {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft not found or expired"})
		return nil, false
	}
	return draft, true
}
