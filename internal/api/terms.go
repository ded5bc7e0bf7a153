package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mwhitehouse/airwave/internal/db"
	"github.com/mwhitehouse/airwave/internal/logger"
)

// TermResponse represents a term in API responses
type TermResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Label        string    `json:"label"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	AcademicYear int       `json:"academic_year"`
}

// TermHandler handles term listing requests
type TermHandler struct {
	terms *db.TermRepository
}

// NewTermHandler creates a new term handler
func NewTermHandler(terms *db.TermRepository) *TermHandler {
	return &TermHandler{terms: terms}
}

// List handles GET /api/terms
func (h *TermHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), handlerTimeout)
	defer cancel()

	terms, err := h.terms.List(ctx)
	if err != nil {
		logger.Log.Error().Err(err).Msg("Failed to list terms")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "list_failed",
			Message: "Failed to list terms",
		})
		return
	}

	response := make([]TermResponse, 0, len(terms))
	for _, term := range terms {
		response = append(response, TermResponse{
			ID:           term.ID,
			Name:         term.Name,
			Label:        term.String(),
			StartDate:    term.StartDate,
			EndDate:      term.EndDate,
			AcademicYear: term.AcademicYear(),
		})
	}
	c.JSON(http.StatusOK, response)
}

// SetupTermRoutes registers term routes
func SetupTermRoutes(apiGroup *gin.RouterGroup, handler *TermHandler) {
	apiGroup.GET("/terms", handler.List)
}
