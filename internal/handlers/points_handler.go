package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/services"
)

// PointsHandler serves the point ledger.
type PointsHandler struct {
	pointsService services.PointsService
}

// NewPointsHandler creates a new PointsHandler.
func NewPointsHandler(pointsService services.PointsService) *PointsHandler {
	return &PointsHandler{pointsService: pointsService}
}

// GetHistory returns the user's ledger entries, newest first.
func (h *PointsHandler) GetHistory(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := paginationParams(c)

	entries, err := h.pointsService.History(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"page":    page,
		"limit":   limit,
	})
}

func paginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
