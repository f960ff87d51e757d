package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/services"
)

// AchievementHandler serves achievement CRUD, progress and claiming.
type AchievementHandler struct {
	achievementService services.AchievementService
}

// NewAchievementHandler creates a new AchievementHandler.
func NewAchievementHandler(achievementService services.AchievementService) *AchievementHandler {
	return &AchievementHandler{achievementService: achievementService}
}

// CreateAchievement creates an achievement for the authenticated user.
func (h *AchievementHandler) CreateAchievement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req models.CreateAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	achievement, err := h.achievementService.CreateAchievement(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, achievement)
}

// GetAchievements lists the user's achievements with progress.
func (h *AchievementHandler) GetAchievements(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	achievements, err := h.achievementService.GetAchievements(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"achievements": achievements})
}

// GetAchievement returns a single achievement with progress.
func (h *AchievementHandler) GetAchievement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	achievementID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid achievement id"})
		return
	}

	achievement, err := h.achievementService.GetAchievement(c.Request.Context(), userID, achievementID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, achievement)
}

// UpdateAchievement updates an achievement owned by the authenticated user.
func (h *AchievementHandler) UpdateAchievement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	achievementID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid achievement id"})
		return
	}

	var req models.UpdateAchievementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	achievement, err := h.achievementService.UpdateAchievement(c.Request.Context(), userID, achievementID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, achievement)
}

// DeleteAchievement removes an achievement owned by the authenticated user.
func (h *AchievementHandler) DeleteAchievement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	achievementID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid achievement id"})
		return
	}

	if err := h.achievementService.DeleteAchievement(c.Request.Context(), userID, achievementID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "achievement deleted"})
}

// ClaimAchievement redeems an achievement, debiting its target points.
func (h *AchievementHandler) ClaimAchievement(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	achievementID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid achievement id"})
		return
	}

	result, err := h.achievementService.ClaimAchievement(c.Request.Context(), userID, achievementID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
