package routes

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/config"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/handlers"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/middleware"
	"github.com/kebiasaanku/kebiasaanku-backend/pkg/jwt"
)

// Handlers bundles the constructed handlers for router setup.
type Handlers struct {
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Points      *handlers.PointsHandler
	Habit       *handlers.HabitHandler
	Achievement *handlers.AchievementHandler
	Reward      *handlers.RewardHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, logger *slog.Logger, tokens *jwt.TokenService, h Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(logger))

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status": "ok",
			})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}
	}

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(tokens))
	{
		protected.GET("/users/me", h.User.GetMe)

		points := protected.Group("/points")
		{
			points.GET("/history", h.Points.GetHistory)
		}

		habits := protected.Group("/habits")
		{
			habits.GET("", h.Habit.GetHabits)
			habits.POST("", h.Habit.CreateHabit)
			habits.PUT("/:id", h.Habit.UpdateHabit)
			habits.DELETE("/:id", h.Habit.DeleteHabit)
			habits.POST("/:id/complete", h.Habit.CompleteHabit)
		}

		achievements := protected.Group("/achievements")
		{
			achievements.GET("", h.Achievement.GetAchievements)
			achievements.GET("/:id", h.Achievement.GetAchievement)
			achievements.POST("", h.Achievement.CreateAchievement)
			achievements.PUT("/:id", h.Achievement.UpdateAchievement)
			achievements.DELETE("/:id", h.Achievement.DeleteAchievement)
			achievements.POST("/:id/claim", h.Achievement.ClaimAchievement)
		}

		rewards := protected.Group("/rewards")
		{
			rewards.GET("", h.Reward.GetRewards)
			rewards.POST("", h.Reward.CreateReward)
			rewards.PUT("/:id", h.Reward.UpdateReward)
			rewards.DELETE("/:id", h.Reward.DeleteReward)
			rewards.POST("/:id/claim", h.Reward.ClaimReward)
			rewards.GET("/claims", h.Reward.GetClaims)
		}
	}

	return router
}
