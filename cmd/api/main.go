package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"

	"github.com/kebiasaanku/kebiasaanku-backend/api/routes"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/config"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/handlers"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/repositories"
	mongorepo "github.com/kebiasaanku/kebiasaanku-backend/internal/repositories/mongodb"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/services"
	"github.com/kebiasaanku/kebiasaanku-backend/pkg/jwt"
	"github.com/kebiasaanku/kebiasaanku-backend/pkg/mongodb"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI)
	if err != nil {
		logger.Error("failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			logger.Error("error disconnecting from MongoDB", "error", err)
		}
	}()

	db := mongoClient.Database(cfg.MongoDB.Database)

	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := mongorepo.EnsureIndexes(indexCtx, db); err != nil {
		logger.Error("failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var habitRepo repositories.HabitRepository = mongorepo.NewHabitRepository(db)
	var completionRepo repositories.HabitCompletionRepository = mongorepo.NewHabitCompletionRepository(db)
	var achievementRepo repositories.AchievementRepository = mongorepo.NewAchievementRepository(db)
	var ledgerRepo repositories.PointLedgerRepository = mongorepo.NewPointLedgerRepository(db)
	var rewardRepo repositories.RewardRepository = mongorepo.NewRewardRepository(db)
	var claimRepo repositories.RewardClaimRepository = mongorepo.NewRewardClaimRepository(db)

	tokens := jwt.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	pointsService := services.NewPointsService(userRepo, ledgerRepo, mongoClient)
	habitService := services.NewHabitService(habitRepo, achievementRepo, completionRepo, pointsService, mongoClient)
	achievementService := services.NewAchievementService(achievementRepo, completionRepo, habitRepo, userRepo, pointsService, mongoClient)
	rewardService := services.NewRewardService(rewardRepo, claimRepo, pointsService, mongoClient)
	authService := services.NewAuthService(userRepo, tokens)
	userService := services.NewUserService(userRepo)

	router := routes.SetupRouter(cfg, logger, tokens, routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		User:        handlers.NewUserHandler(userService),
		Points:      handlers.NewPointsHandler(pointsService),
		Habit:       handlers.NewHabitHandler(habitService),
		Achievement: handlers.NewAchievementHandler(achievementService),
		Reward:      handlers.NewRewardHandler(rewardService),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exited")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
