package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/config"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	mongorepo "github.com/kebiasaanku/kebiasaanku-backend/internal/repositories/mongodb"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/utils"
	"github.com/kebiasaanku/kebiasaanku-backend/pkg/mongodb"
)

// Seeds a demo account with a few habits, an achievement and a reward so a
// fresh database has something to explore.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	mongoURI := config.GetEnv("MONGODB_URI", "mongodb://localhost:27017")
	dbName := config.GetEnv("MONGODB_DATABASE", "kebiasaanku")

	client, err := mongodb.NewClient(mongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(dbName)
	ctx := context.Background()

	if err := mongorepo.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to ensure indexes: %v", err)
	}

	userRepo := mongorepo.NewUserRepository(db)
	habitRepo := mongorepo.NewHabitRepository(db)
	achievementRepo := mongorepo.NewAchievementRepository(db)
	rewardRepo := mongorepo.NewRewardRepository(db)

	email := config.GetEnv("SEED_EMAIL", "demo@kebiasaanku.id")
	if existing, err := userRepo.FindByEmail(ctx, email); err == nil && existing != nil {
		log.Printf("Seed user %s already exists, nothing to do", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(config.GetEnv("SEED_PASSWORD", "rahasia123")), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now()
	user := &models.User{
		Email:        email,
		Name:         "Demo",
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := userRepo.Create(ctx, user); err != nil {
		log.Fatalf("Failed to create seed user: %v", err)
	}

	window := utils.CurrentWindow(models.FrequencyWeekly, now, now)
	achievement := &models.Achievement{
		UserID:       user.ID,
		Title:        "Pekan Sehat",
		TargetPoints: config.GetEnvAsInt("SEED_TARGET_POINTS", 150),
		Frequency:    models.FrequencyWeekly,
		Status:       models.AchievementActive,
		ValidFrom:    window.Start,
		ValidTo:      window.End,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := achievementRepo.Create(ctx, achievement); err != nil {
		log.Fatalf("Failed to create seed achievement: %v", err)
	}

	habits := []*models.Habit{
		{
			UserID:              user.ID,
			Title:               "Minum air 2 liter",
			Frequency:           models.FrequencyDaily,
			PointsPerCompletion: 10,
			IsActive:            true,
			CreatedAt:           now,
			UpdatedAt:           now,
		},
		{
			UserID:              user.ID,
			AchievementID:       &achievement.ID,
			Title:               "Lari pagi 30 menit",
			Frequency:           models.FrequencyWeekly,
			PointsPerCompletion: 50,
			IsActive:            true,
			CreatedAt:           now,
			UpdatedAt:           now,
		},
	}
	for _, h := range habits {
		if err := habitRepo.Create(ctx, h); err != nil {
			log.Fatalf("Failed to create seed habit %q: %v", h.Title, err)
		}
	}

	reward := &models.Reward{
		UserID:     user.ID,
		Title:      "Nonton film",
		CostPoints: 100,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := rewardRepo.Create(ctx, reward); err != nil {
		log.Fatalf("Failed to create seed reward: %v", err)
	}

	log.Printf("Seeded demo data for %s", email)
}
