package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
)

// PointsService is the ledger engine: the single gateway for balance
// mutation. Every point movement goes through AddPoints so that the
// {balance update, ledger append} pair stays atomic and the running-balance
// invariant holds.
type PointsService interface {
	// AddPoints applies a signed delta to the user's balance and appends the
	// matching ledger entry, returning the balance after the movement. It
	// joins the transaction carried by ctx; callers without one should use
	// AddPointsAtomic. Fails with ErrInvalidDelta, ErrNotFound or
	// ErrInsufficientBalance.
	AddPoints(ctx context.Context, userID primitive.ObjectID, delta int, reason, refType string, refID primitive.ObjectID) (int, error)

	// AddPointsAtomic wraps AddPoints in its own transaction.
	AddPointsAtomic(ctx context.Context, userID primitive.ObjectID, delta int, reason, refType string, refID primitive.ObjectID) (int, error)

	// History lists the user's ledger entries, newest first.
	History(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.PointLedger, error)
}

// HabitService governs habits and the once-per-window completion state
// machine.
type HabitService interface {
	CreateHabit(ctx context.Context, userID primitive.ObjectID, req *models.CreateHabitRequest) (*models.Habit, error)
	GetHabits(ctx context.Context, userID primitive.ObjectID) ([]*models.Habit, error)
	UpdateHabit(ctx context.Context, userID, habitID primitive.ObjectID, req *models.UpdateHabitRequest) (*models.Habit, error)
	DeleteHabit(ctx context.Context, userID, habitID primitive.ObjectID) error

	// CompleteHabit records a completion for the habit's effective window,
	// credits the ledger and returns the award and updated balance. Fails
	// with ErrNotFound, ErrWindowClosed, ErrAlreadyCompleted or
	// ErrInvalidPoints.
	CompleteHabit(ctx context.Context, userID, habitID primitive.ObjectID) (*models.CompletionResult, error)
}

// AchievementService governs achievement lifecycle, progress and claiming.
type AchievementService interface {
	CreateAchievement(ctx context.Context, userID primitive.ObjectID, req *models.CreateAchievementRequest) (*models.Achievement, error)
	GetAchievements(ctx context.Context, userID primitive.ObjectID) ([]*models.AchievementWithProgress, error)
	GetAchievement(ctx context.Context, userID, achievementID primitive.ObjectID) (*models.AchievementWithProgress, error)
	UpdateAchievement(ctx context.Context, userID, achievementID primitive.ObjectID, req *models.UpdateAchievementRequest) (*models.Achievement, error)
	DeleteAchievement(ctx context.Context, userID, achievementID primitive.ObjectID) error

	// ClaimAchievement debits the target points from the user's balance.
	// Fails with ErrNotFound, ErrExpired, ErrAlreadyClaimed or
	// ErrInsufficientPoints. Claims are final once committed.
	ClaimAchievement(ctx context.Context, userID, achievementID primitive.ObjectID) (*models.ClaimAchievementResult, error)
}

// RewardService governs the reward catalog and point redemption.
type RewardService interface {
	CreateReward(ctx context.Context, userID primitive.ObjectID, req *models.CreateRewardRequest) (*models.Reward, error)
	GetRewards(ctx context.Context, userID primitive.ObjectID) ([]*models.Reward, error)
	UpdateReward(ctx context.Context, userID, rewardID primitive.ObjectID, req *models.UpdateRewardRequest) (*models.Reward, error)
	DeleteReward(ctx context.Context, userID, rewardID primitive.ObjectID) error
	GetClaims(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.RewardClaim, error)

	// ClaimReward spends points on a reward. Fails with ErrNotFound,
	// ErrExpired or ErrInsufficientBalance; a failed claim leaves balance
	// and ledger untouched.
	ClaimReward(ctx context.Context, userID, rewardID primitive.ObjectID) (*models.ClaimRewardResult, error)
}

// AuthService handles registration and login.
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// UserService exposes the authenticated user's own profile.
type UserService interface {
	GetMe(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}
