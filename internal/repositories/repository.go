package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
)

// TxnManager runs a function inside a storage transaction. Writes performed
// through the transaction-carrying context commit together or not at all, and
// operations contending on the same documents serialize against each other.
type TxnManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error

	// ApplyPointsDelta atomically adds delta to the user's balance and
	// returns the updated user. A debit that would drive the balance
	// negative fails with apperrors.ErrInsufficientBalance and writes
	// nothing; a missing user fails with apperrors.ErrNotFound. This is the
	// only operation allowed to mutate PointBalance.
	ApplyPointsDelta(ctx context.Context, id primitive.ObjectID, delta int) (*models.User, error)
}

// HabitRepository defines the interface for habit data operations
type HabitRepository interface {
	Create(ctx context.Context, habit *models.Habit) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Habit, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Habit, error)
	FindByAchievementID(ctx context.Context, achievementID primitive.ObjectID) ([]*models.Habit, error)
	Update(ctx context.Context, habit *models.Habit) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

// HabitCompletionRepository defines the interface for completion event
// operations. Completions are append-only; there is no update or delete.
type HabitCompletionRepository interface {
	// Create inserts a completion. Inserting a second completion for the
	// same habit and period key fails with apperrors.ErrAlreadyCompleted.
	Create(ctx context.Context, completion *models.HabitCompletion) error
	FindInWindow(ctx context.Context, habitID primitive.ObjectID, start, end time.Time) (*models.HabitCompletion, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.HabitCompletion, error)

	// SumPointsForAchievement totals PointsAwarded over completions bound to
	// the achievement with CompletedAt in [start, end).
	SumPointsForAchievement(ctx context.Context, achievementID primitive.ObjectID, start, end time.Time) (int, error)
}

// AchievementRepository defines the interface for achievement data operations
type AchievementRepository interface {
	Create(ctx context.Context, achievement *models.Achievement) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Achievement, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Achievement, error)
	Update(ctx context.Context, achievement *models.Achievement) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

// PointLedgerRepository defines the interface for the append-only points
// ledger. Entries are immutable once written.
type PointLedgerRepository interface {
	Append(ctx context.Context, entry *models.PointLedger) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.PointLedger, error)
}

// RewardRepository defines the interface for reward catalog operations
type RewardRepository interface {
	Create(ctx context.Context, reward *models.Reward) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Reward, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Reward, error)
	Update(ctx context.Context, reward *models.Reward) error
	SoftDelete(ctx context.Context, id primitive.ObjectID) error
}

// RewardClaimRepository defines the interface for reward claim history
type RewardClaimRepository interface {
	Create(ctx context.Context, claim *models.RewardClaim) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.RewardClaim, error)
}
