package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/apperrors"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/repositories"
)

// Compile-time check to ensure HabitCompletionRepository implements the interface
var _ repositories.HabitCompletionRepository = (*HabitCompletionRepository)(nil)

// HabitCompletionRepository is the in-memory implementation of
// repositories.HabitCompletionRepository
type HabitCompletionRepository struct {
	store *Store
}

// NewHabitCompletionRepository creates a new in-memory HabitCompletionRepository
func NewHabitCompletionRepository(store *Store) *HabitCompletionRepository {
	return &HabitCompletionRepository{store: store}
}

// Create appends a completion, enforcing the unique (habitId, periodKey)
// constraint the MongoDB implementation gets from its index.
func (r *HabitCompletionRepository) Create(ctx context.Context, completion *models.HabitCompletion) error {
	defer r.store.acquire(ctx)()

	for _, existing := range r.store.completions {
		if existing.HabitID == completion.HabitID && existing.PeriodKey == completion.PeriodKey {
			return apperrors.ErrAlreadyCompleted
		}
	}

	completion.ID = primitive.NewObjectID()
	completion.CreatedAt = time.Now()
	r.store.completions = append(r.store.completions, *completion)
	return nil
}

func (r *HabitCompletionRepository) FindInWindow(ctx context.Context, habitID primitive.ObjectID, start, end time.Time) (*models.HabitCompletion, error) {
	defer r.store.acquire(ctx)()

	for _, completion := range r.store.completions {
		if completion.HabitID != habitID {
			continue
		}
		if completion.CompletedAt.Before(start) || completion.CompletedAt.After(end) {
			continue
		}
		c := completion
		return &c, nil
	}
	return nil, nil
}

func (r *HabitCompletionRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.HabitCompletion, error) {
	defer r.store.acquire(ctx)()

	matched := []models.HabitCompletion{}
	for i := len(r.store.completions) - 1; i >= 0; i-- {
		if r.store.completions[i].UserID == userID {
			matched = append(matched, r.store.completions[i])
		}
	}
	return paginate(matched, page, limit), nil
}

func (r *HabitCompletionRepository) SumPointsForAchievement(ctx context.Context, achievementID primitive.ObjectID, start, end time.Time) (int, error) {
	defer r.store.acquire(ctx)()

	total := 0
	for _, completion := range r.store.completions {
		if completion.AchievementID == nil || *completion.AchievementID != achievementID {
			continue
		}
		if completion.CompletedAt.Before(start) || !completion.CompletedAt.Before(end) {
			continue
		}
		total += completion.PointsAwarded
	}
	return total, nil
}

// paginate slices out a page from an already-ordered result set.
func paginate[T any](items []T, page, limit int) []*T {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit
	if offset >= len(items) {
		return []*T{}
	}
	endIdx := offset + limit
	if endIdx > len(items) {
		endIdx = len(items)
	}
	out := make([]*T, 0, endIdx-offset)
	for i := offset; i < endIdx; i++ {
		item := items[i]
		out = append(out, &item)
	}
	return out
}
