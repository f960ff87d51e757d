package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/apperrors"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/repositories"
)

// Compile-time check to ensure HabitRepository implements the interface
var _ repositories.HabitRepository = (*HabitRepository)(nil)

// HabitRepository is the in-memory implementation of repositories.HabitRepository
type HabitRepository struct {
	store *Store
}

// NewHabitRepository creates a new in-memory HabitRepository
func NewHabitRepository(store *Store) *HabitRepository {
	return &HabitRepository{store: store}
}

func (r *HabitRepository) Create(ctx context.Context, habit *models.Habit) error {
	defer r.store.acquire(ctx)()

	habit.ID = primitive.NewObjectID()
	habit.CreatedAt = time.Now()
	habit.UpdatedAt = time.Now()
	r.store.habits[habit.ID] = *habit
	return nil
}

func (r *HabitRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Habit, error) {
	defer r.store.acquire(ctx)()

	habit, ok := r.store.habits[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &habit, nil
}

func (r *HabitRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Habit, error) {
	defer r.store.acquire(ctx)()

	habits := []*models.Habit{}
	for _, habit := range r.store.habits {
		if habit.UserID == userID && habit.IsActive {
			h := habit
			habits = append(habits, &h)
		}
	}
	return habits, nil
}

func (r *HabitRepository) FindByAchievementID(ctx context.Context, achievementID primitive.ObjectID) ([]*models.Habit, error) {
	defer r.store.acquire(ctx)()

	habits := []*models.Habit{}
	for _, habit := range r.store.habits {
		if habit.IsActive && habit.AchievementID != nil && *habit.AchievementID == achievementID {
			h := habit
			habits = append(habits, &h)
		}
	}
	return habits, nil
}

func (r *HabitRepository) Update(ctx context.Context, habit *models.Habit) error {
	defer r.store.acquire(ctx)()

	if _, ok := r.store.habits[habit.ID]; !ok {
		return apperrors.ErrNotFound
	}
	habit.UpdatedAt = time.Now()
	r.store.habits[habit.ID] = *habit
	return nil
}

func (r *HabitRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	defer r.store.acquire(ctx)()

	habit, ok := r.store.habits[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	habit.IsActive = false
	habit.UpdatedAt = time.Now()
	r.store.habits[id] = habit
	return nil
}
