package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/apperrors"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/repositories"
)

// Compile-time check to ensure AchievementRepository implements the interface
var _ repositories.AchievementRepository = (*AchievementRepository)(nil)

// AchievementRepository is the in-memory implementation of
// repositories.AchievementRepository
type AchievementRepository struct {
	store *Store
}

// NewAchievementRepository creates a new in-memory AchievementRepository
func NewAchievementRepository(store *Store) *AchievementRepository {
	return &AchievementRepository{store: store}
}

func (r *AchievementRepository) Create(ctx context.Context, achievement *models.Achievement) error {
	defer r.store.acquire(ctx)()

	achievement.ID = primitive.NewObjectID()
	achievement.CreatedAt = time.Now()
	achievement.UpdatedAt = time.Now()
	r.store.achievements[achievement.ID] = *achievement
	return nil
}

func (r *AchievementRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Achievement, error) {
	defer r.store.acquire(ctx)()

	achievement, ok := r.store.achievements[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &achievement, nil
}

func (r *AchievementRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Achievement, error) {
	defer r.store.acquire(ctx)()

	achievements := []*models.Achievement{}
	for _, achievement := range r.store.achievements {
		if achievement.UserID == userID && achievement.IsActive {
			a := achievement
			achievements = append(achievements, &a)
		}
	}
	return achievements, nil
}

func (r *AchievementRepository) Update(ctx context.Context, achievement *models.Achievement) error {
	defer r.store.acquire(ctx)()

	if _, ok := r.store.achievements[achievement.ID]; !ok {
		return apperrors.ErrNotFound
	}
	achievement.UpdatedAt = time.Now()
	r.store.achievements[achievement.ID] = *achievement
	return nil
}

func (r *AchievementRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	defer r.store.acquire(ctx)()

	achievement, ok := r.store.achievements[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	achievement.IsActive = false
	achievement.UpdatedAt = time.Now()
	r.store.achievements[id] = achievement
	return nil
}
