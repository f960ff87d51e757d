package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/apperrors"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/repositories"
)

// Compile-time checks to ensure the reward repositories implement the interfaces
var (
	_ repositories.RewardRepository      = (*RewardRepository)(nil)
	_ repositories.RewardClaimRepository = (*RewardClaimRepository)(nil)
)

// RewardRepository is the in-memory implementation of repositories.RewardRepository
type RewardRepository struct {
	store *Store
}

// NewRewardRepository creates a new in-memory RewardRepository
func NewRewardRepository(store *Store) *RewardRepository {
	return &RewardRepository{store: store}
}

func (r *RewardRepository) Create(ctx context.Context, reward *models.Reward) error {
	defer r.store.acquire(ctx)()

	reward.ID = primitive.NewObjectID()
	reward.CreatedAt = time.Now()
	reward.UpdatedAt = time.Now()
	r.store.rewards[reward.ID] = *reward
	return nil
}

func (r *RewardRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Reward, error) {
	defer r.store.acquire(ctx)()

	reward, ok := r.store.rewards[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &reward, nil
}

func (r *RewardRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Reward, error) {
	defer r.store.acquire(ctx)()

	rewards := []*models.Reward{}
	for _, reward := range r.store.rewards {
		if reward.UserID == userID && reward.IsActive {
			rw := reward
			rewards = append(rewards, &rw)
		}
	}
	return rewards, nil
}

func (r *RewardRepository) Update(ctx context.Context, reward *models.Reward) error {
	defer r.store.acquire(ctx)()

	if _, ok := r.store.rewards[reward.ID]; !ok {
		return apperrors.ErrNotFound
	}
	reward.UpdatedAt = time.Now()
	r.store.rewards[reward.ID] = *reward
	return nil
}

func (r *RewardRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	defer r.store.acquire(ctx)()

	reward, ok := r.store.rewards[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	reward.IsActive = false
	reward.UpdatedAt = time.Now()
	r.store.rewards[id] = reward
	return nil
}

// RewardClaimRepository is the in-memory implementation of
// repositories.RewardClaimRepository
type RewardClaimRepository struct {
	store *Store
}

// NewRewardClaimRepository creates a new in-memory RewardClaimRepository
func NewRewardClaimRepository(store *Store) *RewardClaimRepository {
	return &RewardClaimRepository{store: store}
}

func (r *RewardClaimRepository) Create(ctx context.Context, claim *models.RewardClaim) error {
	defer r.store.acquire(ctx)()

	claim.ID = primitive.NewObjectID()
	r.store.claims = append(r.store.claims, *claim)
	return nil
}

func (r *RewardClaimRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.RewardClaim, error) {
	defer r.store.acquire(ctx)()

	matched := []models.RewardClaim{}
	for i := len(r.store.claims) - 1; i >= 0; i-- {
		if r.store.claims[i].UserID == userID {
			matched = append(matched, r.store.claims[i])
		}
	}
	return paginate(matched, page, limit), nil
}
