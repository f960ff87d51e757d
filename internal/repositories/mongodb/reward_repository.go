package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/apperrors"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/repositories"
)

// Compile-time checks to ensure the reward repositories implement the interfaces
var (
	_ repositories.RewardRepository      = (*RewardRepository)(nil)
	_ repositories.RewardClaimRepository = (*RewardClaimRepository)(nil)
)

// RewardRepository handles MongoDB operations for Reward
type RewardRepository struct {
	collection *mongo.Collection
}

// NewRewardRepository creates a new RewardRepository
func NewRewardRepository(db *mongo.Database) *RewardRepository {
	return &RewardRepository{
		collection: db.Collection("rewards"),
	}
}

// Create inserts a new reward
func (r *RewardRepository) Create(ctx context.Context, reward *models.Reward) error {
	reward.ID = primitive.NewObjectID()
	reward.CreatedAt = time.Now()
	reward.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, reward)
	return err
}

// FindByID finds a reward by ID
func (r *RewardRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Reward, error) {
	var reward models.Reward
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reward)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &reward, nil
}

// FindByUserID retrieves all active rewards owned by a user
func (r *RewardRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Reward, error) {
	filter := bson.M{"userId": userID, "isActive": true}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	rewards := []*models.Reward{}
	if err = cursor.All(ctx, &rewards); err != nil {
		return nil, err
	}
	return rewards, nil
}

// Update updates an existing reward
func (r *RewardRepository) Update(ctx context.Context, reward *models.Reward) error {
	reward.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": reward.ID}, bson.M{"$set": reward})
	return err
}

// SoftDelete marks a reward inactive
func (r *RewardRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RewardClaimRepository handles MongoDB operations for RewardClaim
type RewardClaimRepository struct {
	collection *mongo.Collection
}

// NewRewardClaimRepository creates a new RewardClaimRepository
func NewRewardClaimRepository(db *mongo.Database) *RewardClaimRepository {
	return &RewardClaimRepository{
		collection: db.Collection("reward_claims"),
	}
}

// Create inserts a claim record
func (r *RewardClaimRepository) Create(ctx context.Context, claim *models.RewardClaim) error {
	claim.ID = primitive.NewObjectID()
	_, err := r.collection.InsertOne(ctx, claim)
	return err
}

// FindByUserID retrieves a user's claim history, newest first, with pagination
func (r *RewardClaimRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.RewardClaim, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "claimedAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	claims := []*models.RewardClaim{}
	if err = cursor.All(ctx, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}
