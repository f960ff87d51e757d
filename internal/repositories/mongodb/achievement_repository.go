package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/apperrors"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/repositories"
)

// Compile-time check to ensure AchievementRepository implements the interface
var _ repositories.AchievementRepository = (*AchievementRepository)(nil)

// AchievementRepository handles MongoDB operations for Achievement
type AchievementRepository struct {
	collection *mongo.Collection
}

// NewAchievementRepository creates a new AchievementRepository
func NewAchievementRepository(db *mongo.Database) *AchievementRepository {
	return &AchievementRepository{
		collection: db.Collection("achievements"),
	}
}

// Create inserts a new achievement
func (r *AchievementRepository) Create(ctx context.Context, achievement *models.Achievement) error {
	achievement.ID = primitive.NewObjectID()
	achievement.CreatedAt = time.Now()
	achievement.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, achievement)
	return err
}

// FindByID finds an achievement by ID
func (r *AchievementRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Achievement, error) {
	var achievement models.Achievement
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&achievement)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &achievement, nil
}

// FindByUserID retrieves all active achievements owned by a user
func (r *AchievementRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Achievement, error) {
	filter := bson.M{"userId": userID, "isActive": true}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	achievements := []*models.Achievement{}
	if err = cursor.All(ctx, &achievements); err != nil {
		return nil, err
	}
	return achievements, nil
}

// Update updates an existing achievement
func (r *AchievementRepository) Update(ctx context.Context, achievement *models.Achievement) error {
	achievement.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": achievement.ID}, bson.M{"$set": achievement})
	return err
}

// SoftDelete marks an achievement inactive
func (r *AchievementRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
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
