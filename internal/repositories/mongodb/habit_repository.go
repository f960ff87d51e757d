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

// Compile-time check to ensure HabitRepository implements the interface
var _ repositories.HabitRepository = (*HabitRepository)(nil)

// HabitRepository handles MongoDB operations for Habit
type HabitRepository struct {
	collection *mongo.Collection
}

// NewHabitRepository creates a new HabitRepository
func NewHabitRepository(db *mongo.Database) *HabitRepository {
	return &HabitRepository{
		collection: db.Collection("habits"),
	}
}

// Create inserts a new habit
func (r *HabitRepository) Create(ctx context.Context, habit *models.Habit) error {
	habit.ID = primitive.NewObjectID()
	habit.CreatedAt = time.Now()
	habit.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, habit)
	return err
}

// FindByID finds a habit by ID
func (r *HabitRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Habit, error) {
	var habit models.Habit
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&habit)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &habit, nil
}

// FindByUserID retrieves all active habits owned by a user
func (r *HabitRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) ([]*models.Habit, error) {
	filter := bson.M{"userId": userID, "isActive": true}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	habits := []*models.Habit{}
	if err = cursor.All(ctx, &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

// FindByAchievementID retrieves all active habits bound to an achievement
func (r *HabitRepository) FindByAchievementID(ctx context.Context, achievementID primitive.ObjectID) ([]*models.Habit, error) {
	filter := bson.M{"achievementId": achievementID, "isActive": true}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	habits := []*models.Habit{}
	if err = cursor.All(ctx, &habits); err != nil {
		return nil, err
	}
	return habits, nil
}

// Update updates an existing habit
func (r *HabitRepository) Update(ctx context.Context, habit *models.Habit) error {
	habit.UpdatedAt = time.Now()
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": habit.ID}, bson.M{"$set": habit})
	return err
}

// SoftDelete marks a habit inactive, preserving historical completions and
// ledger references
func (r *HabitRepository) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
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
