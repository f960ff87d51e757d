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

// Compile-time check to ensure HabitCompletionRepository implements the interface
var _ repositories.HabitCompletionRepository = (*HabitCompletionRepository)(nil)

// HabitCompletionRepository handles MongoDB operations for HabitCompletion
type HabitCompletionRepository struct {
	collection *mongo.Collection
}

// NewHabitCompletionRepository creates a new HabitCompletionRepository
func NewHabitCompletionRepository(db *mongo.Database) *HabitCompletionRepository {
	return &HabitCompletionRepository{
		collection: db.Collection("habit_completions"),
	}
}

// Create inserts a completion event. The unique (habitId, periodKey) index is
// the race backstop for the one-completion-per-window rule: when two
// concurrent completions both pass the service-level check, exactly one
// insert wins and the loser gets ErrAlreadyCompleted.
func (r *HabitCompletionRepository) Create(ctx context.Context, completion *models.HabitCompletion) error {
	completion.ID = primitive.NewObjectID()
	completion.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, completion)
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.ErrAlreadyCompleted
	}
	return err
}

// FindInWindow returns the completion of a habit with completedAt inside
// [start, end], or nil when the habit has not been completed in that window
func (r *HabitCompletionRepository) FindInWindow(ctx context.Context, habitID primitive.ObjectID, start, end time.Time) (*models.HabitCompletion, error) {
	filter := bson.M{
		"habitId":     habitID,
		"completedAt": bson.M{"$gte": start, "$lte": end},
	}
	var completion models.HabitCompletion
	err := r.collection.FindOne(ctx, filter).Decode(&completion)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &completion, nil
}

// FindByUserID retrieves a user's completions, newest first, with pagination
func (r *HabitCompletionRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.HabitCompletion, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "completedAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	completions := []*models.HabitCompletion{}
	if err = cursor.All(ctx, &completions); err != nil {
		return nil, err
	}
	return completions, nil
}

// SumPointsForAchievement totals pointsAwarded over completions bound to the
// achievement with completedAt in [start, end)
func (r *HabitCompletionRepository) SumPointsForAchievement(ctx context.Context, achievementID primitive.ObjectID, start, end time.Time) (int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"achievementId": achievementID,
			"completedAt":   bson.M{"$gte": start, "$lt": end},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": "$pointsAwarded"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Total int `bson:"total"`
	}
	if err = cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Total, nil
}
