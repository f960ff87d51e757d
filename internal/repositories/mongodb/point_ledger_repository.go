package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/repositories"
)

// Compile-time check to ensure PointLedgerRepository implements the interface
var _ repositories.PointLedgerRepository = (*PointLedgerRepository)(nil)

// PointLedgerRepository handles MongoDB operations for the append-only
// points ledger. There is no update or delete: entries are immutable.
type PointLedgerRepository struct {
	collection *mongo.Collection
}

// NewPointLedgerRepository creates a new PointLedgerRepository
func NewPointLedgerRepository(db *mongo.Database) *PointLedgerRepository {
	return &PointLedgerRepository{
		collection: db.Collection("point_ledger"),
	}
}

// Append inserts a ledger entry
func (r *PointLedgerRepository) Append(ctx context.Context, entry *models.PointLedger) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// FindByUserID retrieves a user's ledger entries, newest first, with pagination
func (r *PointLedgerRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.PointLedger, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	entries := []*models.PointLedger{}
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
