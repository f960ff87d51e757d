package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/repositories"
)

// Compile-time check to ensure PointLedgerRepository implements the interface
var _ repositories.PointLedgerRepository = (*PointLedgerRepository)(nil)

// PointLedgerRepository is the in-memory implementation of
// repositories.PointLedgerRepository
type PointLedgerRepository struct {
	store *Store
}

// NewPointLedgerRepository creates a new in-memory PointLedgerRepository
func NewPointLedgerRepository(store *Store) *PointLedgerRepository {
	return &PointLedgerRepository{store: store}
}

func (r *PointLedgerRepository) Append(ctx context.Context, entry *models.PointLedger) error {
	defer r.store.acquire(ctx)()

	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	r.store.ledger = append(r.store.ledger, *entry)
	return nil
}

func (r *PointLedgerRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.PointLedger, error) {
	defer r.store.acquire(ctx)()

	matched := []models.PointLedger{}
	for i := len(r.store.ledger) - 1; i >= 0; i-- {
		if r.store.ledger[i].UserID == userID {
			matched = append(matched, r.store.ledger[i])
		}
	}
	return paginate(matched, page, limit), nil
}
