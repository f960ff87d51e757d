// Package memory provides an in-memory implementation of the repository
// interfaces with the same transactional contract as the MongoDB
// implementation: operations contending on the same store serialize, and a
// failed transaction leaves no observable writes. It backs the service unit
// tests, including the concurrency ones.
package memory

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/repositories"
)

// Compile-time check to ensure Store implements the transaction manager
var _ repositories.TxnManager = (*Store)(nil)

type txnKey struct{}

// Store holds all collections behind a single mutex. A transaction takes the
// mutex for its whole body and restores a snapshot on error, which gives the
// serializable, all-or-nothing semantics the services rely on.
type Store struct {
	mu sync.Mutex

	users        map[primitive.ObjectID]models.User
	habits       map[primitive.ObjectID]models.Habit
	achievements map[primitive.ObjectID]models.Achievement
	rewards      map[primitive.ObjectID]models.Reward
	completions  []models.HabitCompletion
	ledger       []models.PointLedger
	claims       []models.RewardClaim
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:        make(map[primitive.ObjectID]models.User),
		habits:       make(map[primitive.ObjectID]models.Habit),
		achievements: make(map[primitive.ObjectID]models.Achievement),
		rewards:      make(map[primitive.ObjectID]models.Reward),
	}
}

// acquire locks the store unless the context already runs inside a
// transaction, which holds the lock for its whole body.
func (s *Store) acquire(ctx context.Context) func() {
	if ctx.Value(txnKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithTransaction implements repositories.TxnManager. Nested calls join the
// enclosing transaction.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txnKey{}) != nil {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txnKey{}, struct{}{})); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type storeSnapshot struct {
	users        map[primitive.ObjectID]models.User
	habits       map[primitive.ObjectID]models.Habit
	achievements map[primitive.ObjectID]models.Achievement
	rewards      map[primitive.ObjectID]models.Reward
	completions  []models.HabitCompletion
	ledger       []models.PointLedger
	claims       []models.RewardClaim
}

func (s *Store) snapshot() storeSnapshot {
	return storeSnapshot{
		users:        copyMap(s.users),
		habits:       copyMap(s.habits),
		achievements: copyMap(s.achievements),
		rewards:      copyMap(s.rewards),
		completions:  append([]models.HabitCompletion(nil), s.completions...),
		ledger:       append([]models.PointLedger(nil), s.ledger...),
		claims:       append([]models.RewardClaim(nil), s.claims...),
	}
}

func (s *Store) restore(snap storeSnapshot) {
	s.users = snap.users
	s.habits = snap.habits
	s.achievements = snap.achievements
	s.rewards = snap.rewards
	s.completions = snap.completions
	s.ledger = snap.ledger
	s.claims = snap.claims
}

func copyMap[V any](m map[primitive.ObjectID]V) map[primitive.ObjectID]V {
	out := make(map[primitive.ObjectID]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
