package memory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/apperrors"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/repositories"
)

// Compile-time check to ensure UserRepository implements the interface
var _ repositories.UserRepository = (*UserRepository)(nil)

// UserRepository is the in-memory implementation of repositories.UserRepository
type UserRepository struct {
	store *Store
}

// NewUserRepository creates a new in-memory UserRepository
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer r.store.acquire(ctx)()

	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	r.store.users[user.ID] = *user
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	defer r.store.acquire(ctx)()

	user, ok := r.store.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.store.acquire(ctx)()

	for _, user := range r.store.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	defer r.store.acquire(ctx)()

	if _, ok := r.store.users[user.ID]; !ok {
		return apperrors.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.store.users[user.ID] = *user
	return nil
}

func (r *UserRepository) ApplyPointsDelta(ctx context.Context, id primitive.ObjectID, delta int) (*models.User, error) {
	defer r.store.acquire(ctx)()

	user, ok := r.store.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if user.PointBalance+delta < 0 {
		return nil, apperrors.ErrInsufficientBalance
	}
	user.PointBalance += delta
	user.UpdatedAt = time.Now()
	r.store.users[id] = user
	return &user, nil
}
