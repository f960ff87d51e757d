package services

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/apperrors"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/repositories"
)

// Compile-time check to ensure PointsServiceImpl implements PointsService
var _ PointsService = (*PointsServiceImpl)(nil)

// PointsServiceImpl is the ledger engine. All balance mutation in the system
// funnels through it: the conditional update on the user row and the ledger
// append happen inside one transaction, so both land or neither does, and
// BalanceAfter always snapshots the balance the update produced.
type PointsServiceImpl struct {
	userRepo   repositories.UserRepository
	ledgerRepo repositories.PointLedgerRepository
	txn        repositories.TxnManager
}

// NewPointsService creates a new PointsServiceImpl
func NewPointsService(userRepo repositories.UserRepository, ledgerRepo repositories.PointLedgerRepository, txn repositories.TxnManager) *PointsServiceImpl {
	return &PointsServiceImpl{
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		txn:        txn,
	}
}

// AddPoints applies the delta and appends the ledger entry using the caller's
// context. When the context carries a transaction, both writes join it; a
// caller without one should use AddPointsAtomic instead.
func (s *PointsServiceImpl) AddPoints(ctx context.Context, userID primitive.ObjectID, delta int, reason, refType string, refID primitive.ObjectID) (int, error) {
	if delta == 0 {
		return 0, apperrors.ErrInvalidDelta
	}

	user, err := s.userRepo.ApplyPointsDelta(ctx, userID, delta)
	if err != nil {
		return 0, err
	}

	entry := &models.PointLedger{
		UserID:       userID,
		Delta:        delta,
		Reason:       reason,
		RefType:      refType,
		RefID:        refID,
		BalanceAfter: user.PointBalance,
	}
	if err := s.ledgerRepo.Append(ctx, entry); err != nil {
		return 0, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	slog.Info("Points applied", "userId", userID.Hex(), "delta", delta, "reason", reason, "balanceAfter", user.PointBalance)
	return user.PointBalance, nil
}

// AddPointsAtomic runs AddPoints in its own transaction.
func (s *PointsServiceImpl) AddPointsAtomic(ctx context.Context, userID primitive.ObjectID, delta int, reason, refType string, refID primitive.ObjectID) (int, error) {
	var balanceAfter int
	err := s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		var txnErr error
		balanceAfter, txnErr = s.AddPoints(ctx, userID, delta, reason, refType, refID)
		return txnErr
	})
	if err != nil {
		return 0, err
	}
	return balanceAfter, nil
}

// History lists the user's ledger entries, newest first
func (s *PointsServiceImpl) History(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.PointLedger, error) {
	return s.ledgerRepo.FindByUserID(ctx, userID, page, limit)
}
