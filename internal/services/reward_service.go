package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/apperrors"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/repositories"
)

// Compile-time check to ensure RewardServiceImpl implements RewardService
var _ RewardService = (*RewardServiceImpl)(nil)

// RewardServiceImpl handles the reward catalog and point redemption.
type RewardServiceImpl struct {
	rewardRepo repositories.RewardRepository
	claimRepo  repositories.RewardClaimRepository
	points     PointsService
	txn        repositories.TxnManager
	now        func() time.Time
}

// NewRewardService creates a new RewardServiceImpl
func NewRewardService(
	rewardRepo repositories.RewardRepository,
	claimRepo repositories.RewardClaimRepository,
	points PointsService,
	txn repositories.TxnManager,
) *RewardServiceImpl {
	return &RewardServiceImpl{
		rewardRepo: rewardRepo,
		claimRepo:  claimRepo,
		points:     points,
		txn:        txn,
		now:        time.Now,
	}
}

// CreateReward creates a reward in the caller's catalog
func (s *RewardServiceImpl) CreateReward(ctx context.Context, userID primitive.ObjectID, req *models.CreateRewardRequest) (*models.Reward, error) {
	if req.CostPoints <= 0 {
		return nil, apperrors.ErrInvalidPoints
	}

	reward := &models.Reward{
		UserID:     userID,
		Title:      req.Title,
		CostPoints: req.CostPoints,
		ExpiryDate: req.ExpiryDate,
		IsActive:   true,
	}
	if err := s.rewardRepo.Create(ctx, reward); err != nil {
		slog.Error("Failed to create reward", "error", err, "userId", userID.Hex())
		return nil, fmt.Errorf("failed to create reward: %w", err)
	}
	return reward, nil
}

// GetRewards lists the caller's active rewards
func (s *RewardServiceImpl) GetRewards(ctx context.Context, userID primitive.ObjectID) ([]*models.Reward, error) {
	return s.rewardRepo.FindByUserID(ctx, userID)
}

// UpdateReward updates the caller's reward
func (s *RewardServiceImpl) UpdateReward(ctx context.Context, userID, rewardID primitive.ObjectID, req *models.UpdateRewardRequest) (*models.Reward, error) {
	reward, err := s.rewardRepo.FindByID(ctx, rewardID)
	if err != nil {
		return nil, err
	}
	if reward.UserID != userID || !reward.IsActive {
		return nil, apperrors.ErrNotFound
	}

	if req.Title != nil {
		reward.Title = *req.Title
	}
	if req.CostPoints != nil {
		if *req.CostPoints <= 0 {
			return nil, apperrors.ErrInvalidPoints
		}
		reward.CostPoints = *req.CostPoints
	}
	if req.ExpiryDate != nil {
		reward.ExpiryDate = req.ExpiryDate
	}

	if err := s.rewardRepo.Update(ctx, reward); err != nil {
		return nil, fmt.Errorf("failed to update reward: %w", err)
	}
	return reward, nil
}

// DeleteReward soft-deletes the caller's reward
func (s *RewardServiceImpl) DeleteReward(ctx context.Context, userID, rewardID primitive.ObjectID) error {
	reward, err := s.rewardRepo.FindByID(ctx, rewardID)
	if err != nil {
		return err
	}
	if reward.UserID != userID {
		return apperrors.ErrNotFound
	}
	return s.rewardRepo.SoftDelete(ctx, rewardID)
}

// GetClaims lists the caller's claim history, newest first
func (s *RewardServiceImpl) GetClaims(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.RewardClaim, error) {
	return s.claimRepo.FindByUserID(ctx, userID, page, limit)
}

// ClaimReward spends points on a reward. The sufficient-balance check rides
// inside the ledger debit itself, not a separate earlier read, so a
// concurrent spend can't slip between check and debit. A failed claim leaves
// balance and ledger untouched.
func (s *RewardServiceImpl) ClaimReward(ctx context.Context, userID, rewardID primitive.ObjectID) (*models.ClaimRewardResult, error) {
	var result *models.ClaimRewardResult

	err := s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		now := s.now()

		reward, err := s.rewardRepo.FindByID(ctx, rewardID)
		if err != nil {
			return err
		}
		if reward.UserID != userID || !reward.IsActive {
			return apperrors.ErrNotFound
		}
		if reward.ExpiryDate != nil && now.After(*reward.ExpiryDate) {
			return apperrors.ErrExpired
		}

		balanceAfter, err := s.points.AddPoints(ctx, userID, -reward.CostPoints,
			models.ReasonClaimReward, models.RefTypeReward, reward.ID)
		if err != nil {
			return err
		}

		claim := &models.RewardClaim{
			UserID:      userID,
			RewardID:    rewardID,
			PointsSpent: reward.CostPoints,
			Status:      models.RewardClaimStatusClaimed,
			ClaimedAt:   now,
		}
		if err := s.claimRepo.Create(ctx, claim); err != nil {
			return fmt.Errorf("failed to record reward claim: %w", err)
		}

		result = &models.ClaimRewardResult{
			BalanceAfter: balanceAfter,
			ClaimID:      claim.ID.Hex(),
		}
		slog.Info("Reward claimed", "rewardId", rewardID.Hex(), "userId", userID.Hex(),
			"cost", reward.CostPoints, "balanceAfter", balanceAfter)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
