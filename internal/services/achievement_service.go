package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/apperrors"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/repositories"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/utils"
)

// Compile-time check to ensure AchievementServiceImpl implements AchievementService
var _ AchievementService = (*AchievementServiceImpl)(nil)

// AchievementServiceImpl handles achievement lifecycle, progress and claims.
// Status transitions are evaluated lazily on access; there is no background
// sweep, so an achievement past its window keeps its stale ACTIVE status in
// storage until the next touch recomputes it.
type AchievementServiceImpl struct {
	achievementRepo repositories.AchievementRepository
	completionRepo  repositories.HabitCompletionRepository
	habitRepo       repositories.HabitRepository
	userRepo        repositories.UserRepository
	points          PointsService
	txn             repositories.TxnManager
	now             func() time.Time
}

// NewAchievementService creates a new AchievementServiceImpl
func NewAchievementService(
	achievementRepo repositories.AchievementRepository,
	completionRepo repositories.HabitCompletionRepository,
	habitRepo repositories.HabitRepository,
	userRepo repositories.UserRepository,
	points PointsService,
	txn repositories.TxnManager,
) *AchievementServiceImpl {
	return &AchievementServiceImpl{
		achievementRepo: achievementRepo,
		completionRepo:  completionRepo,
		habitRepo:       habitRepo,
		userRepo:        userRepo,
		points:          points,
		txn:             txn,
		now:             time.Now,
	}
}

// CreateAchievement creates an achievement with its first validity window
// anchored at the creation day.
func (s *AchievementServiceImpl) CreateAchievement(ctx context.Context, userID primitive.ObjectID, req *models.CreateAchievementRequest) (*models.Achievement, error) {
	if !req.Frequency.Valid() {
		return nil, apperrors.ErrInvalidFrequency
	}
	if req.TargetPoints <= 0 {
		return nil, apperrors.ErrInvalidPoints
	}

	now := s.now()
	window := utils.CurrentWindow(req.Frequency, now, now)

	achievement := &models.Achievement{
		UserID:       userID,
		Title:        req.Title,
		TargetPoints: req.TargetPoints,
		Frequency:    req.Frequency,
		Status:       models.AchievementActive,
		ValidFrom:    window.Start,
		ValidTo:      window.End,
		IsActive:     true,
	}
	if err := s.achievementRepo.Create(ctx, achievement); err != nil {
		slog.Error("Failed to create achievement", "error", err, "userId", userID.Hex())
		return nil, fmt.Errorf("failed to create achievement: %w", err)
	}
	return achievement, nil
}

// GetAchievements lists the caller's achievements with their global-balance
// progress, refreshing stale statuses on the way out
func (s *AchievementServiceImpl) GetAchievements(ctx context.Context, userID primitive.ObjectID) ([]*models.AchievementWithProgress, error) {
	achievements, err := s.achievementRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	out := make([]*models.AchievementWithProgress, 0, len(achievements))
	for _, achievement := range achievements {
		if err := s.refreshStatus(ctx, achievement, now); err != nil {
			return nil, err
		}
		out = append(out, &models.AchievementWithProgress{
			Achievement:     achievement,
			ProgressPercent: globalProgress(user.PointBalance, achievement.TargetPoints),
		})
	}
	return out, nil
}

// GetAchievement returns one achievement with its global-balance progress
func (s *AchievementServiceImpl) GetAchievement(ctx context.Context, userID, achievementID primitive.ObjectID) (*models.AchievementWithProgress, error) {
	achievement, err := s.achievementRepo.FindByID(ctx, achievementID)
	if err != nil {
		return nil, err
	}
	if achievement.UserID != userID || !achievement.IsActive {
		return nil, apperrors.ErrNotFound
	}
	if err := s.refreshStatus(ctx, achievement, s.now()); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	habits, err := s.habitRepo.FindByAchievementID(ctx, achievementID)
	if err != nil {
		return nil, err
	}
	return &models.AchievementWithProgress{
		Achievement:     achievement,
		ProgressPercent: globalProgress(user.PointBalance, achievement.TargetPoints),
		Habits:          habits,
	}, nil
}

// UpdateAchievement updates the caller's achievement. A frequency change
// re-anchors the validity window at today; progress already contributed to
// the old window does not carry over.
func (s *AchievementServiceImpl) UpdateAchievement(ctx context.Context, userID, achievementID primitive.ObjectID, req *models.UpdateAchievementRequest) (*models.Achievement, error) {
	achievement, err := s.achievementRepo.FindByID(ctx, achievementID)
	if err != nil {
		return nil, err
	}
	if achievement.UserID != userID || !achievement.IsActive {
		return nil, apperrors.ErrNotFound
	}

	if req.Title != nil {
		achievement.Title = *req.Title
	}
	if req.TargetPoints != nil {
		if *req.TargetPoints <= 0 {
			return nil, apperrors.ErrInvalidPoints
		}
		achievement.TargetPoints = *req.TargetPoints
	}
	if req.Frequency != nil {
		if !req.Frequency.Valid() {
			return nil, apperrors.ErrInvalidFrequency
		}
		if *req.Frequency != achievement.Frequency {
			achievement.Frequency = *req.Frequency
			window := utils.CurrentWindow(achievement.Frequency, s.now(), s.now())
			achievement.ValidFrom = window.Start
			achievement.ValidTo = window.End
			achievement.Status = models.AchievementActive
		}
	}

	if err := s.achievementRepo.Update(ctx, achievement); err != nil {
		return nil, fmt.Errorf("failed to update achievement: %w", err)
	}
	return achievement, nil
}

// DeleteAchievement soft-deletes the caller's achievement. Bound habits keep
// their back reference but fall back to their own frequency from then on.
func (s *AchievementServiceImpl) DeleteAchievement(ctx context.Context, userID, achievementID primitive.ObjectID) error {
	achievement, err := s.achievementRepo.FindByID(ctx, achievementID)
	if err != nil {
		return err
	}
	if achievement.UserID != userID {
		return apperrors.ErrNotFound
	}
	return s.achievementRepo.SoftDelete(ctx, achievementID)
}

// ClaimAchievement debits the target points from the user's global balance.
// The claim gate is the global balance, not the window contribution. Claims
// are final: there is no re-credit path for a mistaken claim.
func (s *AchievementServiceImpl) ClaimAchievement(ctx context.Context, userID, achievementID primitive.ObjectID) (*models.ClaimAchievementResult, error) {
	now := s.now()

	// The lazy transition runs ahead of the debit transaction so that a
	// rejected claim still leaves the persisted EXPIRED/COMPLETED status
	// behind.
	achievement, err := s.achievementRepo.FindByID(ctx, achievementID)
	if err != nil {
		return nil, err
	}
	if achievement.UserID != userID || !achievement.IsActive {
		return nil, apperrors.ErrNotFound
	}
	if err := s.refreshStatus(ctx, achievement, now); err != nil {
		return nil, err
	}

	if err := claimGate(achievement); err != nil {
		slog.Warn("Achievement claim rejected", "achievementId", achievementID.Hex(), "status", achievement.Status)
		return nil, err
	}

	var result *models.ClaimAchievementResult

	err = s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		// Re-read inside the transaction: a concurrent claim may have won
		// between the gate above and here.
		current, err := s.achievementRepo.FindByID(ctx, achievementID)
		if err != nil {
			return err
		}
		if err := claimGate(current); err != nil {
			return err
		}

		balanceAfter, err := s.points.AddPoints(ctx, userID, -current.TargetPoints,
			models.ReasonClaimAchievement, models.RefTypeAchievement, current.ID)
		if err != nil {
			if errors.Is(err, apperrors.ErrInsufficientBalance) {
				return apperrors.ErrInsufficientPoints
			}
			return err
		}

		current.Status = models.AchievementCompleted
		current.ClaimedAt = &now
		if err := s.achievementRepo.Update(ctx, current); err != nil {
			return fmt.Errorf("failed to mark achievement claimed: %w", err)
		}

		result = &models.ClaimAchievementResult{BalanceAfter: balanceAfter}
		slog.Info("Achievement claimed", "achievementId", achievementID.Hex(), "userId", userID.Hex(),
			"debited", current.TargetPoints, "balanceAfter", balanceAfter)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// claimGate reports why the achievement cannot be claimed, nil when it can:
// while ACTIVE inside its window, or once COMPLETED by a weekly window close
// but not yet claimed. A repeat claim and an elapsed window fail differently
// so clients can tell them apart.
func claimGate(achievement *models.Achievement) error {
	if achievement.ClaimedAt != nil {
		return apperrors.ErrAlreadyClaimed
	}
	switch achievement.Status {
	case models.AchievementActive, models.AchievementCompleted:
		return nil
	default:
		return apperrors.ErrExpired
	}
}

// refreshStatus lazily transitions an ACTIVE achievement whose window has
// elapsed.
func (s *AchievementServiceImpl) refreshStatus(ctx context.Context, achievement *models.Achievement, now time.Time) error {
	return lazyTransition(ctx, s.achievementRepo, s.completionRepo, achievement, now)
}

// lazyTransition moves an ACTIVE achievement past its window into its
// terminal state: weekly with its target met by window end completes,
// everything else expires (daily ones unconditionally). No-op while the
// window is still open.
func lazyTransition(ctx context.Context, achievementRepo repositories.AchievementRepository, completionRepo repositories.HabitCompletionRepository, achievement *models.Achievement, now time.Time) error {
	if achievement.Status != models.AchievementActive || !achievement.HasWindow() || !now.After(achievement.ValidTo) {
		return nil
	}

	status := models.AchievementExpired
	if achievement.Frequency == models.FrequencyWeekly && achievement.TargetPoints > 0 {
		contributed, err := completionRepo.SumPointsForAchievement(ctx, achievement.ID, achievement.ValidFrom, achievement.ValidTo)
		if err != nil {
			return fmt.Errorf("failed to compute window contribution: %w", err)
		}
		if contributed >= achievement.TargetPoints {
			status = models.AchievementCompleted
		}
	}

	achievement.Status = status
	if err := achievementRepo.Update(ctx, achievement); err != nil {
		return fmt.Errorf("failed to persist achievement transition: %w", err)
	}
	slog.Info("Achievement window elapsed", "achievementId", achievement.ID.Hex(), "status", status)
	return nil
}

// globalProgress is the listing/detail progress metric, computed against the
// user's global balance and capped at 100.
func globalProgress(balance, target int) int {
	if target <= 0 {
		return 0
	}
	percent := 100 * balance / target
	if percent > 100 {
		return 100
	}
	return percent
}
