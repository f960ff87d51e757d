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

// Compile-time check to ensure HabitServiceImpl implements HabitService
var _ HabitService = (*HabitServiceImpl)(nil)

// HabitServiceImpl handles habit CRUD and the completion state machine.
type HabitServiceImpl struct {
	habitRepo       repositories.HabitRepository
	achievementRepo repositories.AchievementRepository
	completionRepo  repositories.HabitCompletionRepository
	points          PointsService
	txn             repositories.TxnManager
	now             func() time.Time
}

// NewHabitService creates a new HabitServiceImpl
func NewHabitService(
	habitRepo repositories.HabitRepository,
	achievementRepo repositories.AchievementRepository,
	completionRepo repositories.HabitCompletionRepository,
	points PointsService,
	txn repositories.TxnManager,
) *HabitServiceImpl {
	return &HabitServiceImpl{
		habitRepo:       habitRepo,
		achievementRepo: achievementRepo,
		completionRepo:  completionRepo,
		points:          points,
		txn:             txn,
		now:             time.Now,
	}
}

// effectiveFrequency resolves the cadence actually governing a habit's
// window: inherited from a bound achievement when present, the habit's own
// setting otherwise. Computed on every use, never stored, so the two can't
// drift.
func effectiveFrequency(habit *models.Habit, achievement *models.Achievement) models.Frequency {
	if achievement != nil {
		return achievement.Frequency
	}
	return habit.Frequency
}

// CreateHabit creates a habit, optionally bound to one of the caller's
// achievements.
func (s *HabitServiceImpl) CreateHabit(ctx context.Context, userID primitive.ObjectID, req *models.CreateHabitRequest) (*models.Habit, error) {
	if !req.Frequency.Valid() {
		return nil, apperrors.ErrInvalidFrequency
	}
	if req.PointsPerCompletion <= 0 {
		return nil, apperrors.ErrInvalidPoints
	}

	habit := &models.Habit{
		UserID:              userID,
		Title:               req.Title,
		Frequency:           req.Frequency,
		PointsPerCompletion: req.PointsPerCompletion,
		IsActive:            true,
	}

	if req.AchievementID != "" {
		achievementID, err := primitive.ObjectIDFromHex(req.AchievementID)
		if err != nil {
			return nil, apperrors.ErrNotFound
		}
		achievement, err := s.achievementRepo.FindByID(ctx, achievementID)
		if err != nil {
			return nil, err
		}
		if achievement.UserID != userID || !achievement.IsActive {
			return nil, apperrors.ErrNotFound
		}
		habit.AchievementID = &achievement.ID
	}

	if err := s.habitRepo.Create(ctx, habit); err != nil {
		slog.Error("Failed to create habit", "error", err, "userId", userID.Hex())
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}
	return habit, nil
}

// GetHabits lists the caller's active habits
func (s *HabitServiceImpl) GetHabits(ctx context.Context, userID primitive.ObjectID) ([]*models.Habit, error) {
	return s.habitRepo.FindByUserID(ctx, userID)
}

// UpdateHabit updates the caller's habit
func (s *HabitServiceImpl) UpdateHabit(ctx context.Context, userID, habitID primitive.ObjectID, req *models.UpdateHabitRequest) (*models.Habit, error) {
	habit, err := s.habitRepo.FindByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID || !habit.IsActive {
		return nil, apperrors.ErrNotFound
	}

	if req.Title != nil {
		habit.Title = *req.Title
	}
	if req.Frequency != nil {
		if !req.Frequency.Valid() {
			return nil, apperrors.ErrInvalidFrequency
		}
		habit.Frequency = *req.Frequency
	}
	if req.PointsPerCompletion != nil {
		if *req.PointsPerCompletion <= 0 {
			return nil, apperrors.ErrInvalidPoints
		}
		habit.PointsPerCompletion = *req.PointsPerCompletion
	}

	if err := s.habitRepo.Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("failed to update habit: %w", err)
	}
	return habit, nil
}

// DeleteHabit soft-deletes the caller's habit, keeping completions and
// ledger references intact
func (s *HabitServiceImpl) DeleteHabit(ctx context.Context, userID, habitID primitive.ObjectID) error {
	habit, err := s.habitRepo.FindByID(ctx, habitID)
	if err != nil {
		return err
	}
	if habit.UserID != userID {
		return apperrors.ErrNotFound
	}
	return s.habitRepo.SoftDelete(ctx, habitID)
}

// CompleteHabit runs the once-per-window completion flow. Eligibility and
// the lazy achievement transition run first and persist even when the
// completion is rejected; the duplicate check, the ledger credit and the
// completion record then land together in one transaction or not at all.
func (s *HabitServiceImpl) CompleteHabit(ctx context.Context, userID, habitID primitive.ObjectID) (*models.CompletionResult, error) {
	now := s.now()

	habit, err := s.habitRepo.FindByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID || !habit.IsActive {
		return nil, apperrors.ErrNotFound
	}

	// Resolve the bound achievement and run its lazy transition before
	// opening the credit transaction: a rejected completion must not roll
	// the persisted transition back.
	achievement, err := s.loadBoundAchievement(ctx, habit, now)
	if err != nil {
		return nil, err
	}

	freq := effectiveFrequency(habit, achievement)

	// The achievement's stored validity window governs bound habits;
	// standalone habits get a fresh window anchored at today.
	var window utils.Window
	if achievement != nil {
		if err := s.expireIfPast(ctx, achievement, now); err != nil {
			return nil, err
		}
		window = utils.Window{Start: achievement.ValidFrom, End: achievement.ValidTo}
		if achievement.Status != models.AchievementActive || !window.Contains(now) {
			slog.Warn("Completion rejected, achievement window closed",
				"habitId", habitID.Hex(), "achievementId", achievement.ID.Hex(), "status", achievement.Status)
			return nil, apperrors.ErrWindowClosed
		}
	} else {
		window = utils.CurrentWindow(freq, now, now)
	}

	var result *models.CompletionResult

	err = s.txn.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.completionRepo.FindInWindow(ctx, habitID, window.Start, window.End)
		if err != nil {
			return fmt.Errorf("failed to check existing completion: %w", err)
		}
		if existing != nil {
			return apperrors.ErrAlreadyCompleted
		}

		if habit.PointsPerCompletion <= 0 {
			return apperrors.ErrInvalidPoints
		}

		newBalance, err := s.points.AddPoints(ctx, userID, habit.PointsPerCompletion,
			models.ReasonCompletedHabit, models.RefTypeHabit, habit.ID)
		if err != nil {
			return err
		}

		// Attribute the completion only to a live achievement: a habit whose
		// achievement was soft-deleted runs in fallback mode and must not
		// inflate the dead achievement's window sum.
		var boundID *primitive.ObjectID
		if achievement != nil {
			boundID = &achievement.ID
		}

		completion := &models.HabitCompletion{
			UserID:        userID,
			HabitID:       habitID,
			AchievementID: boundID,
			CompletedAt:   now,
			PointsAwarded: habit.PointsPerCompletion,
			PeriodKey:     utils.PeriodKey(freq, window),
		}
		if err := s.completionRepo.Create(ctx, completion); err != nil {
			// A concurrent completion may win the unique index between our
			// check and this insert; the whole transaction unwinds.
			return err
		}

		result = &models.CompletionResult{
			AddedPoints: habit.PointsPerCompletion,
			NewBalance:  newBalance,
			CompletedAt: now,
		}

		if achievement != nil {
			progress, err := s.windowProgress(ctx, achievement)
			if err != nil {
				return err
			}
			result.Achievement = progress
		}

		slog.Info("Habit completed", "habitId", habitID.Hex(), "userId", userID.Hex(),
			"points", habit.PointsPerCompletion, "periodKey", completion.PeriodKey)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// loadBoundAchievement resolves the habit's bound achievement, initializing
// its validity window on first touch. An inactive (soft-deleted) achievement
// no longer binds the habit.
func (s *HabitServiceImpl) loadBoundAchievement(ctx context.Context, habit *models.Habit, now time.Time) (*models.Achievement, error) {
	if habit.AchievementID == nil {
		return nil, nil
	}
	achievement, err := s.achievementRepo.FindByID(ctx, *habit.AchievementID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !achievement.IsActive {
		return nil, nil
	}

	if !achievement.HasWindow() {
		window := utils.CurrentWindow(achievement.Frequency, achievement.CreatedAt, now)
		achievement.ValidFrom = window.Start
		achievement.ValidTo = window.End
		achievement.Status = models.AchievementActive
		if err := s.achievementRepo.Update(ctx, achievement); err != nil {
			return nil, fmt.Errorf("failed to initialize achievement window: %w", err)
		}
	}
	return achievement, nil
}

// expireIfPast lazily transitions an achievement whose window has elapsed.
func (s *HabitServiceImpl) expireIfPast(ctx context.Context, achievement *models.Achievement, now time.Time) error {
	return lazyTransition(ctx, s.achievementRepo, s.completionRepo, achievement, now)
}

// windowProgress reports the achievement's current-window contribution.
// This is the per-window metric: it drives the claimable flag shown after a
// completion and is distinct from the global-balance progress used by the
// listing views.
func (s *HabitServiceImpl) windowProgress(ctx context.Context, achievement *models.Achievement) (*models.AchievementProgress, error) {
	contributed, err := s.completionRepo.SumPointsForAchievement(ctx, achievement.ID, achievement.ValidFrom, achievement.ValidTo)
	if err != nil {
		return nil, fmt.Errorf("failed to compute window contribution: %w", err)
	}

	percent := 0
	if achievement.TargetPoints > 0 {
		percent = 100 * contributed / achievement.TargetPoints
	}
	return &models.AchievementProgress{
		AchievementID:   achievement.ID,
		Contributed:     contributed,
		TargetPoints:    achievement.TargetPoints,
		ProgressPercent: percent,
		Claimable:       achievement.TargetPoints > 0 && contributed >= achievement.TargetPoints,
	}, nil
}
