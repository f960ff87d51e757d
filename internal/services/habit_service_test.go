package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/apperrors"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
)

func TestCreateHabitValidation(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	ctx := context.Background()

	_, err := f.habits.CreateHabit(ctx, user.ID, &models.CreateHabitRequest{
		Title:               "Bad cadence",
		Frequency:           "MONTHLY",
		PointsPerCompletion: 10,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidFrequency)

	_, err = f.habits.CreateHabit(ctx, user.ID, &models.CreateHabitRequest{
		Title:               "Worthless",
		Frequency:           models.FrequencyDaily,
		PointsPerCompletion: 0,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPoints)
}

func TestCreateHabitBoundToForeignAchievementRejected(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t)
	intruder := f.createUser(t)
	achievement := f.createAchievement(t, owner.ID, models.FrequencyWeekly, 100)

	_, err := f.habits.CreateHabit(context.Background(), intruder.ID, &models.CreateHabitRequest{
		Title:               "Not yours",
		Frequency:           models.FrequencyDaily,
		PointsPerCompletion: 10,
		AchievementID:       achievement.ID.Hex(),
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCompleteHabitDaily(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	habit := f.createHabit(t, user.ID, models.FrequencyDaily, 10)

	result, err := f.habits.CompleteHabit(context.Background(), user.ID, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, result.AddedPoints)
	assert.Equal(t, 10, result.NewBalance)
	assert.Nil(t, result.Achievement)

	assert.Equal(t, 10, f.balance(t, user.ID))
	f.assertLedgerConsistent(t, user.ID)
}

func TestCompleteHabitTwiceSameDayRejected(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	habit := f.createHabit(t, user.ID, models.FrequencyDaily, 10)
	ctx := context.Background()

	_, err := f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)

	// Still the same civil day, even right before midnight.
	f.clock.Set(time.Date(2024, 5, 13, 23, 59, 59, 0, baseTime.Location()))
	_, err = f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyCompleted)

	// The rejection awards nothing.
	assert.Equal(t, 10, f.balance(t, user.ID))
	f.assertLedgerConsistent(t, user.ID)
}

func TestCompleteHabitNextCivilDaySucceeds(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	habit := f.createHabit(t, user.ID, models.FrequencyDaily, 10)
	ctx := context.Background()

	_, err := f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)

	// One second past midnight opens a fresh window.
	f.clock.Set(time.Date(2024, 5, 14, 0, 0, 1, 0, baseTime.Location()))
	result, err := f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, result.NewBalance)
	f.assertLedgerConsistent(t, user.ID)
}

func TestCompleteStandaloneWeeklySelfAnchoredWindow(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	habit := f.createHabit(t, user.ID, models.FrequencyWeekly, 50)
	ctx := context.Background()

	// A standalone weekly habit anchors its window at "today"; only a bound
	// habit gets a fixed cadence from its achievement.
	_, err := f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)

	// Later the same day the window still covers the first completion.
	f.clock.Advance(10 * time.Hour)
	_, err = f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyCompleted)

	// The next day the self-anchored window has moved past yesterday's
	// completion.
	f.clock.Advance(24 * time.Hour)
	result, err := f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, result.NewBalance)
}

func TestCompleteHabitOwnership(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t)
	intruder := f.createUser(t)
	habit := f.createHabit(t, owner.ID, models.FrequencyDaily, 10)

	_, err := f.habits.CompleteHabit(context.Background(), intruder.ID, habit.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCompleteDeletedHabitRejected(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	habit := f.createHabit(t, user.ID, models.FrequencyDaily, 10)
	ctx := context.Background()

	require.NoError(t, f.habits.DeleteHabit(ctx, user.ID, habit.ID))
	_, err := f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCompleteBoundHabitReportsWindowProgress(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	achievement := f.createAchievement(t, user.ID, models.FrequencyWeekly, 100)
	habit := f.createBoundHabit(t, user.ID, achievement.ID, 60)
	ctx := context.Background()

	result, err := f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	require.NotNil(t, result.Achievement)
	assert.Equal(t, 60, result.Achievement.Contributed)
	assert.Equal(t, 60, result.Achievement.ProgressPercent)
	assert.False(t, result.Achievement.Claimable)

	// A second habit bound to the same achievement pushes it over the target.
	second := f.createBoundHabit(t, user.ID, achievement.ID, 60)
	result, err = f.habits.CompleteHabit(ctx, user.ID, second.ID)
	require.NoError(t, err)
	require.NotNil(t, result.Achievement)
	assert.Equal(t, 120, result.Achievement.Contributed)
	assert.True(t, result.Achievement.Claimable)
}

func TestCompleteBoundHabitInheritsAchievementFrequency(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	// Weekly achievement; the bound habit's own DAILY setting must not apply.
	achievement := f.createAchievement(t, user.ID, models.FrequencyWeekly, 500)
	habit := f.createBoundHabit(t, user.ID, achievement.ID, 10)
	ctx := context.Background()

	_, err := f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)

	// Next day would be a fresh daily window, but the weekly window still
	// covers it.
	f.clock.Advance(24 * time.Hour)
	_, err = f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyCompleted)
}

func TestCompleteBoundHabitAfterWindowCloses(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	achievement := f.createAchievement(t, user.ID, models.FrequencyWeekly, 100)
	habit := f.createBoundHabit(t, user.ID, achievement.ID, 10)
	ctx := context.Background()

	f.clock.Advance(8 * 24 * time.Hour)
	_, err := f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	assert.ErrorIs(t, err, apperrors.ErrWindowClosed)

	// The rejection itself performed the lazy transition.
	stored, err := f.achievementRepo.FindByID(ctx, achievement.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AchievementExpired, stored.Status)

	// Nothing was credited.
	assert.Equal(t, 0, f.balance(t, user.ID))
}

func TestCompleteHabitBoundToDeletedAchievementFallsBack(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	achievement := f.createAchievement(t, user.ID, models.FrequencyWeekly, 100)
	habit := f.createBoundHabit(t, user.ID, achievement.ID, 10)
	ctx := context.Background()

	require.NoError(t, f.achievements.DeleteAchievement(ctx, user.ID, achievement.ID))

	// With the achievement gone the habit runs on its own daily cadence.
	result, err := f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	assert.Nil(t, result.Achievement)

	f.clock.Advance(24 * time.Hour)
	_, err = f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)

	// Fallback-mode completions are not attributed to the dead achievement
	// and never inflate its window sum.
	completions, err := f.completionRepo.FindByUserID(ctx, user.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, completions, 2)
	for _, completion := range completions {
		assert.Nil(t, completion.AchievementID)
	}
	sum, err := f.completionRepo.SumPointsForAchievement(ctx, achievement.ID, achievement.ValidFrom, achievement.ValidTo)
	require.NoError(t, err)
	assert.Equal(t, 0, sum)
}

func TestUpdateHabitValidation(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	habit := f.createHabit(t, user.ID, models.FrequencyDaily, 10)
	ctx := context.Background()

	bad := models.Frequency("HOURLY")
	_, err := f.habits.UpdateHabit(ctx, user.ID, habit.ID, &models.UpdateHabitRequest{Frequency: &bad})
	assert.ErrorIs(t, err, apperrors.ErrInvalidFrequency)

	zero := 0
	_, err = f.habits.UpdateHabit(ctx, user.ID, habit.ID, &models.UpdateHabitRequest{PointsPerCompletion: &zero})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPoints)

	title := "Renamed"
	updated, err := f.habits.UpdateHabit(ctx, user.ID, habit.ID, &models.UpdateHabitRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
}

func TestCompleteHabitConcurrentOnlyOneWins(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	habit := f.createHabit(t, user.ID, models.FrequencyDaily, 10)
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.habits.CompleteHabit(ctx, user.ID, habit.ID)
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrAlreadyCompleted)
		}
	}
	assert.Equal(t, 1, successes, "exactly one concurrent completion may win")

	// One award, one completion, consistent ledger.
	assert.Equal(t, 10, f.balance(t, user.ID))
	completions, err := f.completionRepo.FindByUserID(ctx, user.ID, 1, attempts)
	require.NoError(t, err)
	assert.Len(t, completions, 1)
	f.assertLedgerConsistent(t, user.ID)
}

func TestCompletionRecordCarriesPeriodKey(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	habit := f.createHabit(t, user.ID, models.FrequencyDaily, 10)
	ctx := context.Background()

	_, err := f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)

	completions, err := f.completionRepo.FindByUserID(ctx, user.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, completions, 1)
	assert.Equal(t, "d:2024-05-13", completions[0].PeriodKey)
	assert.Equal(t, 10, completions[0].PointsAwarded)
	assert.Equal(t, habit.ID, completions[0].HabitID)
	assert.Nil(t, completions[0].AchievementID)
}
