package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/apperrors"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/utils"
)

func TestCreateAchievementValidation(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	ctx := context.Background()

	_, err := f.achievements.CreateAchievement(ctx, user.ID, &models.CreateAchievementRequest{
		Title:        "Bad cadence",
		TargetPoints: 100,
		Frequency:    "YEARLY",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidFrequency)

	_, err = f.achievements.CreateAchievement(ctx, user.ID, &models.CreateAchievementRequest{
		Title:        "No target",
		TargetPoints: 0,
		Frequency:    models.FrequencyWeekly,
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPoints)
}

func TestCreateAchievementAnchorsWindowAtToday(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)

	achievement := f.createAchievement(t, user.ID, models.FrequencyWeekly, 100)

	wantStart := utils.DayStart(baseTime)
	assert.True(t, achievement.ValidFrom.Equal(wantStart))
	assert.True(t, achievement.ValidTo.Equal(wantStart.Add(7*24*time.Hour-time.Millisecond)))
	assert.Equal(t, models.AchievementActive, achievement.Status)
}

func TestUpdateAchievementValidation(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	achievement := f.createAchievement(t, user.ID, models.FrequencyWeekly, 100)
	ctx := context.Background()

	bad := models.Frequency("MONTHLY")
	_, err := f.achievements.UpdateAchievement(ctx, user.ID, achievement.ID, &models.UpdateAchievementRequest{Frequency: &bad})
	assert.ErrorIs(t, err, apperrors.ErrInvalidFrequency)

	zero := 0
	_, err = f.achievements.UpdateAchievement(ctx, user.ID, achievement.ID, &models.UpdateAchievementRequest{TargetPoints: &zero})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPoints)

	title := "Pekan Bugar"
	target := 250
	updated, err := f.achievements.UpdateAchievement(ctx, user.ID, achievement.ID, &models.UpdateAchievementRequest{
		Title:        &title,
		TargetPoints: &target,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pekan Bugar", updated.Title)
	assert.Equal(t, 250, updated.TargetPoints)
	// Same frequency, same window.
	assert.True(t, updated.ValidFrom.Equal(achievement.ValidFrom))
	assert.True(t, updated.ValidTo.Equal(achievement.ValidTo))
}

func TestUpdateAchievementFrequencyChangeReanchorsWindow(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	achievement := f.createAchievement(t, user.ID, models.FrequencyWeekly, 100)
	ctx := context.Background()

	f.clock.Advance(48 * time.Hour)
	daily := models.FrequencyDaily
	updated, err := f.achievements.UpdateAchievement(ctx, user.ID, achievement.ID, &models.UpdateAchievementRequest{Frequency: &daily})
	require.NoError(t, err)

	wantStart := utils.DayStart(f.clock.Now())
	assert.True(t, updated.ValidFrom.Equal(wantStart))
	assert.True(t, updated.ValidTo.Equal(wantStart.Add(24*time.Hour-time.Millisecond)))
	assert.Equal(t, models.AchievementActive, updated.Status)
}

func TestUpdateAchievementOwnership(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t)
	intruder := f.createUser(t)
	achievement := f.createAchievement(t, owner.ID, models.FrequencyWeekly, 100)
	ctx := context.Background()

	title := "Hijacked"
	_, err := f.achievements.UpdateAchievement(ctx, intruder.ID, achievement.ID, &models.UpdateAchievementRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, f.achievements.DeleteAchievement(ctx, owner.ID, achievement.ID))
	_, err = f.achievements.UpdateAchievement(ctx, owner.ID, achievement.ID, &models.UpdateAchievementRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestClaimAchievementGateIsGlobalBalance(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	achievement := f.createAchievement(t, user.ID, models.FrequencyWeekly, 150)
	ctx := context.Background()

	// 149 is one short of the 150 target.
	f.fund(t, user.ID, 149)
	_, err := f.achievements.ClaimAchievement(ctx, user.ID, achievement.ID)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPoints)
	assert.Equal(t, 149, f.balance(t, user.ID))
	f.assertLedgerConsistent(t, user.ID)

	// Exactly 150 debits the full target down to zero.
	f.fund(t, user.ID, 1)
	result, err := f.achievements.ClaimAchievement(ctx, user.ID, achievement.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, result.BalanceAfter)
	assert.Equal(t, 0, f.balance(t, user.ID))
	f.assertLedgerConsistent(t, user.ID)

	stored, err := f.achievementRepo.FindByID(ctx, achievement.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AchievementCompleted, stored.Status)
	require.NotNil(t, stored.ClaimedAt)
}

func TestClaimAchievementTwiceRejected(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	achievement := f.createAchievement(t, user.ID, models.FrequencyDaily, 50)
	ctx := context.Background()

	f.fund(t, user.ID, 120)
	_, err := f.achievements.ClaimAchievement(ctx, user.ID, achievement.ID)
	require.NoError(t, err)

	// A repeat claim is distinguishable from an expired one.
	_, err = f.achievements.ClaimAchievement(ctx, user.ID, achievement.ID)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyClaimed)

	// Only one debit happened.
	assert.Equal(t, 70, f.balance(t, user.ID))
	f.assertLedgerConsistent(t, user.ID)
}

func TestClaimAchievementOwnership(t *testing.T) {
	f := newFixture(t)
	owner := f.createUser(t)
	intruder := f.createUser(t)
	achievement := f.createAchievement(t, owner.ID, models.FrequencyDaily, 50)

	f.fund(t, intruder.ID, 100)
	_, err := f.achievements.ClaimAchievement(context.Background(), intruder.ID, achievement.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDailyAchievementExpiresUnconditionally(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	achievement := f.createAchievement(t, user.ID, models.FrequencyDaily, 30)
	habit := f.createBoundHabit(t, user.ID, achievement.ID, 30)
	ctx := context.Background()

	// Meet the target inside the window; daily achievements still expire at
	// window end without a claim.
	_, err := f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)

	f.clock.Advance(24 * time.Hour)
	got, err := f.achievements.GetAchievement(ctx, user.ID, achievement.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AchievementExpired, got.Achievement.Status)

	_, err = f.achievements.ClaimAchievement(ctx, user.ID, achievement.ID)
	assert.ErrorIs(t, err, apperrors.ErrExpired)
}

func TestWeeklyAchievementCompletesWhenTargetMetByWindowEnd(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	achievement := f.createAchievement(t, user.ID, models.FrequencyWeekly, 100)
	habit := f.createBoundHabit(t, user.ID, achievement.ID, 60)
	second := f.createBoundHabit(t, user.ID, achievement.ID, 60)
	ctx := context.Background()

	_, err := f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)
	_, err = f.habits.CompleteHabit(ctx, user.ID, second.ID)
	require.NoError(t, err)

	// Past the window the lazy transition finds 120 >= 100 contributed.
	f.clock.Advance(8 * 24 * time.Hour)
	got, err := f.achievements.GetAchievement(ctx, user.ID, achievement.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AchievementCompleted, got.Achievement.Status)

	// COMPLETED-but-unclaimed is still claimable against the global balance.
	result, err := f.achievements.ClaimAchievement(ctx, user.ID, achievement.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, result.BalanceAfter)
	f.assertLedgerConsistent(t, user.ID)
}

func TestWeeklyAchievementExpiresWhenTargetUnmet(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	achievement := f.createAchievement(t, user.ID, models.FrequencyWeekly, 100)
	habit := f.createBoundHabit(t, user.ID, achievement.ID, 30)
	ctx := context.Background()

	_, err := f.habits.CompleteHabit(ctx, user.ID, habit.ID)
	require.NoError(t, err)

	f.clock.Advance(8 * 24 * time.Hour)
	got, err := f.achievements.GetAchievement(ctx, user.ID, achievement.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AchievementExpired, got.Achievement.Status)
}

func TestListingProgressUsesGlobalBalance(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	f.createAchievement(t, user.ID, models.FrequencyWeekly, 200)
	ctx := context.Background()

	f.fund(t, user.ID, 50)
	list, err := f.achievements.GetAchievements(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 25, list[0].ProgressPercent)

	// The listing metric is capped at 100 even when the balance overshoots.
	f.fund(t, user.ID, 1000)
	list, err = f.achievements.GetAchievements(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, list[0].ProgressPercent)
}

func TestAchievementDetailListsBoundHabits(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	achievement := f.createAchievement(t, user.ID, models.FrequencyWeekly, 100)
	habit := f.createBoundHabit(t, user.ID, achievement.ID, 30)
	f.createHabit(t, user.ID, models.FrequencyDaily, 10) // standalone, excluded

	got, err := f.achievements.GetAchievement(context.Background(), user.ID, achievement.ID)
	require.NoError(t, err)
	require.Len(t, got.Habits, 1)
	assert.Equal(t, habit.ID, got.Habits[0].ID)
}

func TestDeletedAchievementHiddenFromReads(t *testing.T) {
	f := newFixture(t)
	user := f.createUser(t)
	achievement := f.createAchievement(t, user.ID, models.FrequencyWeekly, 100)
	ctx := context.Background()

	require.NoError(t, f.achievements.DeleteAchievement(ctx, user.ID, achievement.ID))

	_, err := f.achievements.GetAchievement(ctx, user.ID, achievement.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	list, err := f.achievements.GetAchievements(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
