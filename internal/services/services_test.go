package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/kebiasaanku/kebiasaanku-backend/internal/models"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/repositories/memory"
	"github.com/kebiasaanku/kebiasaanku-backend/internal/utils"
)

// baseTime is a Monday morning in WIB; weekly windows in the tests are
// anchored on it unless a test says otherwise.
var baseTime = time.Date(2024, 5, 13, 10, 0, 0, 0, utils.WIB)

// fakeClock is a mutable clock injected into the services under test.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// fixture wires the full service stack over the in-memory store.
type fixture struct {
	store *memory.Store
	clock *fakeClock

	userRepo        *memory.UserRepository
	habitRepo       *memory.HabitRepository
	completionRepo  *memory.HabitCompletionRepository
	achievementRepo *memory.AchievementRepository
	ledgerRepo      *memory.PointLedgerRepository
	rewardRepo      *memory.RewardRepository
	claimRepo       *memory.RewardClaimRepository

	points       *PointsServiceImpl
	habits       *HabitServiceImpl
	achievements *AchievementServiceImpl
	rewards      *RewardServiceImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	clock := newFakeClock(baseTime)

	f := &fixture{
		store:           store,
		clock:           clock,
		userRepo:        memory.NewUserRepository(store),
		habitRepo:       memory.NewHabitRepository(store),
		completionRepo:  memory.NewHabitCompletionRepository(store),
		achievementRepo: memory.NewAchievementRepository(store),
		ledgerRepo:      memory.NewPointLedgerRepository(store),
		rewardRepo:      memory.NewRewardRepository(store),
		claimRepo:       memory.NewRewardClaimRepository(store),
	}

	f.points = NewPointsService(f.userRepo, f.ledgerRepo, store)
	f.habits = NewHabitService(f.habitRepo, f.achievementRepo, f.completionRepo, f.points, store)
	f.habits.now = clock.Now
	f.achievements = NewAchievementService(f.achievementRepo, f.completionRepo, f.habitRepo, f.userRepo, f.points, store)
	f.achievements.now = clock.Now
	f.rewards = NewRewardService(f.rewardRepo, f.claimRepo, f.points, store)
	f.rewards.now = clock.Now

	return f
}

func (f *fixture) createUser(t *testing.T) *models.User {
	t.Helper()
	user := &models.User{
		Email:        primitive.NewObjectID().Hex() + "@example.com",
		Name:         "Tester",
		PasswordHash: "x",
	}
	require.NoError(t, f.userRepo.Create(context.Background(), user))
	return user
}

// fund credits points through the ledger so the running-balance invariant
// stays checkable afterwards.
func (f *fixture) fund(t *testing.T, userID primitive.ObjectID, amount int) {
	t.Helper()
	_, err := f.points.AddPointsAtomic(context.Background(), userID, amount,
		models.ReasonCompletedHabit, models.RefTypeHabit, primitive.NewObjectID())
	require.NoError(t, err)
}

func (f *fixture) createHabit(t *testing.T, userID primitive.ObjectID, freq models.Frequency, pts int) *models.Habit {
	t.Helper()
	habit, err := f.habits.CreateHabit(context.Background(), userID, &models.CreateHabitRequest{
		Title:               "Habit",
		Frequency:           freq,
		PointsPerCompletion: pts,
	})
	require.NoError(t, err)
	return habit
}

func (f *fixture) createAchievement(t *testing.T, userID primitive.ObjectID, freq models.Frequency, target int) *models.Achievement {
	t.Helper()
	achievement, err := f.achievements.CreateAchievement(context.Background(), userID, &models.CreateAchievementRequest{
		Title:        "Achievement",
		TargetPoints: target,
		Frequency:    freq,
	})
	require.NoError(t, err)
	return achievement
}

func (f *fixture) createBoundHabit(t *testing.T, userID, achievementID primitive.ObjectID, pts int) *models.Habit {
	t.Helper()
	habit, err := f.habits.CreateHabit(context.Background(), userID, &models.CreateHabitRequest{
		Title:               "Bound habit",
		Frequency:           models.FrequencyDaily,
		PointsPerCompletion: pts,
		AchievementID:       achievementID.Hex(),
	})
	require.NoError(t, err)
	return habit
}

func (f *fixture) balance(t *testing.T, userID primitive.ObjectID) int {
	t.Helper()
	user, err := f.userRepo.FindByID(context.Background(), userID)
	require.NoError(t, err)
	return user.PointBalance
}

// assertLedgerConsistent checks the ledger invariants for a user: the deltas
// sum to the current balance, every BalanceAfter continues the running sum,
// and no entry ever drops below zero.
func (f *fixture) assertLedgerConsistent(t *testing.T, userID primitive.ObjectID) {
	t.Helper()

	entries, err := f.points.History(context.Background(), userID, 1, 100)
	require.NoError(t, err)

	// History is newest first; walk oldest to newest.
	running := 0
	for i := len(entries) - 1; i >= 0; i-- {
		running += entries[i].Delta
		require.Equal(t, running, entries[i].BalanceAfter, "running balance broken at entry %d", i)
		require.GreaterOrEqual(t, entries[i].BalanceAfter, 0, "balance went negative at entry %d", i)
	}
	require.Equal(t, f.balance(t, userID), running, "user balance diverged from ledger")
}
