package models

import "time"

// CompletionResult is returned to the caller after a successful habit
// completion.
type CompletionResult struct {
	AddedPoints int                  `json:"addedPoints"`
	NewBalance  int                  `json:"newBalance"`
	CompletedAt time.Time            `json:"completedAt"`
	Achievement *AchievementProgress `json:"achievementProgress,omitempty"`
}

// ClaimAchievementResult is returned after a successful achievement claim.
type ClaimAchievementResult struct {
	BalanceAfter int `json:"balanceAfter"`
}

// ClaimRewardResult is returned after a successful reward claim.
type ClaimRewardResult struct {
	BalanceAfter int    `json:"balanceAfter"`
	ClaimID      string `json:"claimId"`
}

// AchievementWithProgress decorates an achievement with its global-balance
// progress for listing and detail views. This metric is distinct from the
// per-window contribution reported in AchievementProgress: the global balance
// gates claiming, the window contribution only reports how the current window
// is going.
type AchievementWithProgress struct {
	Achievement     *Achievement `json:"achievement"`
	ProgressPercent int          `json:"progressPercent"`
	// Habits bound to the achievement; populated on the detail view only.
	Habits []*Habit `json:"habits,omitempty"`
}
