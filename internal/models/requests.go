package models

import "time"

// CreateHabitRequest is the payload for creating a habit. AchievementID, when
// set, binds the habit to one of the caller's achievements.
type CreateHabitRequest struct {
	Title               string    `json:"title" binding:"required"`
	Frequency           Frequency `json:"frequency" binding:"required"`
	PointsPerCompletion int       `json:"pointsPerCompletion" binding:"required,gt=0"`
	AchievementID       string    `json:"achievementId"`
}

// UpdateHabitRequest is the payload for updating a habit.
type UpdateHabitRequest struct {
	Title               *string    `json:"title"`
	Frequency           *Frequency `json:"frequency"`
	PointsPerCompletion *int       `json:"pointsPerCompletion"`
}

// CreateAchievementRequest is the payload for creating an achievement.
type CreateAchievementRequest struct {
	Title        string    `json:"title" binding:"required"`
	TargetPoints int       `json:"targetPoints" binding:"required,gt=0"`
	Frequency    Frequency `json:"frequency" binding:"required"`
}

// UpdateAchievementRequest is the payload for updating an achievement.
type UpdateAchievementRequest struct {
	Title        *string    `json:"title"`
	TargetPoints *int       `json:"targetPoints"`
	Frequency    *Frequency `json:"frequency"`
}

// CreateRewardRequest is the payload for creating a reward.
type CreateRewardRequest struct {
	Title      string     `json:"title" binding:"required"`
	CostPoints int        `json:"costPoints" binding:"required,gt=0"`
	ExpiryDate *time.Time `json:"expiryDate"`
}

// UpdateRewardRequest is the payload for updating a reward.
type UpdateRewardRequest struct {
	Title      *string    `json:"title"`
	CostPoints *int       `json:"costPoints"`
	ExpiryDate *time.Time `json:"expiryDate"`
}
