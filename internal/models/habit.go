package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Frequency is the cadence governing a habit's completion window.
type Frequency string

const (
	FrequencyDaily  Frequency = "DAILY"
	FrequencyWeekly Frequency = "WEEKLY"
)

// Valid reports whether f is a known frequency value.
func (f Frequency) Valid() bool {
	return f == FrequencyDaily || f == FrequencyWeekly
}

// Habit represents a recurring task a user wants to track. A habit may be
// bound to an achievement (AchievementID set), in which case the achievement's
// frequency and window govern its completions instead of the habit's own.
type Habit struct {
	ID                  primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	UserID              primitive.ObjectID  `bson:"userId" json:"userId"`
	AchievementID       *primitive.ObjectID `bson:"achievementId,omitempty" json:"achievementId,omitempty"`
	Title               string              `bson:"title" json:"title"`
	Frequency           Frequency           `bson:"frequency" json:"frequency"`
	PointsPerCompletion int                 `bson:"pointsPerCompletion" json:"pointsPerCompletion"`
	IsActive            bool                `bson:"isActive" json:"isActive"`
	CreatedAt           time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time           `bson:"updatedAt" json:"updatedAt"`
}
