package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HabitCompletion is an immutable event recording that a habit was completed
// once within a window. PeriodKey is the canonical key of that window and is
// covered by a unique index together with HabitID, so at most one completion
// per habit per window can ever be inserted. Rows are never updated or
// deleted; they are the anti-cheat gate and the audit trail.
type HabitCompletion struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID  `bson:"userId" json:"userId"`
	HabitID       primitive.ObjectID  `bson:"habitId" json:"habitId"`
	AchievementID *primitive.ObjectID `bson:"achievementId,omitempty" json:"achievementId,omitempty"`
	CompletedAt   time.Time           `bson:"completedAt" json:"completedAt"`
	PointsAwarded int                 `bson:"pointsAwarded" json:"pointsAwarded"`
	PeriodKey     string              `bson:"periodKey" json:"periodKey"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
}
