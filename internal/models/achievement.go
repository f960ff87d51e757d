package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AchievementStatus is the lifecycle state of an achievement.
type AchievementStatus string

const (
	AchievementActive    AchievementStatus = "ACTIVE"
	AchievementCompleted AchievementStatus = "COMPLETED"
	AchievementExpired   AchievementStatus = "EXPIRED"
)

// Achievement is a point target a user works toward within a validity window.
// ValidFrom/ValidTo are the current window's absolute bounds. While the
// status is ACTIVE, now should lie inside [ValidFrom, ValidTo]; the
// transition out of ACTIVE is evaluated lazily on the next access, there is
// no background sweep.
type Achievement struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Title        string             `bson:"title" json:"title"`
	TargetPoints int                `bson:"targetPoints" json:"targetPoints"`
	Frequency    Frequency          `bson:"frequency" json:"frequency"`
	Status       AchievementStatus  `bson:"status" json:"status"`
	ValidFrom    time.Time          `bson:"validFrom,omitempty" json:"validFrom,omitempty"`
	ValidTo      time.Time          `bson:"validTo,omitempty" json:"validTo,omitempty"`
	ClaimedAt    *time.Time         `bson:"claimedAt,omitempty" json:"claimedAt,omitempty"`
	IsActive     bool               `bson:"isActive" json:"isActive"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasWindow reports whether the achievement's validity window has been
// initialized.
func (a *Achievement) HasWindow() bool {
	return !a.ValidFrom.IsZero() && !a.ValidTo.IsZero()
}

// AchievementProgress is the per-window progress reported back to a caller
// after a completion against a bound habit. Contributed counts only points
// earned inside the achievement's current window; the Claimable flag is
// derived from it, not from the user's global balance.
type AchievementProgress struct {
	AchievementID   primitive.ObjectID `json:"achievementId"`
	Contributed     int                `json:"contributed"`
	TargetPoints    int                `json:"targetPoints"`
	ProgressPercent int                `json:"progressPercent"`
	Claimable       bool               `json:"claimable"`
}
