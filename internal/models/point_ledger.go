package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ledger reasons written by the services.
const (
	ReasonCompletedHabit   = "completed_habit"
	ReasonClaimAchievement = "claim_achievement"
	ReasonClaimReward      = "claim"
)

// Referenced entity kinds for ledger entries.
const (
	RefTypeHabit       = "Habit"
	RefTypeAchievement = "Achievement"
	RefTypeReward      = "Reward"
)

// PointLedger is an immutable append-only entry recording a signed point
// movement for a user. Entries ordered by creation form a strictly
// consistent running sum: BalanceAfter[n] = BalanceAfter[n-1] + Delta[n],
// and BalanceAfter is never negative. The ledger is the source of truth for
// balance history; User.PointBalance is a denormalization of the latest
// BalanceAfter.
type PointLedger struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	Delta        int                `bson:"delta" json:"delta"`
	Reason       string             `bson:"reason" json:"reason"`
	RefType      string             `bson:"refType" json:"refType"`
	RefID        primitive.ObjectID `bson:"refId" json:"refId"`
	BalanceAfter int                `bson:"balanceAfter" json:"balanceAfter"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
