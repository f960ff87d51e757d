package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reward is a catalog item a user can redeem points for.
type Reward struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	Title      string             `bson:"title" json:"title"`
	CostPoints int                `bson:"costPoints" json:"costPoints"`
	ExpiryDate *time.Time         `bson:"expiryDate,omitempty" json:"expiryDate,omitempty"`
	IsActive   bool               `bson:"isActive" json:"isActive"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RewardClaim records a redemption of a reward against the ledger.
type RewardClaim struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	RewardID    primitive.ObjectID `bson:"rewardId" json:"rewardId"`
	PointsSpent int                `bson:"pointsSpent" json:"pointsSpent"`
	Status      string             `bson:"status" json:"status"`
	ClaimedAt   time.Time          `bson:"claimedAt" json:"claimedAt"`
}

// RewardClaimStatusClaimed is the terminal status of a successful claim.
const RewardClaimStatusClaimed = "claimed"
