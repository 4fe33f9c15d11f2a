package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/loyaltap/backend/pkg/pubsub"
	"github.com/loyaltap/backend/pkg/xcontext"
)

const (
	ScanTopic      = "scans"
	PointsTopic    = "points"
	ClaimTopic     = "claims"
	ChallengeTopic = "challenges"
)

type ScanCompleted struct {
	ScanID        int64  `json:"scan_id"`
	UserID        string `json:"user_id"`
	TagID         string `json:"tag_id"`
	TenantID      string `json:"tenant_id"`
	PointsAwarded uint64 `json:"points_awarded"`
}

type PointsChanged struct {
	UserID  string `json:"user_id"`
	Delta   int64  `json:"delta"`
	Balance uint64 `json:"balance"`
	Reason  string `json:"reason"`
}

type TokenClaimed struct {
	ClaimID     string `json:"claim_id"`
	UserID      string `json:"user_id"`
	TokenID     string `json:"token_id"`
	TenantID    string `json:"tenant_id"`
	PointsSpent uint64 `json:"points_spent"`
}

type ChallengeCompleted struct {
	ChallengeID  string `json:"challenge_id"`
	TenantID     string `json:"tenant_id"`
	Participants int    `json:"participants"`
}

// Emit publishes a domain event. Delivery is fire-and-forget: a publish
// failure is logged and never fails the operation that produced the event.
func Emit(ctx context.Context, publisher pubsub.Publisher, topic, key string, payload any) {
	b, err := json.Marshal(payload)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal %s event: %v", topic, err)
		return
	}

	emitCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := publisher.Publish(emitCtx, topic, &pubsub.Pack{Key: []byte(key), Msg: b}); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish %s event: %v", topic, err)
	}
}
