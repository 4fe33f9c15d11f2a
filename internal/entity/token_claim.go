package entity

import (
	"database/sql"
	"time"

	"github.com/loyaltap/backend/pkg/enum"
)

type TokenClaimStatus string

var (
	ClaimClaimed  = enum.New(TokenClaimStatus("claimed"))
	ClaimRedeemed = enum.New(TokenClaimStatus("redeemed"))
)

type TokenClaim struct {
	Base

	UserID string `gorm:"uniqueIndex:idx_user_token"`
	User   User   `gorm:"foreignKey:UserID"`

	TokenID string `gorm:"uniqueIndex:idx_user_token"`
	Token   Token  `gorm:"foreignKey:TokenID"`

	TenantID string

	Code string `gorm:"unique"`

	// PointsSpent is a snapshot of the token price at claim time.
	PointsSpent uint64

	Status     TokenClaimStatus
	ExpiredAt  time.Time
	RedeemedAt sql.NullTime
}
