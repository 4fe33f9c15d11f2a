package entity

import (
	"time"

	"github.com/loyaltap/backend/pkg/enum"
)

type ChallengeType string

var (
	ChallengeOpen   = enum.New(ChallengeType("open"))
	ChallengeClosed = enum.New(ChallengeType("closed"))
)

type ChallengeStatus string

var (
	ChallengeDraft     = enum.New(ChallengeStatus("draft"))
	ChallengeActive    = enum.New(ChallengeStatus("active"))
	ChallengeCompleted = enum.New(ChallengeStatus("completed"))
	ChallengeCancelled = enum.New(ChallengeStatus("cancelled"))
)

type Challenge struct {
	Base

	TenantID string
	Tenant   Tenant `gorm:"foreignKey:TenantID"`

	Type     ChallengeType
	Category string
	Status   ChallengeStatus

	StartDate time.Time
	EndDate   time.Time

	// MaxParticipants of zero means unbounded.
	MaxParticipants int
	EntryFee        uint64
	RadiusMeters    float64

	Rules Map
}
