package entity

import (
	"github.com/loyaltap/backend/pkg/enum"
)

type ParticipantStatus string

var (
	ParticipantActive    = enum.New(ParticipantStatus("active"))
	ParticipantCompleted = enum.New(ParticipantStatus("completed"))
	ParticipantAbandoned = enum.New(ParticipantStatus("abandoned"))
)

type ChallengeParticipant struct {
	Base

	ChallengeID string    `gorm:"uniqueIndex:idx_challenge_user"`
	Challenge   Challenge `gorm:"foreignKey:ChallengeID"`

	UserID string `gorm:"uniqueIndex:idx_challenge_user"`
	User   User   `gorm:"foreignKey:UserID"`

	Score  uint64
	Status ParticipantStatus

	// Ranking is zero until the challenge completes, then final forever.
	Ranking int
}
