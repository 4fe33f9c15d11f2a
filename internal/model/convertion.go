package model

import (
	"time"

	"github.com/loyaltap/backend/internal/entity"
)

func ConvertUser(u *entity.User) User {
	return User{
		ID:     u.ID,
		Name:   u.Name,
		Status: string(u.Status),
		Points: u.Points,
		Level:  u.Level,
	}
}

func ConvertNfcTag(t *entity.NfcTag) NfcTag {
	return NfcTag{
		ID:            t.ID,
		TenantID:      t.TenantID,
		ExternalID:    t.ExternalID,
		Latitude:      t.Latitude,
		Longitude:     t.Longitude,
		RadiusMeters:  t.RadiusMeters,
		PointsPerScan: t.PointsPerScan,
		UserDailyCap:  t.UserDailyCap,
		Active:        t.Active,
	}
}

func ConvertNfcScan(s *entity.NfcScan) NfcScan {
	return NfcScan{
		ID:             s.ID,
		UserID:         s.UserID,
		TagID:          s.TagID,
		TenantID:       s.TenantID,
		PointsAwarded:  s.PointsAwarded,
		Latitude:       s.Latitude,
		Longitude:      s.Longitude,
		DistanceMeters: s.DistanceMeters,
		Valid:          s.Valid,
		CreatedAt:      s.CreatedAt.Format(time.RFC3339),
	}
}

func ConvertToken(t *entity.Token) Token {
	return Token{
		ID:                t.ID,
		TenantID:          t.TenantID,
		Name:              t.Name,
		RequiredPoints:    t.RequiredPoints,
		QuantityAvailable: t.QuantityAvailable,
		QuantityClaimed:   t.QuantityClaimed,
		ExpiredAt:         t.ExpiredAt.Format(time.RFC3339),
		Active:            t.Active,
	}
}

func ConvertTokenClaim(c *entity.TokenClaim) TokenClaim {
	claim := TokenClaim{
		ID:          c.ID,
		UserID:      c.UserID,
		TokenID:     c.TokenID,
		TenantID:    c.TenantID,
		Code:        c.Code,
		PointsSpent: c.PointsSpent,
		Status:      string(c.Status),
		ClaimedAt:   c.CreatedAt.Format(time.RFC3339),
	}

	if c.RedeemedAt.Valid {
		claim.RedeemedAt = c.RedeemedAt.Time.Format(time.RFC3339)
	}

	return claim
}

func ConvertChallenge(c *entity.Challenge) Challenge {
	return Challenge{
		ID:              c.ID,
		TenantID:        c.TenantID,
		Type:            string(c.Type),
		Category:        c.Category,
		Status:          string(c.Status),
		StartDate:       c.StartDate.Format(time.RFC3339),
		EndDate:         c.EndDate.Format(time.RFC3339),
		MaxParticipants: c.MaxParticipants,
		EntryFee:        c.EntryFee,
		RadiusMeters:    c.RadiusMeters,
		Rules:           c.Rules,
	}
}

func ConvertChallengeParticipant(p *entity.ChallengeParticipant) ChallengeParticipant {
	return ChallengeParticipant{
		ID:          p.ID,
		ChallengeID: p.ChallengeID,
		UserID:      p.UserID,
		Score:       p.Score,
		Status:      string(p.Status),
		Ranking:     p.Ranking,
		JoinedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}
