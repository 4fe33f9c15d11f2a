package model

type Challenge struct {
	ID              string         `json:"id"`
	TenantID        string         `json:"tenant_id"`
	Type            string         `json:"type"`
	Category        string         `json:"category"`
	Status          string         `json:"status"`
	StartDate       string         `json:"start_date"`
	EndDate         string         `json:"end_date"`
	MaxParticipants int            `json:"max_participants"`
	EntryFee        uint64         `json:"entry_fee"`
	RadiusMeters    float64        `json:"radius_meters"`
	Rules           map[string]any `json:"rules"`
}

type ChallengeParticipant struct {
	ID          string `json:"id"`
	ChallengeID string `json:"challenge_id"`
	UserID      string `json:"user_id"`
	Score       uint64 `json:"score"`
	Status      string `json:"status"`
	Ranking     int    `json:"ranking,omitempty"`
	JoinedAt    string `json:"joined_at"`
}

type Standing struct {
	UserID string `json:"user_id"`
	Score  uint64 `json:"score"`
	Rank   int    `json:"rank"`
}

type CreateChallengeRequest struct {
	Type            string         `json:"type"`
	Category        string         `json:"category"`
	StartDate       string         `json:"start_date"`
	EndDate         string         `json:"end_date"`
	MaxParticipants int            `json:"max_participants"`
	EntryFee        uint64         `json:"entry_fee"`
	RadiusMeters    float64        `json:"radius_meters"`
	Rules           map[string]any `json:"rules"`
}

type CreateChallengeResponse struct {
	ID string `json:"id"`
}

type PublishChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type PublishChallengeResponse struct{}

type JoinChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type JoinChallengeResponse struct {
	ParticipantID string `json:"participant_id"`
}

type LeaveChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type LeaveChallengeResponse struct{}

type AddScoreRequest struct {
	ChallengeID string `json:"challenge_id"`
	UserID      string `json:"user_id"`
	Delta       uint64 `json:"delta"`
	Source      string `json:"source"`
}

type AddScoreResponse struct {
	Score uint64 `json:"score"`
}

type CompleteChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

type CompleteChallengeResponse struct {
	Participants []ChallengeParticipant `json:"participants"`
}

type GetStandingsRequest struct {
	ChallengeID string `form:"challenge_id" json:"challenge_id"`
	Offset      int    `form:"offset" json:"offset"`
	Limit       int    `form:"limit" json:"limit"`
}

type GetStandingsResponse struct {
	Standings []Standing `json:"standings"`
}

type GetMyRankRequest struct {
	ChallengeID string `form:"challenge_id" json:"challenge_id"`
}

type GetMyRankResponse struct {
	Rank uint64 `json:"rank"`
}
