package model

type Token struct {
	ID                string `json:"id"`
	TenantID          string `json:"tenant_id"`
	Name              string `json:"name"`
	RequiredPoints    uint64 `json:"required_points"`
	QuantityAvailable int64  `json:"quantity_available"`
	QuantityClaimed   int64  `json:"quantity_claimed"`
	ExpiredAt         string `json:"expired_at"`
	Active            bool   `json:"active"`
}

type TokenClaim struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	TokenID     string `json:"token_id"`
	TenantID    string `json:"tenant_id"`
	Code        string `json:"code"`
	PointsSpent uint64 `json:"points_spent"`
	Status      string `json:"status"`
	ClaimedAt   string `json:"claimed_at"`
	RedeemedAt  string `json:"redeemed_at,omitempty"`
}

type CreateTokenRequest struct {
	Name              string `json:"name"`
	RequiredPoints    uint64 `json:"required_points"`
	QuantityAvailable int64  `json:"quantity_available"`
	ExpiredAt         string `json:"expired_at"`
}

type CreateTokenResponse struct {
	ID string `json:"id"`
}

type ClaimTokenRequest struct {
	TokenID string `json:"token_id"`
}

type ClaimTokenResponse struct {
	ClaimID string `json:"claim_id"`
	Code    string `json:"code"`
}

type RedeemTokenRequest struct {
	Code string `json:"code"`
}

type RedeemTokenResponse struct {
	Claim TokenClaim `json:"claim"`
}

type GetTokensRequest struct {
	TenantID string `form:"tenant_id" json:"tenant_id"`
	Offset   int    `form:"offset" json:"offset"`
	Limit    int    `form:"limit" json:"limit"`
}

type GetTokensResponse struct {
	Tokens []Token `json:"tokens"`
}

type GetMyClaimsRequest struct {
	Offset int `form:"offset" json:"offset"`
	Limit  int `form:"limit" json:"limit"`
}

type GetMyClaimsResponse struct {
	Claims []TokenClaim `json:"claims"`
}
