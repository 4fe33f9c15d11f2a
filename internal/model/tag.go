package model

type NfcTag struct {
	ID            string  `json:"id"`
	TenantID      string  `json:"tenant_id"`
	ExternalID    string  `json:"external_id"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	RadiusMeters  float64 `json:"radius_meters"`
	PointsPerScan uint64  `json:"points_per_scan"`
	UserDailyCap  int64   `json:"user_daily_cap"`
	Active        bool    `json:"active"`
}

type CreateTagRequest struct {
	ExternalID    string  `json:"external_id"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	RadiusMeters  float64 `json:"radius_meters"`
	PointsPerScan uint64  `json:"points_per_scan"`
	UserDailyCap  int64   `json:"user_daily_cap"`
}

type CreateTagResponse struct {
	ID string `json:"id"`
}

type UpdateTagRequest struct {
	ID            string  `json:"id"`
	RadiusMeters  float64 `json:"radius_meters"`
	PointsPerScan uint64  `json:"points_per_scan"`
	UserDailyCap  int64   `json:"user_daily_cap"`
	Active        *bool   `json:"active"`
}

type UpdateTagResponse struct{}

type GetTagsRequest struct {
	Offset int `form:"offset" json:"offset"`
	Limit  int `form:"limit" json:"limit"`
}

type GetTagsResponse struct {
	Tags []NfcTag `json:"tags"`
}
