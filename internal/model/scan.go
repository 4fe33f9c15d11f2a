package model

type NfcScan struct {
	ID             int64   `json:"id"`
	UserID         string  `json:"user_id"`
	TagID          string  `json:"tag_id"`
	TenantID       string  `json:"tenant_id"`
	PointsAwarded  uint64  `json:"points_awarded"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	DistanceMeters float64 `json:"distance_meters"`
	Valid          bool    `json:"valid"`
	CreatedAt      string  `json:"created_at"`
}

type ScanRequest struct {
	TagIdentifier string  `json:"tag_identifier"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	DeviceInfo    string  `json:"device_info"`
}

type ScanResponse struct {
	ScanID        int64  `json:"scan_id"`
	PointsAwarded uint64 `json:"points_awarded"`
}

type GetMyScansRequest struct {
	Offset int `form:"offset" json:"offset"`
	Limit  int `form:"limit" json:"limit"`
}

type GetMyScansResponse struct {
	Scans []NfcScan `json:"scans"`
}
