package entity

type NfcTag struct {
	Base

	TenantID string
	Tenant   Tenant `gorm:"foreignKey:TenantID"`

	// ExternalID is the identifier burned into the physical tag.
	ExternalID string `gorm:"unique"`

	Latitude     float64
	Longitude    float64
	RadiusMeters float64

	PointsPerScan uint64

	// UserDailyCap limits scans of this tag per user per calendar day. Zero
	// means no per-tag cap beyond the global user quota.
	UserDailyCap int64

	Active bool
}
