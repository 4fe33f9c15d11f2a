package entity

import (
	"time"
)

// NfcScan is an append-only audit record of one accepted scan. Points and
// distance are snapshots of scan time, never re-derived.
type NfcScan struct {
	ID        int64 `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID string
	User   User `gorm:"foreignKey:UserID"`

	TagID string
	Tag   NfcTag `gorm:"foreignKey:TagID"`

	TenantID string

	PointsAwarded  uint64
	Latitude       float64
	Longitude      float64
	DistanceMeters float64
	Valid          bool
	DeviceInfo     string
}
