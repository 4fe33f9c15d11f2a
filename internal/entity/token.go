package entity

import (
	"time"
)

// Token is a tenant-issued reward users buy with points. QuantityClaimed
// never exceeds QuantityAvailable; the claim engine enforces the bound with a
// guarded increment.
type Token struct {
	Base

	TenantID string
	Tenant   Tenant `gorm:"foreignKey:TenantID"`

	Name           string
	RequiredPoints uint64

	QuantityAvailable int64
	QuantityClaimed   int64

	ExpiredAt time.Time
	Active    bool
}
