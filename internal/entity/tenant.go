package entity

import (
	"github.com/loyaltap/backend/pkg/enum"
)

type TenantStatus string

var (
	TenantActive   = enum.New(TenantStatus("active"))
	TenantInactive = enum.New(TenantStatus("inactive"))
)

type Tenant struct {
	Base

	Name   string `gorm:"unique"`
	Status TenantStatus

	Latitude  float64
	Longitude float64
}
