package entity

import (
	"github.com/loyaltap/backend/pkg/enum"
)

type UserStatus string

var (
	UserActive   = enum.New(UserStatus("active"))
	UserInactive = enum.New(UserStatus("inactive"))
)

// PointsPerLevel is the number of points a user needs to advance one level.
const PointsPerLevel = 500

type User struct {
	Base

	Name   string `gorm:"unique"`
	Status UserStatus

	// Points and Level are written only by the ledger.
	Points uint64
	Level  int `gorm:"default:1"`
}

// LevelForPoints returns the level derived from a point balance.
func LevelForPoints(points uint64) int {
	return int(points/PointsPerLevel) + 1
}
