package geoutil

import (
	"math"

	"github.com/loyaltap/backend/pkg/errorx"
)

// EarthRadius is the mean earth radius in meters used by the haversine
// formula.
const EarthRadius = 6371000.0

// ValidateCoordinates fails unless both values are finite and inside the
// WGS84 latitude/longitude ranges.
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return errorx.New(errorx.BadRequest, "Invalid coordinate")
	}

	if lat < -90 || lat > 90 {
		return errorx.New(errorx.BadRequest, "Latitude must be in range [-90, 90]")
	}

	if lon < -180 || lon > 180 {
		return errorx.New(errorx.BadRequest, "Longitude must be in range [-180, 180]")
	}

	return nil
}

// Distance returns the great-circle distance in meters between two
// coordinates.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	return EarthRadius * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// InRadius reports whether the distance between the two coordinates is within
// radius meters. The boundary itself counts as inside.
func InRadius(lat1, lon1, lat2, lon2, radius float64) bool {
	return Distance(lat1, lon1, lat2, lon2) <= radius
}
