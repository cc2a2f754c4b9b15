// Package geo computes great-circle distances and resolves addresses to
// coordinates.
package geo

import (
	"math"

	"servicehub/models"
)

// EarthRadiusKm is the mean Earth radius used for all distance math.
const EarthRadiusKm = 6371.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceKm returns the haversine distance between a and b at full
// precision. Both points must be valid; see models.GeoPoint.Valid.
func DistanceKm(a, b models.GeoPoint) float64 {
	lat1, lat2 := toRadians(a.Lat()), toRadians(b.Lat())
	dLat := lat2 - lat1
	dLon := toRadians(b.Lon() - a.Lon())

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding can push h a hair past 1 for antipodal points.
	h = math.Min(1, math.Max(0, h))
	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// RoundKm rounds a distance to one decimal place for display.
func RoundKm(d float64) float64 {
	return math.Round(d*10) / 10
}
