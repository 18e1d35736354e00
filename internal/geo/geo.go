// README: Pure spherical geometry helpers (haversine distance, bearing offset).
package geo

import (
	"math"

	"meetpoint/internal/types"
)

// earthRadiusM is the mean Earth radius used by all spherical formulas.
const earthRadiusM = 6371000.0

// DistanceKm returns the great-circle distance in kilometres between two
// points specified in decimal degrees.
func DistanceKm(a, b types.Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLng := degreesToRadians(b.Lng - a.Lng)

	rLat1 := degreesToRadians(a.Lat)
	rLat2 := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rLat1)*math.Cos(rLat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusM * c / 1000.0
}

// Offset returns the point reached by travelling distanceM metres from p
// along the initial bearing bearingDeg (0 = north, clockwise).
func Offset(p types.Point, distanceM, bearingDeg float64) types.Point {
	if distanceM == 0 {
		return p
	}

	d := distanceM / earthRadiusM
	br := degreesToRadians(bearingDeg)
	lat1 := degreesToRadians(p.Lat)
	lng1 := degreesToRadians(p.Lng)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(d) + math.Cos(lat1)*math.Sin(d)*math.Cos(br))
	lng2 := lng1 + math.Atan2(
		math.Sin(br)*math.Sin(d)*math.Cos(lat1),
		math.Cos(d)-math.Sin(lat1)*math.Sin(lat2),
	)

	return types.Point{
		Lat: radiansToDegrees(lat2),
		Lng: radiansToDegrees(lng2),
	}
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func radiansToDegrees(rad float64) float64 {
	return rad * 180.0 / math.Pi
}
