// README: Time-weighted centroid seed for the meeting point search.
package meetpoint

import (
	"math"

	"meetpoint/internal/types"
)

// WeightedCentroid computes the initial seed point for a group. Each
// participant is weighted by 1/speed(mode), so slower modes pull the
// centroid toward themselves: their travel time is the bottleneck.
//
// The computation projects onto a local equirectangular plane centred at
// the arithmetic mean, with longitude scaled by cos(mean latitude). The
// caller guards against an empty slice (the no_points condition).
func WeightedCentroid(participants []Participant) types.Point {
	var lat0, lng0 float64
	for _, p := range participants {
		lat0 += p.Position.Lat
		lng0 += p.Position.Lng
	}
	n := float64(len(participants))
	lat0 /= n
	lng0 /= n

	cos0 := math.Cos(lat0 * math.Pi / 180.0)

	var swx, swy, sw float64
	for _, p := range participants {
		w := 1.0 / math.Max(p.Mode.SpeedKmh(), 1.0)
		x := (p.Position.Lng - lng0) * cos0
		y := p.Position.Lat - lat0
		swx += w * x
		swy += w * y
		sw += w
	}

	return types.Point{
		Lat: lat0 + swy/math.Max(sw, 1e-9),
		Lng: lng0 + (swx/math.Max(sw, 1e-9))/math.Max(cos0, 1e-9),
	}
}
