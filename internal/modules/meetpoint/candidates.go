// README: Ring-and-bearing candidate lattice around a center point.
package meetpoint

import (
	"meetpoint/internal/geo"
	"meetpoint/internal/types"
)

// ringCandidates returns the center followed by rings*perRing points: for
// each ring r in 1..rings at distance radiusM*r/rings, perRing points evenly
// spaced in bearing. Deterministic; a non-positive radius yields only the
// center.
func ringCandidates(center types.Point, radiusM float64, rings, perRing int) []types.Point {
	out := []types.Point{center}
	if radiusM <= 0 {
		return out
	}
	for r := 1; r <= rings; r++ {
		dist := radiusM * float64(r) / float64(rings)
		for k := 0; k < perRing; k++ {
			bearing := 360.0 * float64(k) / float64(perRing)
			out = append(out, geo.Offset(center, dist, bearing))
		}
	}
	return out
}
