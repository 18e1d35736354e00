// README: Feasibility-then-proximity venue ordering.
package venue

import "sort"

// feasibilityRank collapses open status to two buckets: confirmed
// open-enough venues first, everything else (unknown or not open long
// enough) after. Confirmed-closed venues were already excluded during
// evaluation.
func feasibilityRank(v Venue) int {
	if v.OpenEnough != nil && *v.OpenEnough {
		return 0
	}
	return 1
}

// rankVenues orders by (feasibilityRank, distanceIsUnknown, distanceKm)
// ascending. Stable, no randomness.
func rankVenues(venues []Venue) {
	sort.SliceStable(venues, func(i, j int) bool {
		ri, rj := feasibilityRank(venues[i]), feasibilityRank(venues[j])
		if ri != rj {
			return ri < rj
		}
		di, dj := venues[i].DistanceKm, venues[j].DistanceKm
		if (di == nil) != (dj == nil) {
			return di != nil
		}
		if di == nil {
			return false
		}
		return *di < *dj
	})
}
