package venue

import "testing"

func fp(v float64) *float64 { return &v }
func bp(v bool) *bool       { return &v }

func TestRankVenues_OpenBeforeUnknownAtEqualDistance(t *testing.T) {
	venues := []Venue{
		{Name: "unknown-hours", DistanceKm: fp(0.5)},
		{Name: "confirmed-open", DistanceKm: fp(0.5), OpenEnough: bp(true)},
	}

	rankVenues(venues)
	if venues[0].Name != "confirmed-open" {
		t.Errorf("first = %s, want confirmed-open", venues[0].Name)
	}
}

func TestRankVenues_NotOpenEnoughRanksWithUnknown(t *testing.T) {
	venues := []Venue{
		{Name: "short-window", DistanceKm: fp(0.2), OpenEnough: bp(false)},
		{Name: "open", DistanceKm: fp(0.9), OpenEnough: bp(true)},
		{Name: "unknown", DistanceKm: fp(0.1)},
	}

	rankVenues(venues)
	if venues[0].Name != "open" {
		t.Fatalf("first = %s, want open despite larger distance", venues[0].Name)
	}
	// within the de-ranked bucket, distance decides
	if venues[1].Name != "unknown" || venues[2].Name != "short-window" {
		t.Errorf("de-ranked order = %s,%s, want unknown,short-window", venues[1].Name, venues[2].Name)
	}
}

func TestRankVenues_DistanceUnknownSortsLast(t *testing.T) {
	venues := []Venue{
		{Name: "no-distance", OpenEnough: bp(true)},
		{Name: "far", DistanceKm: fp(3.0), OpenEnough: bp(true)},
		{Name: "near", DistanceKm: fp(0.3), OpenEnough: bp(true)},
	}

	rankVenues(venues)
	want := []string{"near", "far", "no-distance"}
	for i, name := range want {
		if venues[i].Name != name {
			t.Errorf("position %d = %s, want %s", i, venues[i].Name, name)
		}
	}
}

func TestRankVenues_StableOnTies(t *testing.T) {
	venues := []Venue{
		{Name: "a", DistanceKm: fp(1.0)},
		{Name: "b", DistanceKm: fp(1.0)},
		{Name: "c", DistanceKm: fp(1.0)},
	}

	rankVenues(venues)
	for i, name := range []string{"a", "b", "c"} {
		if venues[i].Name != name {
			t.Errorf("tie order broken at %d: got %s, want %s", i, venues[i].Name, name)
		}
	}
}
