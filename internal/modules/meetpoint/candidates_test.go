package meetpoint

import (
	"testing"

	"meetpoint/internal/geo"
	"meetpoint/internal/types"
)

func TestRingCandidates_CountAndCenter(t *testing.T) {
	center := types.Point{Lat: 37.50, Lng: 127.03}

	tests := []struct {
		name           string
		radiusM        float64
		rings, perRing int
		wantCount      int
	}{
		{"stage1 shape", 2000, 3, 16, 1 + 3*16},
		{"stage2 shape", 500, 2, 12, 1 + 2*12},
		{"single ring", 1000, 1, 4, 5},
		{"zero radius", 0, 3, 16, 1},
		{"negative radius", -100, 3, 16, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ringCandidates(center, tt.radiusM, tt.rings, tt.perRing)
			if len(got) != tt.wantCount {
				t.Fatalf("len = %d, want %d", len(got), tt.wantCount)
			}
			if got[0] != center {
				t.Errorf("first candidate = %+v, want exact center %+v", got[0], center)
			}
		})
	}
}

func TestRingCandidates_RingDistances(t *testing.T) {
	center := types.Point{Lat: 37.50, Lng: 127.03}
	radiusM := 2000.0
	rings, perRing := 3, 16

	got := ringCandidates(center, radiusM, rings, perRing)
	for r := 1; r <= rings; r++ {
		wantKm := radiusM * float64(r) / float64(rings) / 1000.0
		for k := 0; k < perRing; k++ {
			p := got[1+(r-1)*perRing+k]
			d := geo.DistanceKm(center, p)
			if d < wantKm*0.999 || d > wantKm*1.001 {
				t.Errorf("ring %d point %d: distance %.4fkm, want %.4fkm", r, k, d, wantKm)
			}
		}
	}
}

func TestRingCandidates_Deterministic(t *testing.T) {
	center := types.Point{Lat: 37.50, Lng: 127.03}
	a := ringCandidates(center, 2000, 3, 16)
	b := ringCandidates(center, 2000, 3, 16)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("candidate %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}
