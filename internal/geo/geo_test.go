package geo

import (
	"math"
	"testing"

	"meetpoint/internal/types"
)

func TestDistanceKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Point
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         types.Point{Lat: 37.5665, Lng: 126.9780},
			b:         types.Point{Lat: 37.5665, Lng: 126.9780},
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name:      "Gangnam Stn to Seoul City Hall (~8km)",
			a:         types.Point{Lat: 37.4979, Lng: 127.0276},
			b:         types.Point{Lat: 37.5663, Lng: 126.9779},
			wantKm:    8.7,
			tolerance: 0.5,
		},
		{
			name:      "Seoul to Busan (~325km)",
			a:         types.Point{Lat: 37.5665, Lng: 126.9780},
			b:         types.Point{Lat: 35.1796, Lng: 129.0756},
			wantKm:    325,
			tolerance: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("DistanceKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	a := types.Point{Lat: 37.50, Lng: 127.03}
	b := types.Point{Lat: 37.52, Lng: 127.05}
	ab := DistanceKm(a, b)
	ba := DistanceKm(b, a)
	if math.Abs(ab-ba) > 1e-9 {
		t.Errorf("DistanceKm not symmetric: %f vs %f", ab, ba)
	}
	if ab < 0 {
		t.Errorf("DistanceKm negative: %f", ab)
	}
}

func TestOffset_ZeroDistance(t *testing.T) {
	p := types.Point{Lat: 37.50, Lng: 127.03}
	got := Offset(p, 0, 123)
	if got != p {
		t.Errorf("Offset(p, 0, _) = %+v, want %+v", got, p)
	}
}

// TestOffset_RoundTripDistance walks 1km in every cardinal-ish direction and
// checks the haversine distance back to the origin matches.
func TestOffset_RoundTripDistance(t *testing.T) {
	p := types.Point{Lat: 37.50, Lng: 127.03}
	for bearing := 0.0; bearing < 360.0; bearing += 22.5 {
		q := Offset(p, 1000, bearing)
		d := DistanceKm(p, q)
		if math.Abs(d-1.0) > 0.001 {
			t.Errorf("bearing %.1f: distance after 1000m offset = %fkm, want 1km", bearing, d)
		}
	}
}

func TestOffset_NorthIncreasesLat(t *testing.T) {
	p := types.Point{Lat: 37.50, Lng: 127.03}
	north := Offset(p, 500, 0)
	if north.Lat <= p.Lat {
		t.Errorf("northward offset did not increase latitude: %f -> %f", p.Lat, north.Lat)
	}
	if math.Abs(north.Lng-p.Lng) > 1e-6 {
		t.Errorf("northward offset changed longitude: %f -> %f", p.Lng, north.Lng)
	}
	east := Offset(p, 500, 90)
	if east.Lng <= p.Lng {
		t.Errorf("eastward offset did not increase longitude: %f -> %f", p.Lng, east.Lng)
	}
}
