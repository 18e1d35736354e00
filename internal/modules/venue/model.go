// README: Venue candidates, weekly opening periods and provider contracts.
package venue

import (
	"context"
	"time"

	"meetpoint/internal/types"
)

// Venue is one externally sourced place candidate, enriched and annotated
// during ranking. The annotation fields are derived, not authoritative.
type Venue struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Position types.Point `json:"position"`
	Category string      `json:"category"`
	Address  string      `json:"address,omitempty"`

	// enrichment, best effort
	Phone    string          `json:"phone,omitempty"`
	Website  string          `json:"website,omitempty"`
	PhotoURL string          `json:"photo_url,omitempty"`
	Hours    []OpeningPeriod `json:"-"`

	// derived during suggestion
	DistanceKm      *float64 `json:"centroid_dist_km,omitempty"`
	OpenEnough      *bool    `json:"open_enough,omitempty"`
	OpenMinutesLeft *int     `json:"open_minutes_left,omitempty"`
	ClosesAt        string   `json:"closes_at,omitempty"`
}

// DayTime is a recurring weekly instant. Day follows time.Weekday
// (Sunday = 0) everywhere in this package; providers convert once at
// their boundary.
type DayTime struct {
	Day    time.Weekday
	Hour   int
	Minute int
}

// OpeningPeriod is one weekly opening interval. A nil Close means the venue
// stays open a full 24 hours from Open.
type OpeningPeriod struct {
	Open  DayTime
	Close *DayTime
}

// SearchProvider finds venue candidates near a point. Total provider
// failure is reportable: there is no local fallback for place search.
type SearchProvider interface {
	Search(ctx context.Context, center types.Point, radiusM int, category, query string) ([]Venue, error)
}

// Enricher attaches opening hours, phone, website and photo to a venue.
// Failures leave the venue unenriched; they never break ranking.
type Enricher interface {
	Enrich(ctx context.Context, v *Venue) error
}
