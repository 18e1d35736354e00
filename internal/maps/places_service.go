// README: Places wrapper: venue search plus opening-hours enrichment.
package maps

import (
	"context"
	"fmt"
	"strconv"

	"googlemaps.github.io/maps"

	"meetpoint/internal/modules/venue"
	"meetpoint/internal/types"
)

// PlacesService finds and enriches venue candidates through the Google
// Places API. It satisfies venue.SearchProvider and venue.Enricher.
type PlacesService struct {
	client *maps.Client
	apiKey string
}

// NewPlacesService creates a PlacesService with the given API key.
func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client, apiKey: apiKey}, nil
}

// Search finds venues near center. A free-text query routes through text
// search; otherwise a nearby search on the category place type.
func (s *PlacesService) Search(ctx context.Context, center types.Point, radiusM int, category, query string) ([]venue.Venue, error) {
	loc := &maps.LatLng{Lat: center.Lat, Lng: center.Lng}
	radius := clampRadius(radiusM)

	if query != "" {
		resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{
			Query:    query,
			Location: loc,
			Radius:   radius,
			Type:     placeTypeFor(category),
		})
		if err != nil {
			return nil, fmt.Errorf("places text search error: %w", err)
		}
		return venuesFrom(resp.Results, category), nil
	}

	resp, err := s.client.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: loc,
		Radius:   radius,
		Type:     placeTypeFor(category),
	})
	if err != nil {
		return nil, fmt.Errorf("places nearby search error: %w", err)
	}
	return venuesFrom(resp.Results, category), nil
}

// Enrich attaches opening-hours periods, phone, website and a photo URL via
// a place details call.
func (s *PlacesService) Enrich(ctx context.Context, v *venue.Venue) error {
	details, err := s.client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{
		PlaceID: v.ID,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskOpeningHours,
			maps.PlaceDetailsFieldMaskFormattedPhoneNumber,
			maps.PlaceDetailsFieldMaskWebsite,
			maps.PlaceDetailsFieldMaskPhotos,
		},
	})
	if err != nil {
		return fmt.Errorf("place details error: %w", err)
	}

	if details.OpeningHours != nil {
		v.Hours = periodsFrom(details.OpeningHours.Periods)
	}
	v.Phone = details.FormattedPhoneNumber
	v.Website = details.Website
	if len(details.Photos) > 0 && details.Photos[0].PhotoReference != "" {
		v.PhotoURL = "https://maps.googleapis.com/maps/api/place/photo?maxwidth=640&photo_reference=" +
			details.Photos[0].PhotoReference + "&key=" + s.apiKey
	}
	return nil
}

func venuesFrom(results []maps.PlacesSearchResult, category string) []venue.Venue {
	out := make([]venue.Venue, 0, len(results))
	for _, r := range results {
		out = append(out, venue.Venue{
			ID:       r.PlaceID,
			Name:     r.Name,
			Position: types.Point{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
			Category: category,
			Address:  pickAddress(r),
		})
	}
	return out
}

func pickAddress(r maps.PlacesSearchResult) string {
	if r.FormattedAddress != "" {
		return r.FormattedAddress
	}
	return r.Vicinity
}

// periodsFrom converts provider periods into venue periods. Both sides use
// Sunday=0 day numbering so the day passes through untouched.
func periodsFrom(periods []maps.OpeningHoursPeriod) []venue.OpeningPeriod {
	out := make([]venue.OpeningPeriod, 0, len(periods))
	for _, p := range periods {
		open, ok := dayTimeFrom(p.Open)
		if !ok {
			continue
		}
		vp := venue.OpeningPeriod{Open: open}
		if closeAt, ok := dayTimeFrom(p.Close); ok {
			vp.Close = &closeAt
		}
		out = append(out, vp)
	}
	return out
}

func dayTimeFrom(oc maps.OpeningHoursOpenClose) (venue.DayTime, bool) {
	if len(oc.Time) != 4 {
		return venue.DayTime{}, false
	}
	hh, err := strconv.Atoi(oc.Time[:2])
	if err != nil {
		return venue.DayTime{}, false
	}
	mm, err := strconv.Atoi(oc.Time[2:])
	if err != nil {
		return venue.DayTime{}, false
	}
	return venue.DayTime{Day: oc.Day, Hour: hh, Minute: mm}, true
}

func placeTypeFor(category string) maps.PlaceType {
	switch category {
	case "cafe":
		return maps.PlaceTypeCafe
	case "bar", "pub":
		return maps.PlaceTypeBar
	case "night_club":
		return maps.PlaceTypeNightClub
	default:
		return maps.PlaceTypeRestaurant
	}
}

// clampRadius keeps the search radius inside provider-accepted bounds.
func clampRadius(radiusM int) uint {
	if radiusM < 100 {
		return 100
	}
	if radiusM > 20000 {
		return 20000
	}
	return uint(radiusM)
}
