// README: Distance Matrix wrapper implementing the estimator's matrix source.
package maps

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"googlemaps.github.io/maps"

	"meetpoint/internal/modules/meetpoint"
	"meetpoint/internal/types"
)

// RoutingService resolves travel durations through the Google Distance
// Matrix API. It satisfies meetpoint.MatrixSource.
type RoutingService struct {
	client *maps.Client
}

// NewRoutingService creates a RoutingService with the given API key.
func NewRoutingService(apiKey string) (*RoutingService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RoutingService{client: client}, nil
}

// Durations queries one Distance Matrix request for up to 25 origins against
// a single destination. Rows that come back without a usable duration carry
// meetpoint.ETAMissing; only transport-level failures surface as errors.
func (s *RoutingService) Durations(ctx context.Context, origins []types.Point, dest types.Point, mode meetpoint.Mode, departure time.Time) ([]int, error) {
	req := &maps.DistanceMatrixRequest{
		Origins:       formatPoints(origins),
		Destinations:  []string{formatPoint(dest)},
		Mode:          travelModeFor(mode),
		DepartureTime: strconv.FormatInt(departure.Unix(), 10),
	}
	if tm, ok := transitModeFor(mode); ok {
		req.TransitMode = []maps.TransitMode{tm}
	}

	resp, err := s.client.DistanceMatrix(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("distance matrix error: %w", err)
	}

	out := make([]int, len(origins))
	for i := range out {
		out[i] = meetpoint.ETAMissing
	}
	for i, row := range resp.Rows {
		if i >= len(out) || len(row.Elements) == 0 {
			continue
		}
		el := row.Elements[0]
		if el.Status != "OK" {
			continue
		}
		// traffic-aware duration wins when the API provides one
		d := el.Duration
		if el.DurationInTraffic > 0 {
			d = el.DurationInTraffic
		}
		if d > 0 {
			out[i] = int((d + 30*time.Second) / time.Minute)
		} else {
			out[i] = 0
		}
	}
	return out, nil
}

func travelModeFor(mode meetpoint.Mode) maps.Mode {
	switch mode {
	case meetpoint.ModeWalk:
		return maps.TravelModeWalking
	case meetpoint.ModeBus, meetpoint.ModeSubway:
		return maps.TravelModeTransit
	default:
		return maps.TravelModeDriving
	}
}

func transitModeFor(mode meetpoint.Mode) (maps.TransitMode, bool) {
	switch mode {
	case meetpoint.ModeBus:
		return maps.TransitModeBus, true
	case meetpoint.ModeSubway:
		return maps.TransitModeSubway, true
	default:
		return "", false
	}
}

func formatPoint(p types.Point) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}

func formatPoints(points []types.Point) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = formatPoint(p)
	}
	return out
}
