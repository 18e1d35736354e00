// README: Venue suggestion service: search, enrich, evaluate, rank.
package venue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"meetpoint/internal/geo"
	"meetpoint/internal/modules/meetpoint"
	"meetpoint/internal/types"
)

var (
	// ErrNoPoints is returned when neither a centroid nor any located
	// participant is supplied.
	ErrNoPoints = errors.New("no_points")
	// ErrSearchUnavailable is returned when the place search provider is
	// missing or fails entirely; there is no local fallback for search.
	ErrSearchUnavailable = errors.New("search_unavailable")
)

// enrichLimit caps per-venue detail calls to keep provider usage bounded.
const enrichLimit = 12

type Service struct {
	search SearchProvider
	enrich Enricher
	log    *slog.Logger
}

// NewService wires the suggestion flow. search may be nil (suggestions then
// fail with ErrSearchUnavailable); enrich may be nil (venues stay bare and
// rank as unknown).
func NewService(search SearchProvider, enrich Enricher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{search: search, enrich: enrich, log: log}
}

// SuggestCommand describes one venue suggestion request. Centroid, when
// set, wins over deriving one from Participants.
type SuggestCommand struct {
	Participants []meetpoint.Participant
	Centroid     *types.Point
	Category     string
	RadiusMeters int
	Query        string
	MeetingTime  time.Time
}

// SuggestResult is the ranked venue list around the derived centroid.
type SuggestResult struct {
	Centroid types.Point `json:"centroid"`
	Venues   []Venue     `json:"items"`
}

// Suggest searches venues around the group centroid, annotates each with
// distance and open feasibility at the meeting time, drops confirmed-closed
// venues and returns the rest ranked.
func (s *Service) Suggest(ctx context.Context, cmd SuggestCommand) (*SuggestResult, error) {
	centroid, err := s.resolveCentroid(cmd)
	if err != nil {
		return nil, err
	}

	if s.search == nil {
		return nil, ErrSearchUnavailable
	}
	found, err := s.search.Search(ctx, centroid, cmd.RadiusMeters, cmd.Category, cmd.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}

	if s.enrich != nil {
		limit := len(found)
		if limit > enrichLimit {
			limit = enrichLimit
		}
		for i := 0; i < limit; i++ {
			if err := s.enrich.Enrich(ctx, &found[i]); err != nil {
				s.log.Debug("venue enrichment failed", "venue", found[i].Name, "err", err)
			}
		}
	}

	meetingTime := cmd.MeetingTime
	if meetingTime.IsZero() {
		meetingTime = time.Now()
	}
	required := RequiredOpenMinutes(cmd.Category)

	kept := make([]Venue, 0, len(found))
	for _, v := range found {
		if finitePosition(v.Position) {
			d := round3(geo.DistanceKm(centroid, v.Position))
			v.DistanceKm = &d
		}
		if !evaluateHours(&v, meetingTime, required) {
			continue
		}
		kept = append(kept, v)
	}

	rankVenues(kept)

	s.log.Info("venue suggestion complete",
		"found", len(found), "ranked", len(kept), "category", cmd.Category)

	return &SuggestResult{Centroid: centroid, Venues: kept}, nil
}

func (s *Service) resolveCentroid(cmd SuggestCommand) (types.Point, error) {
	if cmd.Centroid != nil {
		return *cmd.Centroid, nil
	}
	if len(cmd.Participants) == 0 {
		return types.Point{}, ErrNoPoints
	}
	return meetpoint.WeightedCentroid(cmd.Participants), nil
}

func finitePosition(p types.Point) bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lng) && !math.IsInf(p.Lng, 0) &&
		(p.Lat != 0 || p.Lng != 0)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
