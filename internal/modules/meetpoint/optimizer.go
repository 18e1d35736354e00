// README: Two-stage coarse/fine meeting point search.
package meetpoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"
	"time"

	"meetpoint/internal/types"
)

var (
	// ErrNoPoints is returned when no participant carries valid coordinates.
	ErrNoPoints = errors.New("no_points")
)

const (
	stage1Rings   = 3
	stage1PerRing = 16
	stage2Rings   = 2
	stage2PerRing = 12
	// stage2MinRadiusM floors the refinement radius at 200m.
	stage2MinRadiusM = 200.0
	// dedupeDecimals rounds stage-2 coordinates to ~11cm before deduplication.
	dedupeDecimals = 6
	// maxConcurrentCandidates bounds the estimation fan-out within one stage,
	// keeping provider traffic within rate limits.
	maxConcurrentCandidates = 8
)

// Service runs the meeting point optimization.
type Service struct {
	estimator *Estimator
	log       *slog.Logger
}

func NewService(estimator *Estimator, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{estimator: estimator, log: log}
}

// OptimizeCommand describes one optimization run.
type OptimizeCommand struct {
	Participants []Participant
	RadiusMeters int
	TopN         int
	TwoStage     bool
	Departure    time.Time
}

// Optimize finds the candidate minimizing the (max, sum, avg) key of the
// per-participant ETA vector, coarse stage first, then an optional fine
// stage around the coarse top-N.
func (s *Service) Optimize(ctx context.Context, cmd OptimizeCommand) (*Result, error) {
	if len(cmd.Participants) == 0 {
		return nil, ErrNoPoints
	}
	for _, p := range cmd.Participants {
		if math.IsNaN(p.Position.Lat) || math.IsInf(p.Position.Lat, 0) ||
			math.IsNaN(p.Position.Lng) || math.IsInf(p.Position.Lng, 0) {
			return nil, fmt.Errorf("%w: non-finite coordinates", ErrNoPoints)
		}
	}

	topN := cmd.TopN
	if topN < 1 {
		topN = 1
	}

	seed := cmd.Participants[0].Position
	if len(cmd.Participants) > 1 {
		seed = WeightedCentroid(cmd.Participants)
	}

	points1 := ringCandidates(seed, float64(cmd.RadiusMeters), stage1Rings, stage1PerRing)
	stage1 := s.scoreCandidates(ctx, cmd.Participants, points1, cmd.Departure)
	sortCandidates(stage1)
	if len(stage1) > topN {
		stage1 = stage1[:topN]
	}

	best := stage1[0]
	stage2Count := 0
	if cmd.TwoStage && len(stage1) > 0 {
		fineRadius := math.Max(stage2MinRadiusM, float64(cmd.RadiusMeters)/4.0)
		var points2 []types.Point
		for _, c := range stage1 {
			points2 = append(points2, ringCandidates(c.Point, fineRadius, stage2Rings, stage2PerRing)...)
		}
		points2 = dedupePoints(points2)
		stage2Count = len(points2)

		stage2 := s.scoreCandidates(ctx, cmd.Participants, points2, cmd.Departure)
		sortCandidates(stage2)
		if len(stage2) > 0 {
			best = stage2[0]
		}
	}

	etas := make([]ParticipantETA, len(cmd.Participants))
	for i, p := range cmd.Participants {
		etas[i] = ParticipantETA{
			Index:    i,
			ID:       p.ID,
			Nickname: p.Nickname,
			Mode:     ParseMode(string(p.Mode)),
			Minutes:  best.ETAs[i],
		}
	}

	s.log.Info("optimize complete",
		"participants", len(cmd.Participants),
		"stage1", len(points1),
		"stage2", stage2Count,
		"best_max_min", best.Max)

	return &Result{
		Seed:        seed,
		Best:        best.Point,
		Stage1Count: len(points1),
		Stage2Count: stage2Count,
		ETAs:        etas,
	}, nil
}

// scoreCandidates estimates every point under a bounded worker fan-out and
// returns candidates in generation order. Ranking happens afterwards via
// sortCandidates, never in completion order.
func (s *Service) scoreCandidates(ctx context.Context, participants []Participant, points []types.Point, departure time.Time) []Candidate {
	out := make([]Candidate, len(points))
	sem := make(chan struct{}, maxConcurrentCandidates)
	var wg sync.WaitGroup

	for i, pt := range points {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, pt types.Point) {
			defer wg.Done()
			defer func() { <-sem }()
			etas := s.estimator.Estimate(ctx, participants, pt, departure)
			out[i] = scoreCandidate(pt, etas)
		}(i, pt)
	}
	wg.Wait()
	return out
}

func scoreCandidate(pt types.Point, etas []int) Candidate {
	sum, max := 0, 0
	for _, e := range etas {
		sum += e
		if e > max {
			max = e
		}
	}
	n := len(etas)
	if n == 0 {
		n = 1
	}
	return Candidate{
		Point: pt,
		ETAs:  etas,
		Sum:   sum,
		Max:   max,
		Avg:   float64(sum) / float64(n),
	}
}

// sortCandidates orders by (max, sum, avg) ascending; the stable sort keeps
// generation order on exact ties so results stay deterministic.
func sortCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].better(cands[j])
	})
}

// dedupePoints removes near-duplicate points across overlapping stage-2
// neighbourhoods, keyed by coordinates rounded to dedupeDecimals places.
func dedupePoints(points []types.Point) []types.Point {
	type key struct{ lat, lng float64 }
	scale := math.Pow10(dedupeDecimals)
	seen := map[key]struct{}{}
	out := points[:0]
	for _, p := range points {
		k := key{
			lat: math.Round(p.Lat*scale) / scale,
			lng: math.Round(p.Lng*scale) / scale,
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}
