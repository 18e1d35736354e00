package meetpoint

import (
	"context"
	"errors"
	"testing"
	"time"

	"meetpoint/internal/geo"
	"meetpoint/internal/types"
)

func threeParticipants() []Participant {
	return []Participant{
		{ID: "P1", Position: types.Point{Lat: 37.50, Lng: 127.03}, Mode: ModeCar},
		{ID: "P2", Position: types.Point{Lat: 37.52, Lng: 127.05}, Mode: ModeWalk},
		{ID: "P3", Position: types.Point{Lat: 37.49, Lng: 127.00}, Mode: ModeSubway},
	}
}

func candidateKeyNotWorse(a, b Candidate) bool {
	if a.Max != b.Max {
		return a.Max < b.Max
	}
	if a.Sum != b.Sum {
		return a.Sum < b.Sum
	}
	return a.Avg <= b.Avg
}

func TestOptimize_NoParticipants(t *testing.T) {
	svc := NewService(NewEstimator(nil, nil), nil)
	_, err := svc.Optimize(context.Background(), OptimizeCommand{})
	if !errors.Is(err, ErrNoPoints) {
		t.Fatalf("err = %v, want ErrNoPoints", err)
	}
}

func TestOptimize_SingleParticipantSeedsOnPosition(t *testing.T) {
	svc := NewService(NewEstimator(nil, nil), nil)
	p := Participant{Position: types.Point{Lat: 37.50, Lng: 127.03}, Mode: ModeCar}

	res, err := svc.Optimize(context.Background(), OptimizeCommand{
		Participants: []Participant{p},
		RadiusMeters: 1000,
		TopN:         3,
	})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}
	if res.Seed != p.Position {
		t.Errorf("seed = %+v, want participant position %+v", res.Seed, p.Position)
	}
	// the participant's own position scores 0 and must win
	if res.Best != p.Position {
		t.Errorf("best = %+v, want %+v", res.Best, p.Position)
	}
}

// TestOptimize_Stage1WinnerHasMinimumKey recomputes every stage-1 candidate
// score independently and checks the single-stage winner is minimal.
func TestOptimize_Stage1WinnerHasMinimumKey(t *testing.T) {
	participants := threeParticipants()
	est := NewEstimator(nil, nil)
	svc := NewService(est, nil)
	departure := time.Date(2026, 9, 4, 19, 0, 0, 0, time.UTC)

	res, err := svc.Optimize(context.Background(), OptimizeCommand{
		Participants: participants,
		RadiusMeters: 2000,
		TopN:         5,
		TwoStage:     false,
		Departure:    departure,
	})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}

	seed := WeightedCentroid(participants)
	best := scoreCandidate(res.Best, est.Estimate(context.Background(), participants, res.Best, departure))
	for _, pt := range ringCandidates(seed, 2000, stage1Rings, stage1PerRing) {
		c := scoreCandidate(pt, est.Estimate(context.Background(), participants, pt, departure))
		if !candidateKeyNotWorse(best, c) {
			t.Fatalf("candidate %+v key (%d,%d,%.2f) beats winner (%d,%d,%.2f)",
				pt, c.Max, c.Sum, c.Avg, best.Max, best.Sum, best.Avg)
		}
	}
}

func TestOptimize_TwoStageNeverWorse(t *testing.T) {
	participants := threeParticipants()
	est := NewEstimator(nil, nil)
	departure := time.Date(2026, 9, 4, 19, 0, 0, 0, time.UTC)

	run := func(twoStage bool) Candidate {
		svc := NewService(est, nil)
		res, err := svc.Optimize(context.Background(), OptimizeCommand{
			Participants: participants,
			RadiusMeters: 2000,
			TopN:         5,
			TwoStage:     twoStage,
			Departure:    departure,
		})
		if err != nil {
			t.Fatalf("optimize(twoStage=%v): %v", twoStage, err)
		}
		return scoreCandidate(res.Best, est.Estimate(context.Background(), participants, res.Best, departure))
	}

	coarse := run(false)
	fine := run(true)
	if !candidateKeyNotWorse(fine, coarse) {
		t.Errorf("two-stage winner (%d,%d,%.2f) worse than stage-1 winner (%d,%d,%.2f)",
			fine.Max, fine.Sum, fine.Avg, coarse.Max, coarse.Sum, coarse.Avg)
	}
}

// TestOptimize_EndToEndScenario is the documented three-participant run with
// no provider configured.
func TestOptimize_EndToEndScenario(t *testing.T) {
	participants := threeParticipants()
	svc := NewService(NewEstimator(nil, nil), nil)

	res, err := svc.Optimize(context.Background(), OptimizeCommand{
		Participants: participants,
		RadiusMeters: 2000,
		TopN:         5,
		TwoStage:     true,
		Departure:    time.Date(2026, 9, 4, 19, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("optimize: %v", err)
	}

	if res.Stage1Count != 1+stage1Rings*stage1PerRing {
		t.Errorf("stage1 count = %d, want %d", res.Stage1Count, 1+stage1Rings*stage1PerRing)
	}
	if res.Stage2Count == 0 {
		t.Errorf("stage2 count = 0, want refined candidates")
	}
	if len(res.ETAs) != 3 {
		t.Fatalf("eta rows = %d, want 3", len(res.ETAs))
	}
	for i, e := range res.ETAs {
		if e.Minutes < 0 {
			t.Errorf("eta %d negative: %d", i, e.Minutes)
		}
		if e.Index != i {
			t.Errorf("eta row %d has index %d", i, e.Index)
		}
	}

	// best stays inside the searched region: stage-1 radius plus the
	// stage-2 neighbourhood radius around a stage-1 candidate.
	maxKm := (2000.0 + 500.0) / 1000.0
	if d := geo.DistanceKm(res.Seed, res.Best); d > maxKm+0.05 {
		t.Errorf("best %.3fkm from seed, beyond search region %.3fkm", d, maxKm)
	}
}

func TestOptimize_DedupeRoundsToSixDecimals(t *testing.T) {
	pts := []types.Point{
		{Lat: 37.5000001, Lng: 127.0300001},
		{Lat: 37.5000004, Lng: 127.0300004}, // rounds to same key
		{Lat: 37.5000015, Lng: 127.0300001}, // differs in 6th decimal
	}
	got := dedupePoints(pts)
	if len(got) != 2 {
		t.Errorf("deduped to %d points, want 2", len(got))
	}
}
