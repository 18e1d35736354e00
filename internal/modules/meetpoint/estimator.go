// README: Two-tier travel time estimator (routing provider + analytic fallback).
package meetpoint

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"meetpoint/internal/geo"
	"meetpoint/internal/types"
)

// ETAMissing marks a provider slot that produced no usable duration. The
// estimator replaces every such slot with the analytic fallback, so callers
// never see it.
const ETAMissing = -1

// providerBatchLimit is the Distance Matrix maximum origins per request.
const providerBatchLimit = 25

// providerCallTimeout bounds each individual provider call; a timed-out
// group degrades to the fallback without affecting the others.
const providerCallTimeout = 10 * time.Second

// MatrixSource resolves travel durations from a set of origins to one
// destination for a single travel mode. A returned slice matches origins
// positionally; unresolved rows carry ETAMissing. Implementations must not
// be given more than providerBatchLimit origins per call.
type MatrixSource interface {
	Durations(ctx context.Context, origins []types.Point, dest types.Point, mode Mode, departure time.Time) ([]int, error)
}

// Estimator produces a complete per-participant ETA vector for one
// destination. With no MatrixSource configured every slot comes from the
// speed-table fallback.
type Estimator struct {
	source MatrixSource
	log    *slog.Logger
}

func NewEstimator(source MatrixSource, log *slog.Logger) *Estimator {
	if log == nil {
		log = slog.Default()
	}
	return &Estimator{source: source, log: log}
}

// modeGroup is one routing group: participants sharing a provider travel
// mode, remembered by their original slot index.
type modeGroup struct {
	mode    Mode
	indices []int
}

// groupByMode partitions participants into the four routing groups.
// Unrecognized modes ride with the driving group via ParseMode.
func groupByMode(participants []Participant) []modeGroup {
	byMode := map[Mode]*modeGroup{}
	order := []Mode{ModeCar, ModeWalk, ModeBus, ModeSubway}
	for _, m := range order {
		byMode[m] = &modeGroup{mode: m}
	}
	for i, p := range participants {
		g := byMode[ParseMode(string(p.Mode))]
		g.indices = append(g.indices, i)
	}
	groups := make([]modeGroup, 0, len(order))
	for _, m := range order {
		if len(byMode[m].indices) > 0 {
			groups = append(groups, *byMode[m])
		}
	}
	return groups
}

// Estimate returns one integer minute value per participant, in order.
// Provider failures (whole batches or single rows) degrade to the fallback;
// the result never contains ETAMissing.
func (e *Estimator) Estimate(ctx context.Context, participants []Participant, dest types.Point, departure time.Time) []int {
	etas := make([]int, len(participants))
	for i := range etas {
		etas[i] = ETAMissing
	}

	if e.source != nil {
		var wg sync.WaitGroup
		for _, g := range groupByMode(participants) {
			wg.Add(1)
			go func(g modeGroup) {
				defer wg.Done()
				e.fillGroup(ctx, participants, g, dest, departure, etas)
			}(g)
		}
		wg.Wait()
	}

	for i, v := range etas {
		if v < 0 {
			etas[i] = fallbackMinutes(participants[i], dest)
		}
	}
	return etas
}

// fillGroup resolves one routing group in sequential batches of at most
// providerBatchLimit origins. Group members occupy disjoint slots of etas,
// so concurrent groups never write the same index.
func (e *Estimator) fillGroup(ctx context.Context, participants []Participant, g modeGroup, dest types.Point, departure time.Time, etas []int) {
	for start := 0; start < len(g.indices); start += providerBatchLimit {
		end := start + providerBatchLimit
		if end > len(g.indices) {
			end = len(g.indices)
		}
		batch := g.indices[start:end]

		origins := make([]types.Point, len(batch))
		for i, idx := range batch {
			origins[i] = participants[idx].Position
		}

		callCtx, cancel := context.WithTimeout(ctx, providerCallTimeout)
		mins, err := e.source.Durations(callCtx, origins, dest, g.mode, departure)
		cancel()
		if err != nil {
			e.log.Debug("matrix batch failed, using fallback",
				"mode", string(g.mode), "origins", len(origins), "err", err)
			continue
		}
		for i, idx := range batch {
			if i < len(mins) && mins[i] >= 0 {
				etas[idx] = mins[i]
			}
		}
	}
}

// fallbackMinutes is the deterministic analytic estimate: great-circle
// distance over the mode's assumed speed.
func fallbackMinutes(p Participant, dest types.Point) int {
	dKm := geo.DistanceKm(p.Position, dest)
	v := math.Max(p.Mode.SpeedKmh(), 1e-9)
	return int(math.Round(dKm / v * 60.0))
}
