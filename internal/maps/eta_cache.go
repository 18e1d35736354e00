// README: Redis cache decorating the Distance Matrix source.
package maps

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"meetpoint/internal/modules/meetpoint"
	"meetpoint/internal/types"
)

const (
	etaKeyPrefix = "eta:%s:%s:%s:%d"
	// etaTTL is short: candidate lattices re-query the same rows within a
	// request burst, not across meaningfully different traffic conditions.
	etaTTL = 10 * time.Minute
	// departureBucket groups departure instants so adjacent requests share
	// cache rows.
	departureBucket = 5 * time.Minute
)

// CachedMatrix wraps a MatrixSource with per-row redis caching keyed by
// (mode, origin, destination, departure bucket). Missing rows are never
// cached; cache failures degrade to the wrapped source.
type CachedMatrix struct {
	next  meetpoint.MatrixSource
	redis *redis.Client
	log   *slog.Logger
}

func NewCachedMatrix(next meetpoint.MatrixSource, redis *redis.Client, log *slog.Logger) *CachedMatrix {
	if log == nil {
		log = slog.Default()
	}
	return &CachedMatrix{next: next, redis: redis, log: log}
}

func (c *CachedMatrix) Durations(ctx context.Context, origins []types.Point, dest types.Point, mode meetpoint.Mode, departure time.Time) ([]int, error) {
	keys := make([]string, len(origins))
	for i, o := range origins {
		keys[i] = etaKey(o, dest, mode, departure)
	}

	out := make([]int, len(origins))
	for i := range out {
		out[i] = meetpoint.ETAMissing
	}

	var missIdx []int
	cached, err := c.redis.MGet(ctx, keys...).Result()
	if err != nil {
		c.log.Debug("eta cache read failed", "err", err)
		missIdx = allIndices(len(origins))
	} else {
		for i, v := range cached {
			s, ok := v.(string)
			if !ok {
				missIdx = append(missIdx, i)
				continue
			}
			n, err := strconv.Atoi(s)
			if err != nil || n < 0 {
				missIdx = append(missIdx, i)
				continue
			}
			out[i] = n
		}
	}

	if len(missIdx) == 0 {
		return out, nil
	}

	missOrigins := make([]types.Point, len(missIdx))
	for i, idx := range missIdx {
		missOrigins[i] = origins[idx]
	}
	fresh, err := c.next.Durations(ctx, missOrigins, dest, mode, departure)
	if err != nil {
		// cached rows are still usable; report the provider error only if
		// nothing was resolved at all
		if len(missIdx) == len(origins) {
			return nil, err
		}
		return out, nil
	}

	pipe := c.redis.Pipeline()
	for i, idx := range missIdx {
		if i >= len(fresh) || fresh[i] < 0 {
			continue
		}
		out[idx] = fresh[i]
		pipe.Set(ctx, keys[idx], strconv.Itoa(fresh[i]), etaTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Debug("eta cache write failed", "err", err)
	}
	return out, nil
}

func etaKey(origin, dest types.Point, mode meetpoint.Mode, departure time.Time) string {
	bucket := departure.Unix() / int64(departureBucket/time.Second)
	return fmt.Sprintf(etaKeyPrefix, mode, roundedPoint(origin), roundedPoint(dest), bucket)
}

// roundedPoint quantizes to ~1m so float noise does not fragment the cache.
func roundedPoint(p types.Point) string {
	return fmt.Sprintf("%.5f,%.5f", p.Lat, p.Lng)
}

func allIndices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
