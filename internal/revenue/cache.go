package revenue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/innkeeper-pms/innkeeper/internal/observability"
	"github.com/innkeeper-pms/innkeeper/internal/shared"
)

// DefaultTTL bounds the accepted staleness window of cached summaries.
const DefaultTTL = 300 * time.Second

const cacheDateLayout = "20060102"

// Cache wraps the Aggregator with Redis based caching. Concurrent misses on
// one key collapse into a single aggregation via singleflight; a Redis outage
// degrades to direct aggregation rather than failing the request.
type Cache struct {
	client     *redis.Client
	aggregator *Aggregator
	ttl        time.Duration
	logger     *slog.Logger
	metrics    *observability.Metrics
	group      singleflight.Group
}

// NewCache wires the aggregator with a Redis client. A non-positive ttl
// falls back to DefaultTTL.
func NewCache(client *redis.Client, aggregator *Aggregator, ttl time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, aggregator: aggregator, ttl: ttl, logger: logger, metrics: metrics}
}

// Key builds the cache key for a query. Bounded and unbounded queries occupy
// disjoint key spaces so one can never answer for the other.
func Key(q Query) string {
	key := fmt.Sprintf("revenue:%s:%s", q.TenantID, q.PropertyID)
	if q.Bounded() {
		key += fmt.Sprintf(":%s-%s", q.Start.Format(cacheDateLayout), q.End.Format(cacheDateLayout))
	}
	return key
}

// GetOrCompute returns the cached summary when present and fresh, otherwise
// aggregates, stores the result with the configured TTL, and returns it.
func (c *Cache) GetOrCompute(ctx context.Context, q Query) (Summary, error) {
	key := Key(q)

	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var w wireSummary
		if jsonErr := json.Unmarshal(payload, &w); jsonErr == nil {
			if summary, convErr := fromWire(w); convErr == nil {
				c.metrics.CacheHit()
				return summary, nil
			}
		}
		// Corrupt entry: fall through and recompute.
		c.logger.Warn("discarding unreadable cache entry", slog.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("cache store unreachable, aggregating directly",
			slog.String("key", key),
			slog.Any("error", fmt.Errorf("%w: %v", shared.ErrCacheUnavailable, err)))
		c.metrics.CacheDegraded()
		return c.aggregator.Aggregate(ctx, q)
	} else {
		c.metrics.CacheMiss()
	}

	return c.computeAndStore(ctx, key, q)
}

// computeAndStore collapses concurrent misses for one key into a single
// aggregation. A cancelled caller abandons the flight; its result is shared
// with the survivors but never cached on their behalf by the cancelled call.
func (c *Cache) computeAndStore(ctx context.Context, key string, q Query) (Summary, error) {
	resultChan := c.group.DoChan(key, func() (interface{}, error) {
		summary, err := c.aggregator.Aggregate(ctx, q)
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, summary)
		return summary, nil
	})
	select {
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return Summary{}, res.Err
		}
		return res.Val.(Summary), nil
	}
}

func (c *Cache) store(ctx context.Context, key string, summary Summary) {
	payload, err := json.Marshal(toWire(summary))
	if err != nil {
		c.logger.Warn("marshal cache entry", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}
