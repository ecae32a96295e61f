package revenue

import (
	"context"
	"log/slog"
	"time"

	"github.com/innkeeper-pms/innkeeper/internal/money"
	"github.com/innkeeper-pms/innkeeper/internal/observability"
)

// TimezoneResolver resolves a property's IANA timezone name.
type TimezoneResolver interface {
	Resolve(ctx context.Context, propertyID, tenantID string) string
}

// Aggregator computes revenue summaries over the reservation store. Store
// failures never propagate past this boundary; the static fallback table is
// served instead and the degradation is logged and counted.
type Aggregator struct {
	repo     Repository
	resolver TimezoneResolver
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewAggregator wires the reservation repository with the timezone resolver.
func NewAggregator(repo Repository, resolver TimezoneResolver, logger *slog.Logger, metrics *observability.Metrics) *Aggregator {
	return &Aggregator{repo: repo, resolver: resolver, logger: logger, metrics: metrics}
}

// Aggregate returns the revenue summary for the query. Bounded queries are
// normalized to the property's local calendar before hitting the store: a
// guest booking at 23:00 New York time on Jan 31st belongs to Feb 1st for a
// property in Tirana.
func (a *Aggregator) Aggregate(ctx context.Context, q Query) (Summary, error) {
	if q.Bounded() {
		q = a.localizeBounds(ctx, q)
	}

	row, found, err := a.repo.SumReservations(ctx, q)
	if err != nil {
		a.logger.Warn("reservation store unavailable, serving fallback data",
			slog.String("property_id", q.PropertyID),
			slog.String("tenant_id", q.TenantID),
			slog.Any("error", err))
		a.metrics.FallbackServed()
		return fallbackSummary(q.PropertyID, q.TenantID)
	}
	if !found {
		return ZeroSummary(q.PropertyID, q.TenantID), nil
	}

	total, err := money.Quantize(row.Total)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		PropertyID: q.PropertyID,
		TenantID:   q.TenantID,
		Total:      total,
		Currency:   Currency,
		Count:      row.Count,
	}, nil
}

// localizeBounds reinterprets the caller's wall-clock bounds in the
// property's timezone and converts them to absolute UTC instants, so month
// boundaries computed in server time line up with the property's calendar.
func (a *Aggregator) localizeBounds(ctx context.Context, q Query) Query {
	name := a.resolver.Resolve(ctx, q.PropertyID, q.TenantID)
	loc, err := time.LoadLocation(name)
	if err != nil {
		a.logger.Warn("unknown timezone, using UTC",
			slog.String("property_id", q.PropertyID),
			slog.String("timezone", name),
			slog.Any("error", err))
		loc = time.UTC
	}
	start := rebind(*q.Start, loc)
	end := rebind(*q.End, loc)
	q.Start = &start
	q.End = &end
	return q
}

// rebind keeps t's wall-clock reading but anchors it in loc, returning the
// resulting absolute instant in UTC.
func rebind(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc).UTC()
}
