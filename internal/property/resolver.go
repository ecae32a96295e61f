package property

import (
	"context"
	"errors"
	"log/slog"

	"github.com/innkeeper-pms/innkeeper/internal/shared"
)

// FallbackTimezone is used whenever a property's timezone cannot be resolved.
const FallbackTimezone = "UTC"

// Resolver looks up a property's IANA timezone, degrading to UTC on any
// failure. Which local calendar day a booking falls into depends on the
// property's clock, but missing metadata must never block reporting.
type Resolver struct {
	repo   Repository
	logger *slog.Logger
}

// NewResolver wires a Repository with a logger.
func NewResolver(repo Repository, logger *slog.Logger) *Resolver {
	return &Resolver{repo: repo, logger: logger}
}

// Resolve returns the property's IANA timezone name, or "UTC" when the
// property has none recorded, does not exist, or the lookup fails. Resolution
// never returns an error past this boundary.
func (r *Resolver) Resolve(ctx context.Context, propertyID, tenantID string) string {
	tz, err := r.repo.PropertyTimezone(ctx, propertyID, tenantID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			r.logger.Warn("timezone lookup failed, using UTC",
				slog.String("property_id", propertyID),
				slog.String("tenant_id", tenantID),
				slog.Any("error", err))
		}
		return FallbackTimezone
	}
	if tz == "" {
		return FallbackTimezone
	}
	return tz
}
