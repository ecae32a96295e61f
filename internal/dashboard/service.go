package dashboard

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/innkeeper-pms/innkeeper/internal/revenue"
	"github.com/innkeeper-pms/innkeeper/internal/shared"
)

// RevenueProvider is the cached revenue lookup the dashboard delegates to.
type RevenueProvider interface {
	GetOrCompute(ctx context.Context, q revenue.Query) (revenue.Summary, error)
}

// SummaryResponse is the external dashboard payload.
type SummaryResponse struct {
	PropertyID        string  `json:"property_id"`
	TotalRevenue      float64 `json:"total_revenue"`
	Currency          string  `json:"currency"`
	ReservationsCount int64   `json:"reservations_count"`
}

// Service shapes revenue summaries for the dashboard.
type Service struct {
	provider RevenueProvider
	clock    func() time.Time
}

// NewService wires the cached revenue provider.
func NewService(provider RevenueProvider) *Service {
	return &Service{provider: provider, clock: time.Now}
}

// Summary computes the current-month revenue summary for a property. The
// month window is taken in server-local time; the aggregation layer aligns it
// with the property's calendar.
func (s *Service) Summary(ctx context.Context, propertyID string, ident shared.Identity) (SummaryResponse, error) {
	start, end := monthWindow(s.clock())
	summary, err := s.provider.GetOrCompute(ctx, revenue.Query{
		PropertyID: propertyID,
		TenantID:   ident.Tenant(),
		Start:      &start,
		End:        &end,
	})
	if err != nil {
		return SummaryResponse{}, err
	}
	return SummaryResponse{
		PropertyID:        summary.PropertyID,
		TotalRevenue:      summary.Total.InexactFloat64(),
		Currency:          summary.Currency,
		ReservationsCount: summary.Count,
	}, nil
}

// MonthlyRevenue returns the quantized revenue total for an arbitrary
// calendar month, going through the same cache path as the dashboard.
func (s *Service) MonthlyRevenue(ctx context.Context, propertyID, tenantID string, year int, month time.Month) (decimal.Decimal, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 1, 0)
	summary, err := s.provider.GetOrCompute(ctx, revenue.Query{
		PropertyID: propertyID,
		TenantID:   tenantID,
		Start:      &start,
		End:        &end,
	})
	if err != nil {
		return decimal.Decimal{}, err
	}
	return summary.Total, nil
}

// monthWindow returns the half-open [first instant of now's month, first
// instant of the next month). AddDate carries year rollover and variable
// month lengths.
func monthWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 1, 0)
}
