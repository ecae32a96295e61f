package revenue

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/innkeeper-pms/innkeeper/internal/money"
)

// Currency is the only currency in scope; multi-currency is a non-goal.
const Currency = "USD"

// Query scopes an aggregation to a property and tenant with an optional
// half-open time window. Either both bounds are set or neither.
type Query struct {
	PropertyID string
	TenantID   string
	Start      *time.Time
	End        *time.Time
}

// Bounded reports whether the query carries a time window.
func (q Query) Bounded() bool {
	return q.Start != nil && q.End != nil
}

// Summary is the aggregation result for one property and tenant. Total is
// always quantized to scale 2; Count == 0 implies Total == 0.00.
type Summary struct {
	PropertyID string
	TenantID   string
	Total      decimal.Decimal
	Currency   string
	Count      int64
}

// ZeroSummary is the successful no-bookings result.
func ZeroSummary(propertyID, tenantID string) Summary {
	return Summary{
		PropertyID: propertyID,
		TenantID:   tenantID,
		Total:      money.Zero,
		Currency:   Currency,
	}
}

// wireSummary is the JSON cache-entry format. Total travels as a fixed
// two-decimal string so the text transport preserves exact precision.
type wireSummary struct {
	PropertyID string `json:"property_id"`
	TenantID   string `json:"tenant_id"`
	Total      string `json:"total"`
	Currency   string `json:"currency"`
	Count      int64  `json:"count"`
}

func toWire(s Summary) wireSummary {
	return wireSummary{
		PropertyID: s.PropertyID,
		TenantID:   s.TenantID,
		Total:      money.String(s.Total),
		Currency:   s.Currency,
		Count:      s.Count,
	}
}

func fromWire(w wireSummary) (Summary, error) {
	total, err := money.Quantize(w.Total)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		PropertyID: w.PropertyID,
		TenantID:   w.TenantID,
		Total:      total,
		Currency:   w.Currency,
		Count:      w.Count,
	}, nil
}
