package revenue

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/innkeeper-pms/innkeeper/internal/shared"
)

// Row is one grouped aggregation result. Total stays textual until the
// aggregator quantizes it; amounts never pass through floating point.
type Row struct {
	Total string
	Count int64
}

// Repository defines the reservation aggregation port.
type Repository interface {
	// SumReservations runs the grouped aggregation for the query. found is
	// false when the property has no reservations in range, which is a
	// success. Store failures are reported as shared.ErrStoreUnavailable.
	SumReservations(ctx context.Context, q Query) (row Row, found bool, err error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// SumReservations aggregates reservation totals for a property and tenant,
// optionally filtered by a half-open [start, end) check-in window.
func (r *PGRepository) SumReservations(ctx context.Context, q Query) (Row, bool, error) {
	if r.pool == nil {
		return Row{}, false, fmt.Errorf("%w: pool not initialised", shared.ErrStoreUnavailable)
	}

	query := `
		SELECT SUM(total_amount)::text, COUNT(*)
		FROM reservations
		WHERE property_id = $1 AND tenant_id = $2`
	args := []any{q.PropertyID, q.TenantID}
	if q.Bounded() {
		query += ` AND check_in_date >= $3 AND check_in_date < $4`
		args = append(args, *q.Start, *q.End)
	}
	query += ` GROUP BY property_id`

	var row Row
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&row.Total, &row.Count); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Row{}, false, nil
		}
		return Row{}, false, fmt.Errorf("%w: %v", shared.ErrStoreUnavailable, err)
	}
	return row, true, nil
}

var _ Repository = (*PGRepository)(nil)
