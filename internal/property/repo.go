package property

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/innkeeper-pms/innkeeper/internal/shared"
)

// Repository defines persistence operations for property metadata.
type Repository interface {
	PropertyTimezone(ctx context.Context, propertyID, tenantID string) (string, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// PropertyTimezone fetches the stored IANA timezone for a property. An empty
// string is returned when the property has no recorded timezone.
func (r *PGRepository) PropertyTimezone(ctx context.Context, propertyID, tenantID string) (string, error) {
	const query = `SELECT COALESCE(timezone, '') FROM properties WHERE id = $1 AND tenant_id = $2`
	var tz string
	if err := r.pool.QueryRow(ctx, query, propertyID, tenantID).Scan(&tz); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", shared.ErrNotFound
		}
		return "", err
	}
	return tz, nil
}

var _ Repository = (*PGRepository)(nil)
