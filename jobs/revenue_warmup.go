package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/innkeeper-pms/innkeeper/internal/dashboard"
)

// RevenueWarmupJob pre-populates the dashboard revenue cache for active
// properties so the first request of the day does not pay for aggregation.
type RevenueWarmupJob struct {
	Dashboard *dashboard.Service
	Pool      *pgxpool.Pool
	Logger    *slog.Logger
	clock     func() time.Time
}

// NewRevenueWarmupJob wires dependencies for the warmup handler.
func NewRevenueWarmupJob(svc *dashboard.Service, pool *pgxpool.Pool, logger *slog.Logger) *RevenueWarmupJob {
	return &RevenueWarmupJob{
		Dashboard: svc,
		Pool:      pool,
		Logger:    logger,
		clock:     time.Now,
	}
}

// Handle processes revenue warmup tasks.
func (j *RevenueWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("revenue warmup: handler not configured")
	}
	var payload RevenueWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Scope == "" {
		payload.Scope = "active"
	}

	logger := j.logger().With(slog.String("scope", payload.Scope))
	logger.Info("starting revenue warmup")

	scopes, err := j.fetchScopes(ctx)
	if err != nil {
		logger.Error("load warmup scopes", slog.Any("error", err))
		return err
	}
	if len(scopes) == 0 {
		logger.Info("no properties discovered for warmup")
		return nil
	}

	now := j.now()
	warmed := 0
	for _, scope := range scopes {
		if err := j.warmScope(ctx, scope, now); err != nil {
			logger.Error("warm property",
				slog.String("property_id", scope.PropertyID),
				slog.String("tenant_id", scope.TenantID),
				slog.Any("error", err))
			return err
		}
		warmed++
	}

	logger.Info("completed revenue warmup", slog.Int("properties", warmed), slog.Duration("duration", time.Since(now)))
	return nil
}

func (j *RevenueWarmupJob) warmScope(ctx context.Context, scope warmupScope, now time.Time) error {
	if j.Dashboard == nil {
		return nil
	}
	scopeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := j.Dashboard.MonthlyRevenue(scopeCtx, scope.PropertyID, scope.TenantID, now.Year(), now.Month())
	return err
}

func (j *RevenueWarmupJob) fetchScopes(ctx context.Context) ([]warmupScope, error) {
	if j.Pool == nil {
		return nil, errors.New("revenue warmup: pool not configured")
	}
	rows, err := j.Pool.Query(ctx, `SELECT id, tenant_id FROM properties ORDER BY tenant_id, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scopes := make([]warmupScope, 0)
	for rows.Next() {
		var scope warmupScope
		if err := rows.Scan(&scope.PropertyID, &scope.TenantID); err != nil {
			return nil, err
		}
		scopes = append(scopes, scope)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scopes, nil
}

func (j *RevenueWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskRevenueWarmup))
	}
	return slog.Default().With(slog.String("job", TaskRevenueWarmup))
}

func (j *RevenueWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now()
}

type warmupScope struct {
	PropertyID string
	TenantID   string
}
