package revenue

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T, repo Repository) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	agg := newTestAggregator(repo, &staticResolver{})
	return NewCache(client, agg, DefaultTTL, slog.Default(), nil), mr
}

func TestKeySpacesAreDisjoint(t *testing.T) {
	unbounded := Query{PropertyID: "prop-001", TenantID: "tenant-a"}
	require.Equal(t, Key(unbounded), Key(Query{PropertyID: "prop-001", TenantID: "tenant-a"}))
	require.Equal(t, "revenue:tenant-a:prop-001", Key(unbounded))

	bounded := boundedQuery("prop-001", "tenant-a",
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.Equal(t, "revenue:tenant-a:prop-001:20240201-20240301", Key(bounded))
	require.NotEqual(t, Key(unbounded), Key(bounded))
}

func TestGetOrComputeCachesResult(t *testing.T) {
	repo := &memoryReservationRepo{
		reservations: []reservation{
			{checkIn: time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC), amount: "199.99"},
		},
	}
	cache, _ := newTestCache(t, repo)
	ctx := context.Background()
	q := Query{PropertyID: "prop-001", TenantID: "tenant-a"}

	first, err := cache.GetOrCompute(ctx, q)
	require.NoError(t, err)
	require.Equal(t, int64(1), first.Count)
	require.Equal(t, 1, repo.calls)

	// Second call must come from cache without touching the store.
	second, err := cache.GetOrCompute(ctx, q)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)
	require.True(t, first.Total.Equal(second.Total))
	require.Equal(t, first.Count, second.Count)
}

func TestGetOrComputeStoresWireFormat(t *testing.T) {
	repo := &memoryReservationRepo{
		reservations: []reservation{
			{checkIn: time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC), amount: "1000"},
		},
	}
	cache, mr := newTestCache(t, repo)
	q := Query{PropertyID: "prop-001", TenantID: "tenant-a"}

	_, err := cache.GetOrCompute(context.Background(), q)
	require.NoError(t, err)

	raw, err := mr.Get(Key(q))
	require.NoError(t, err)
	var w struct {
		PropertyID string `json:"property_id"`
		TenantID   string `json:"tenant_id"`
		Total      string `json:"total"`
		Currency   string `json:"currency"`
		Count      int64  `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &w))
	require.Equal(t, "1000.00", w.Total)
	require.Equal(t, "USD", w.Currency)
	require.Equal(t, int64(1), w.Count)
}

func TestGetOrComputeRespectsTTL(t *testing.T) {
	repo := &memoryReservationRepo{
		reservations: []reservation{
			{checkIn: time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC), amount: "50.00"},
		},
	}
	cache, mr := newTestCache(t, repo)
	ctx := context.Background()
	q := Query{PropertyID: "prop-001", TenantID: "tenant-a"}

	_, err := cache.GetOrCompute(ctx, q)
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	mr.FastForward(DefaultTTL + time.Second)

	_, err = cache.GetOrCompute(ctx, q)
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)
}

func TestGetOrComputeDegradesWhenCacheUnreachable(t *testing.T) {
	repo := &memoryReservationRepo{
		reservations: []reservation{
			{checkIn: time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC), amount: "75.25"},
		},
	}
	cache, mr := newTestCache(t, repo)
	mr.Close()

	summary, err := cache.GetOrCompute(context.Background(), Query{PropertyID: "prop-001", TenantID: "tenant-a"})
	require.NoError(t, err)
	require.Equal(t, "75.25", summary.Total.StringFixed(2))
	require.Equal(t, 1, repo.calls)
}

func TestGetOrComputeDiscardsCorruptEntry(t *testing.T) {
	repo := &memoryReservationRepo{
		reservations: []reservation{
			{checkIn: time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC), amount: "10.00"},
		},
	}
	cache, mr := newTestCache(t, repo)
	q := Query{PropertyID: "prop-001", TenantID: "tenant-a"}
	require.NoError(t, mr.Set(Key(q), "{not json"))

	summary, err := cache.GetOrCompute(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, "10.00", summary.Total.StringFixed(2))
	require.Equal(t, 1, repo.calls)
}
