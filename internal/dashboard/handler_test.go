package dashboard

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/innkeeper-pms/innkeeper/internal/revenue"
	"github.com/innkeeper-pms/innkeeper/internal/shared"
)

func newTestRouter(provider RevenueProvider) http.Handler {
	svc := newServiceAt(provider, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC))
	handler := NewHandler(slog.Default(), svc)
	r := chi.NewRouter()
	handler.MountRoutes(r)
	return r
}

func TestHandleSummaryReturnsPayload(t *testing.T) {
	provider := &capturingProvider{
		summary: revenue.Summary{
			PropertyID: "prop-001",
			TenantID:   "tenant-a",
			Total:      decimal.RequireFromString("1000.00"),
			Currency:   "USD",
			Count:      3,
		},
	}
	router := newTestRouter(provider)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/summary?property_id=prop-001", nil)
	req = req.WithContext(shared.ContextWithIdentity(req.Context(), shared.Identity{TenantID: "tenant-a"}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var payload struct {
		PropertyID        string  `json:"property_id"`
		TotalRevenue      float64 `json:"total_revenue"`
		Currency          string  `json:"currency"`
		ReservationsCount int64   `json:"reservations_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, "prop-001", payload.PropertyID)
	require.InDelta(t, 1000.0, payload.TotalRevenue, 0.0001)
	require.Equal(t, "USD", payload.Currency)
	require.Equal(t, int64(3), payload.ReservationsCount)
	require.Equal(t, "tenant-a", provider.lastQuery.TenantID)
}

func TestHandleSummaryRequiresPropertyID(t *testing.T) {
	provider := &capturingProvider{}
	router := newTestRouter(provider)

	req := httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, 0, provider.calls)
}
