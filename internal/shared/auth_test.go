package shared

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubKeyStore struct {
	tenants map[string]string
	err     error
}

func (s *stubKeyStore) TenantForKey(ctx context.Context, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	tenant, ok := s.tenants[key]
	if !ok {
		return "", ErrNotFound
	}
	return tenant, nil
}

func authProbe(t *testing.T, store KeyStore, required bool, req *http.Request) (*httptest.ResponseRecorder, Identity) {
	t.Helper()
	var seen Identity
	handler := APIKeyAuth(slog.Default(), store, required)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func TestAPIKeyAuthResolvesTenant(t *testing.T) {
	store := &stubKeyStore{tenants: map[string]string{"sk-live-123": "tenant-a"}}
	req := httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil)
	req.Header.Set("Authorization", "Bearer sk-live-123")

	rec, ident := authProbe(t, store, false, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "tenant-a", ident.Tenant())
}

func TestAPIKeyAuthRejectsUnknownKey(t *testing.T) {
	store := &stubKeyStore{tenants: map[string]string{}}
	req := httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil)
	req.Header.Set("X-API-Key", "bogus")

	rec, _ := authProbe(t, store, false, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIKeyAuthWithoutKey(t *testing.T) {
	store := &stubKeyStore{}

	rec, ident := authProbe(t, store, false, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, DefaultTenant, ident.Tenant())

	rec, _ = authProbe(t, store, true, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIKeyAuthLookupFailure(t *testing.T) {
	store := &stubKeyStore{err: errors.New("connection refused")}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer sk-live-123")

	rec, _ := authProbe(t, store, false, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
