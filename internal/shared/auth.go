package shared

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// KeyStore resolves an API key to the tenant it belongs to.
type KeyStore interface {
	TenantForKey(ctx context.Context, key string) (string, error)
}

// PGKeyStore looks up API keys in PostgreSQL.
type PGKeyStore struct {
	pool *pgxpool.Pool
}

// NewAPIKeyStore constructs a PostgreSQL backed key store.
func NewAPIKeyStore(pool *pgxpool.Pool) *PGKeyStore {
	return &PGKeyStore{pool: pool}
}

// TenantForKey returns the tenant owning the key, or ErrNotFound.
func (s *PGKeyStore) TenantForKey(ctx context.Context, key string) (string, error) {
	const query = `SELECT tenant_id FROM api_keys WHERE key_hash = encode(sha256($1), 'hex') AND revoked_at IS NULL`
	var tenantID string
	if err := s.pool.QueryRow(ctx, query, []byte(key)).Scan(&tenantID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return tenantID, nil
}

var _ KeyStore = (*PGKeyStore)(nil)

// APIKeyAuth resolves the caller's tenant from a bearer API key and stores it
// in the request context. Requests without a key proceed with an empty
// identity unless required is set; an unknown key is always rejected.
func APIKeyAuth(logger *slog.Logger, store KeyStore, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := bearerToken(r)
			if key == "" {
				key = r.Header.Get("X-API-Key")
			}
			if key == "" {
				if required {
					http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
					return
				}
				next.ServeHTTP(w, r)
				return
			}
			tenantID, err := store.TenantForKey(r.Context(), key)
			if err != nil {
				if !errors.Is(err, ErrNotFound) {
					logger.Error("api key lookup", slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			ctx := ContextWithIdentity(r.Context(), Identity{TenantID: tenantID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
