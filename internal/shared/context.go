package shared

import "context"

// DefaultTenant is the sentinel tenant used when the caller carries no identity.
const DefaultTenant = "default_tenant"

// Identity describes the authenticated caller scope.
type Identity struct {
	TenantID string
}

// Tenant returns the caller's tenant id, falling back to the sentinel tenant.
func (i Identity) Tenant() string {
	if i.TenantID == "" {
		return DefaultTenant
	}
	return i.TenantID
}

type identityContextKey struct{}

// ContextWithIdentity stores the caller identity in context.
func ContextWithIdentity(ctx context.Context, ident Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, ident)
}

// IdentityFromContext extracts the caller identity from context.
func IdentityFromContext(ctx context.Context) Identity {
	ident, _ := ctx.Value(identityContextKey{}).(Identity)
	return ident
}
