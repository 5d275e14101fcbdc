package shared

import "context"

type tenantContextKey struct{}

// ContextWithTenant stores the authenticated tenant ID in context. Only the
// HTTP boundary reads it back; core packages receive the tenant ID as an
// explicit argument.
func ContextWithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tenantID)
}

// TenantFromContext extracts the authenticated tenant ID from context.
func TenantFromContext(ctx context.Context) string {
	tenantID, _ := ctx.Value(tenantContextKey{}).(string)
	return tenantID
}
