package storage

import "context"

type tenantKey struct{}

// SetTenant scopes every store operation made with ctx to tenantID.
func SetTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenantID)
}

// GetTenant returns the tenant carried by ctx, or "" in single-tenant mode.
func GetTenant(ctx context.Context) string {
	v, _ := ctx.Value(tenantKey{}).(string)
	return v
}
