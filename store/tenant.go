package store

import "context"

const DefaultTenant = "default"

type tenantKeyContext struct{}

// WithTenant routes store calls made with the returned context to tenant.
func WithTenant(ctx context.Context, tenant string) context.Context {
	return context.WithValue(ctx, tenantKeyContext{}, tenant)
}

func TenantFromContext(ctx context.Context) (string, bool) {
	tenant, ok := ctx.Value(tenantKeyContext{}).(string)
	return tenant, ok && tenant != ""
}

// Tenant returns the context tenant or DefaultTenant.
func Tenant(ctx context.Context) (string, bool) {
	if tenant, ok := TenantFromContext(ctx); ok {
		return tenant, true
	}
	return DefaultTenant, true
}
