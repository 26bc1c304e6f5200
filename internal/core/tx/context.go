package tx

import (
	"context"
)

type managerKey struct{}

// WithManager stores the transaction manager in the context.
// The database middleware does this once per request; repositories and
// services retrieve it instead of holding a pool reference.
func WithManager(ctx context.Context, m Manager) context.Context {
	return context.WithValue(ctx, managerKey{}, m)
}

// GetManager returns the transaction manager from context, or nil.
func GetManager(ctx context.Context) Manager {
	if m, ok := ctx.Value(managerKey{}).(Manager); ok {
		return m
	}
	return nil
}

// MustGetManager returns the transaction manager from context.
// Panics if absent - that indicates a missing database middleware, a
// programming error rather than a runtime condition.
func MustGetManager(ctx context.Context) Manager {
	m := GetManager(ctx)
	if m == nil {
		panic("tx: no transaction manager in context")
	}
	return m
}
