// Package dataset carries the live/demo data set selection through a request.
package dataset

import "context"

type contextKey string

const demoKey contextKey = "demo"

// WithDemo marks ctx as addressing the demo data set.
func WithDemo(ctx context.Context, demo bool) context.Context {
	return context.WithValue(ctx, demoKey, demo)
}

// IsDemo reports whether ctx addresses the demo data set. Live is the default.
func IsDemo(ctx context.Context) bool {
	demo, ok := ctx.Value(demoKey).(bool)
	return ok && demo
}
