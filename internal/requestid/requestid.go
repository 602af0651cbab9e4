// Package requestid carries a per-request correlation ID through a context.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header used to exchange request IDs
const Header = "X-Request-ID"

type contextKey struct{}

// WithID returns a copy of ctx carrying id
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the request ID stored in ctx, or "" when none is set
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}

// Ensure returns the request ID stored in ctx, generating a new one if needed.
func Ensure(ctx context.Context) (context.Context, string) {
	if id := FromContext(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithID(ctx, id), id
}
