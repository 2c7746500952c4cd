// Package requestcontext carries request-scoped values (request id, request time)
// through context.Context so services and adapters never reach into *http.Request.
package requestcontext

import (
	"context"
	"time"
)

type requestIDKey struct{}
type requestTimeKey struct{}

// WithRequestID stores the correlation id for the current request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestID returns the correlation id, or "" outside a request.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithTime pins "now" for the request so every timestamp derived from it agrees.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}

// Now returns the pinned request time, falling back to time.Now() for
// contexts that did not pass through the HTTP middleware (CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}
