package shared

import (
	"context"
	"time"
)

// RequestContext carries per-request state that services need: who is
// calling and the instant the request is evaluated at. It replaces any
// process-wide mutable state.
type RequestContext struct {
	RequestID string
	UserID    string
	Now       time.Time
}

type requestContextKey struct{}

// WithRequestContext attaches rc to ctx
func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

// RequestContextFrom returns the request context stored in ctx. Outside a
// request (scheduler, tests) it returns a context evaluated at time.Now().
func RequestContextFrom(ctx context.Context) RequestContext {
	if rc, ok := ctx.Value(requestContextKey{}).(RequestContext); ok {
		return rc
	}
	return RequestContext{Now: time.Now()}
}

// Now returns the evaluation instant of the request in ctx
func Now(ctx context.Context) time.Time {
	rc := RequestContextFrom(ctx)
	if rc.Now.IsZero() {
		return time.Now()
	}
	return rc.Now
}

// Today returns the local calendar date of Now(ctx) as midnight UTC, the
// representation used for every stored date
func Today(ctx context.Context) time.Time {
	now := Now(ctx)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
