// Package tracer provides a lightweight tracing abstraction for the gateway.
//
// The service layer emits spans through the Tracer interface so it does not
// depend on OpenTelemetry APIs directly.
//
// Implementations:
//   - NoopTracer: for tests
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording err when non-nil.
	// End must be called exactly once, typically via defer.
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span with the given name and attributes.
	// The returned context carries the span and should be passed to child operations.
	//
	// Example:
	//   ctx, span := tr.Start(ctx, tracer.SpanDispatch,
	//       tracer.String(tracer.AttrOperation, "blockpatron"),
	//   )
	//   defer span.End(nil)
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Int64 creates an int64 attribute.
func Int64(key string, value int64) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Fingerprint returns a short SHA-256 digest of a credential so traces, logs
// and audit events can be correlated without exposing it.
func Fingerprint(secret string) string {
	if secret == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(hash[:8])
}

// Span names used by the gateway.
const (
	SpanAuthorize = "paaa.authorize"
	SpanDispatch  = "paaa.dispatch"
	SpanILSCall   = "paaa.ils.call"
)

// Attribute keys used by the gateway.
const (
	AttrOperation   = "paaa.operation"
	AttrPatronID    = "paaa.patron_id"
	AttrTokenFP     = "paaa.token_fp"
	AttrAuthOutcome = "paaa.auth_outcome"
	AttrCategory    = "paaa.error_category"
)

// Event names used by the gateway.
const (
	EventAuditEmitted = "audit.emitted"
)
