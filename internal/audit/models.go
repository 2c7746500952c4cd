package audit

import "time"

// Event is emitted by the gateway for every dispatched operation. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time
	RequestID string
	PatronID  string
	// Actor is a fingerprint of the bearer token, never the token itself.
	Actor   string
	Action  string
	Outcome Outcome
	Reason  string
}

// Outcome records whether the backend call behind an event succeeded.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

type AuditEvent string

const (
	EventAuthDenied      AuditEvent = "auth_denied"
	EventPatronSignedUp  AuditEvent = "patron_signed_up"
	EventPatronCreated   AuditEvent = "patron_created"
	EventPatronUpdated   AuditEvent = "patron_updated"
	EventPatronBlocked   AuditEvent = "patron_blocked"
	EventPatronUnblocked AuditEvent = "patron_unblocked"
	EventPatronDeleted   AuditEvent = "patron_deleted"
	EventFeeCreated      AuditEvent = "fee_created"
	EventSignupBlocked   AuditEvent = "signup_blocked"
)
