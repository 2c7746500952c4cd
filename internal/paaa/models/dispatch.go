package models

// AuthOutcome is the result of the authorization gate.
type AuthOutcome int

const (
	// Unauthorized covers a missing token, a token the backend rejected, and
	// backend errors while validating.
	Unauthorized AuthOutcome = iota
	Authorized
	// AuthorizationUnavailable means no Authorization backend is configured.
	// Clients still see 401.
	AuthorizationUnavailable
)

// String returns a label suitable for logs and metrics.
func (o AuthOutcome) String() string {
	switch o {
	case Authorized:
		return "authorized"
	case AuthorizationUnavailable:
		return "unavailable"
	default:
		return "unauthorized"
	}
}

// Command is one authorized request handed to the dispatcher.
// Decode reads the request body in the negotiated format; the dispatcher calls
// it only after confirming an ILS is configured.
type Command struct {
	Operation Operation
	PatronID  string
	Token     string
	Decode    func(v any) error
}
