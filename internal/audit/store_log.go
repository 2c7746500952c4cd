package audit

import (
	"context"
	"log/slog"
	"time"
)

// LogStore writes every event as one structured log record and retains
// nothing, so ListByPatron always comes back empty. Shipping the log
// stream is the durable audit trail.
type LogStore struct {
	logger *slog.Logger
}

func NewLogStore(logger *slog.Logger) *LogStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogStore{logger: logger.With("component", "audit")}
}

func (s *LogStore) Append(ctx context.Context, event Event) error {
	s.logger.InfoContext(ctx, "audit event",
		"action", event.Action,
		"outcome", string(event.Outcome),
		"patron_id", event.PatronID,
		"actor", event.Actor,
		"reason", event.Reason,
		"request_id", event.RequestID,
		"timestamp", event.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	return nil
}

func (s *LogStore) ListByPatron(context.Context, string) ([]Event, error) {
	return nil, nil
}
