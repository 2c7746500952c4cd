package service

import (
	"context"
	"time"

	"paaa/internal/audit"
	"paaa/internal/paaa/models"
	"paaa/internal/paaa/ports"
	dErrors "paaa/pkg/domain-errors"
	"paaa/pkg/requestcontext"
)

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.Timestamp = requestcontext.Now(ctx)
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"patron_id", event.PatronID,
			"error", err,
		)
	}
}

func (s *Service) incrementRequests(op models.Operation, err error) {
	if s.metrics == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
	}
	s.metrics.IncrementRequests(op.String(), outcome)
}

func (s *Service) incrementAuthFailures(op models.Operation, reason string) {
	if s.metrics != nil {
		s.metrics.IncrementAuthFailures(op.String(), reason)
	}
}

func (s *Service) observeBackendLatency(op models.Operation, d time.Duration) {
	if s.metrics != nil {
		s.metrics.ObserveBackendLatency(op.String(), d.Seconds())
	}
}

func (s *Service) incrementBackendFailures(op models.Operation, category ports.ErrorCategory) {
	if s.metrics != nil {
		s.metrics.IncrementBackendFailures(op.String(), string(category))
	}
}
