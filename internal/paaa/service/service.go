package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"paaa/internal/audit"
	"paaa/internal/paaa/models"
	"paaa/internal/paaa/ports"
	"paaa/internal/platform/metrics"
	"paaa/internal/platform/tracer"
	dErrors "paaa/pkg/domain-errors"
	"paaa/pkg/requestcontext"
)

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service is the gateway core: it authorizes requests against the
// Authorization backend and dispatches operations to the ILS.
// Either backend may be nil, meaning it is not configured.
type Service struct {
	auth           ports.Authorization
	ils            ports.ILS
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         tracer.Tracer
	newAccountID   func() string
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithAccountIDGenerator replaces the UUID generator used for signups that
// name no account.
func WithAccountIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newAccountID = gen
		}
	}
}

func New(auth ports.Authorization, ils ports.ILS, opts ...Option) *Service {
	svc := &Service{
		auth:         auth,
		ils:          ils,
		newAccountID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.logger == nil {
		svc.logger = slog.Default()
	}
	if svc.tracer == nil {
		svc.tracer = tracer.NewNoop()
	}
	return svc
}

// Authorize asks the Authorization backend whether token may use op for
// patronID. Backend errors never escape: they count as Unauthorized.
func (s *Service) Authorize(ctx context.Context, op models.Operation, patronID, token string) models.AuthOutcome {
	ctx, span := s.tracer.Start(ctx, tracer.SpanAuthorize,
		tracer.String(tracer.AttrOperation, op.String()),
		tracer.String(tracer.AttrPatronID, patronID),
	)
	outcome := s.authorize(ctx, op, patronID, token)
	span.SetAttributes(tracer.String(tracer.AttrAuthOutcome, outcome.String()))
	span.End(nil)
	return outcome
}

func (s *Service) authorize(ctx context.Context, op models.Operation, patronID, token string) models.AuthOutcome {
	if token == "" {
		s.denied(ctx, op, patronID, token, "missing_token")
		return models.Unauthorized
	}
	if s.auth == nil {
		s.logger.ErrorContext(ctx, "no authorization backend configured",
			"operation", op.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
		s.incrementAuthFailures(op, "backend_unavailable")
		return models.AuthorizationUnavailable
	}

	valid, err := s.auth.IsTokenValid(ctx, op.String(), patronID, token)
	if err != nil {
		s.logger.WarnContext(ctx, "token validation failed",
			"operation", op.String(),
			"patron_id", patronID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		s.denied(ctx, op, patronID, token, "backend_error")
		return models.Unauthorized
	}
	if !valid {
		s.denied(ctx, op, patronID, token, "rejected")
		return models.Unauthorized
	}
	return models.Authorized
}

func (s *Service) denied(ctx context.Context, op models.Operation, patronID, token, reason string) {
	s.incrementAuthFailures(op, reason)
	s.emitAudit(ctx, audit.Event{
		PatronID: patronID,
		Actor:    tracer.Fingerprint(token),
		Action:   string(audit.EventAuthDenied),
		Outcome:  audit.OutcomeFailed,
		Reason:   op.String() + ": " + reason,
	})
}

// Execute runs an authorized command against the ILS and returns the record
// to render: a *models.Patron, or a *models.Fee for newfee.
//
// Errors carry a domain code: CodeUnavailable when the ILS is absent, fails or
// returns nothing; CodeBadRequest when the body cannot be decoded.
func (s *Service) Execute(ctx context.Context, cmd models.Command) (any, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanDispatch,
		tracer.String(tracer.AttrOperation, cmd.Operation.String()),
		tracer.String(tracer.AttrPatronID, cmd.PatronID),
		tracer.String(tracer.AttrTokenFP, tracer.Fingerprint(cmd.Token)),
	)
	result, err := s.execute(ctx, cmd)
	span.End(err)

	s.incrementRequests(cmd.Operation, err)
	return result, err
}

func (s *Service) execute(ctx context.Context, cmd models.Command) (any, error) {
	if s.ils == nil {
		s.logger.ErrorContext(ctx, "no ILS backend configured",
			"operation", cmd.Operation.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.New(dErrors.CodeUnavailable, "ILS not configured")
	}

	switch cmd.Operation {
	case models.OpSignup:
		return s.signup(ctx, cmd)
	case models.OpNewPatron:
		return s.patronCall(ctx, cmd, audit.EventPatronCreated, s.ils.NewPatron)
	case models.OpUpdatePatron:
		return s.patronCall(ctx, cmd, audit.EventPatronUpdated, s.ils.UpdatePatron)
	case models.OpBlockPatron:
		return s.blockCall(ctx, cmd, audit.EventPatronBlocked, s.ils.BlockPatron)
	case models.OpUnblockPatron:
		return s.blockCall(ctx, cmd, audit.EventPatronUnblocked, s.ils.UnblockPatron)
	case models.OpDeletePatron:
		patron := &models.Patron{Account: cmd.PatronID}
		return invoke(ctx, s, cmd, audit.EventPatronDeleted, func(ctx context.Context) (*models.Patron, error) {
			return s.ils.DeletePatron(ctx, patron)
		})
	case models.OpNewFee:
		return s.newFee(ctx, cmd)
	default:
		return nil, dErrors.New(dErrors.CodeMethodNotAllowed, "unsupported operation "+cmd.Operation.String())
	}
}

func (s *Service) signup(ctx context.Context, cmd models.Command) (any, error) {
	var patron models.Patron
	if err := decode(cmd, &patron); err != nil {
		return nil, err
	}
	patron.Account = subjectAccount(cmd, patron.Account)
	if patron.Account == "" {
		patron.Account = s.newAccountID()
	}

	signup := cmd
	signup.PatronID = patron.Account
	created, err := invoke(ctx, s, signup, audit.EventPatronSignedUp, func(ctx context.Context) (*models.Patron, error) {
		return s.ils.Signup(ctx, &patron)
	})
	if err != nil {
		return nil, err
	}
	if err := s.blockNewSignup(ctx, cmd, created); err != nil {
		return nil, err
	}
	return created, nil
}

// blockNewSignup places the pending-activation block on a fresh account.
// An account that cannot be blocked must not be handed out, so a failure
// fails the signup. The record the ILS returns for the block is not used.
func (s *Service) blockNewSignup(ctx context.Context, cmd models.Command, created *models.Patron) error {
	today, err := models.NormalizeBlockDate(requestcontext.Now(ctx).Format("2006-01-02"))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "cannot date signup block")
	}
	block := &models.Block{Key: models.BlockReasonPendingActivation, Date: today}

	follow := cmd
	follow.PatronID = created.Account
	_, err = invoke(ctx, s, follow, audit.EventSignupBlocked, func(ctx context.Context) (*models.Patron, error) {
		blocked, err := s.ils.BlockPatron(ctx, created, block)
		if err == nil && blocked == nil {
			return created, nil
		}
		return blocked, err
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "signup block failed",
			"patron_id", created.Account,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return err
	}
	return nil
}

func (s *Service) patronCall(
	ctx context.Context,
	cmd models.Command,
	event audit.AuditEvent,
	call func(context.Context, *models.Patron) (*models.Patron, error),
) (any, error) {
	var patron models.Patron
	if err := decode(cmd, &patron); err != nil {
		return nil, err
	}
	patron.Account = subjectAccount(cmd, patron.Account)
	return invoke(ctx, s, cmd, event, func(ctx context.Context) (*models.Patron, error) {
		return call(ctx, &patron)
	})
}

// subjectAccount picks the account an operation acts on. The path id wins
// for operations bound to it; otherwise the payload account is kept when set.
func subjectAccount(cmd models.Command, payload string) string {
	if cmd.Operation.ForcesPathPatron() || payload == "" {
		return cmd.PatronID
	}
	return payload
}

func (s *Service) blockCall(
	ctx context.Context,
	cmd models.Command,
	event audit.AuditEvent,
	call func(context.Context, *models.Patron, *models.Block) (*models.Patron, error),
) (any, error) {
	var block models.Block
	if err := decode(cmd, &block); err != nil {
		return nil, err
	}
	if err := block.NormalizeDate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid block date")
	}
	patron := &models.Patron{Account: cmd.PatronID}
	return invoke(ctx, s, cmd, event, func(ctx context.Context) (*models.Patron, error) {
		return call(ctx, patron, &block)
	})
}

func (s *Service) newFee(ctx context.Context, cmd models.Command) (any, error) {
	var fee models.Fee
	if err := decode(cmd, &fee); err != nil {
		return nil, err
	}
	patron := &models.Patron{Account: cmd.PatronID}
	return invoke(ctx, s, cmd, audit.EventFeeCreated, func(ctx context.Context) (*models.Fee, error) {
		return s.ils.NewFee(ctx, patron, &fee)
	})
}

func decode(cmd models.Command, v any) error {
	if cmd.Decode == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body required")
	}
	if err := cmd.Decode(v); err != nil {
		return &dErrors.Error{Code: dErrors.CodeBadRequest, Message: "malformed request body", Err: err}
	}
	return nil
}

// invoke wraps one ILS call with tracing, latency, logging and audit.
// A nil record is treated the same as a backend failure.
func invoke[T any](ctx context.Context, s *Service, cmd models.Command, event audit.AuditEvent, call func(context.Context) (*T, error)) (*T, error) {
	ctx, span := s.tracer.Start(ctx, tracer.SpanILSCall,
		tracer.String(tracer.AttrOperation, cmd.Operation.String()),
	)
	start := time.Now()
	result, err := call(ctx)
	s.observeBackendLatency(cmd.Operation, time.Since(start))

	if err == nil && result == nil {
		err = errNoResult
	}
	actor := tracer.Fingerprint(cmd.Token)
	if err != nil {
		category := ports.CategoryOf(err)
		span.SetAttributes(tracer.String(tracer.AttrCategory, string(category)))
		span.End(err)
		s.incrementBackendFailures(cmd.Operation, category)
		s.logger.ErrorContext(ctx, "ILS operation failed",
			"operation", cmd.Operation.String(),
			"patron_id", cmd.PatronID,
			"token_fp", actor,
			"category", string(category),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		s.emitAudit(ctx, audit.Event{
			PatronID: cmd.PatronID,
			Actor:    actor,
			Action:   string(event),
			Outcome:  audit.OutcomeFailed,
			Reason:   err.Error(),
		})
		// Every backend failure surfaces as unavailable, whatever code it carried.
		return nil, &dErrors.Error{Code: dErrors.CodeUnavailable, Message: "ILS " + cmd.Operation.String() + " failed", Err: err}
	}
	span.End(nil)

	s.logger.InfoContext(ctx, "ILS operation succeeded",
		"operation", cmd.Operation.String(),
		"patron_id", cmd.PatronID,
		"token_fp", actor,
		"request_id", requestcontext.RequestID(ctx),
	)
	s.emitAudit(ctx, audit.Event{
		PatronID: cmd.PatronID,
		Actor:    actor,
		Action:   string(event),
		Outcome:  audit.OutcomeSuccess,
	})
	return result, nil
}

var errNoResult = errors.New("ILS returned no result")
