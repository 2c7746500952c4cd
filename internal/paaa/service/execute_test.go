package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"paaa/internal/audit"
	"paaa/internal/paaa/models"
	"paaa/internal/paaa/ports"
	"paaa/internal/paaa/service/mocks"
	dErrors "paaa/pkg/domain-errors"
)

func (s *ServiceSuite) TestExecuteBlockPatron() {
	s.Run("normalizes the date and uses the path patron", func() {
		s.mockILS.EXPECT().BlockPatron(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *models.Patron, b *models.Block) (*models.Patron, error) {
				s.Equal("alice", p.Account)
				s.Equal("10", b.Key)
				s.Equal("05.01.2024", b.Date)
				return &models.Patron{Account: p.Account, Blocks: []models.Block{*b}}, nil
			})

		result, err := s.service.Execute(s.ctx(), models.Command{
			Operation: models.OpBlockPatron,
			PatronID:  "alice",
			Token:     "Bearer VALIDTOKEN",
			Decode:    jsonBody(`{"key":"10","date":"2024-01-05"}`),
		})
		s.Require().NoError(err)
		patron, ok := result.(*models.Patron)
		s.Require().True(ok)
		s.Equal("alice", patron.Account)

		events := s.auditEvents("alice")
		s.Require().Len(events, 1)
		s.Equal(string(audit.EventPatronBlocked), events[0].Action)
		s.Equal(audit.OutcomeSuccess, events[0].Outcome)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.Requests.WithLabelValues("blockpatron", "success")))
	})

	s.Run("invalid date is a bad request and skips the ILS", func() {
		_, err := s.service.Execute(s.ctx(), models.Command{
			Operation: models.OpBlockPatron,
			PatronID:  "alice",
			Decode:    jsonBody(`{"key":"10","date":"05.01.2024"}`),
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
		s.ErrorIs(err, models.ErrInvalidBlockDate)
	})
}

func (s *ServiceSuite) TestExecuteUnblockPatron() {
	s.mockILS.EXPECT().UnblockPatron(gomock.Any(), &models.Patron{Account: "alice"}, &models.Block{Key: "10"}).
		Return(&models.Patron{Account: "alice"}, nil)

	result, err := s.service.Execute(s.ctx(), models.Command{
		Operation: models.OpUnblockPatron,
		PatronID:  "alice",
		Decode:    jsonBody(`{"key":"10"}`),
	})
	s.Require().NoError(err)
	s.Equal("alice", result.(*models.Patron).Account)
}

func (s *ServiceSuite) TestExecutePathPatronOverridesBody() {
	for _, tc := range []struct {
		op     models.Operation
		expect func() *gomock.Call
	}{
		{models.OpNewPatron, func() *gomock.Call { return s.mockILS.EXPECT().NewPatron(gomock.Any(), gomock.Any()) }},
		{models.OpUpdatePatron, func() *gomock.Call { return s.mockILS.EXPECT().UpdatePatron(gomock.Any(), gomock.Any()) }},
	} {
		s.Run(tc.op.String(), func() {
			tc.expect().DoAndReturn(func(_ context.Context, p *models.Patron) (*models.Patron, error) {
				s.Equal("alice", p.Account)
				s.Equal("Alice", p.Name)
				return p, nil
			})

			result, err := s.service.Execute(s.ctx(), models.Command{
				Operation: tc.op,
				PatronID:  "alice",
				Decode:    jsonBody(`{"account":"mallory","name":"Alice"}`),
			})
			s.Require().NoError(err)
			s.Equal("alice", result.(*models.Patron).Account)
		})
	}
}

func (s *ServiceSuite) TestExecuteDeletePatron() {
	s.Run("needs no body", func() {
		s.mockILS.EXPECT().DeletePatron(gomock.Any(), &models.Patron{Account: "alice"}).
			Return(&models.Patron{Account: "alice", Status: "deleted"}, nil)

		result, err := s.service.Execute(s.ctx(), models.Command{Operation: models.OpDeletePatron, PatronID: "alice"})
		s.Require().NoError(err)
		s.Equal("deleted", result.(*models.Patron).Status)
	})
}

func (s *ServiceSuite) TestExecuteNewFee() {
	s.Run("returns the created fee", func() {
		s.mockILS.EXPECT().NewFee(gomock.Any(), &models.Patron{Account: "alice"}, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ *models.Patron, f *models.Fee) (*models.Fee, error) {
				created := *f
				created.FeeID = "F-1"
				return &created, nil
			})

		result, err := s.service.Execute(s.ctx(), models.Command{
			Operation: models.OpNewFee,
			PatronID:  "alice",
			Decode:    jsonBody(`{"amount":"2.50","about":"late return"}`),
		})
		s.Require().NoError(err)
		fee, ok := result.(*models.Fee)
		s.Require().True(ok)
		s.Equal("F-1", fee.FeeID)
		s.Equal("2.50", fee.Amount)
	})

	s.Run("nil fee is unavailable", func() {
		s.mockILS.EXPECT().NewFee(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		_, err := s.service.Execute(s.ctx(), models.Command{
			Operation: models.OpNewFee,
			PatronID:  "alice",
			Decode:    jsonBody(`{"amount":"1.00"}`),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func (s *ServiceSuite) TestExecuteSignup() {
	s.Run("generates an account and blocks the new patron", func() {
		gomock.InOrder(
			s.mockILS.EXPECT().Signup(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, p *models.Patron) (*models.Patron, error) {
					s.Equal(s.generatedID, p.Account)
					return p, nil
				}),
			s.mockILS.EXPECT().BlockPatron(gomock.Any(), gomock.Any(), &models.Block{
				Key:  models.BlockReasonPendingActivation,
				Date: "07.03.2024",
			}).DoAndReturn(func(_ context.Context, p *models.Patron, _ *models.Block) (*models.Patron, error) {
				s.Equal(s.generatedID, p.Account)
				return p, nil
			}),
		)

		result, err := s.service.Execute(s.ctx(), models.Command{
			Operation: models.OpSignup,
			Token:     "Bearer VALIDTOKEN",
			Decode:    jsonBody(`{"name":"New Reader"}`),
		})
		s.Require().NoError(err)
		s.Equal(s.generatedID, result.(*models.Patron).Account)

		events := s.auditEvents(s.generatedID)
		s.Require().Len(events, 2)
		s.Equal(string(audit.EventPatronSignedUp), events[0].Action)
		s.Equal(string(audit.EventSignupBlocked), events[1].Action)
	})

	s.Run("uses the path id when the body has no account", func() {
		s.mockILS.EXPECT().Signup(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *models.Patron) (*models.Patron, error) {
				s.Equal("erin", p.Account)
				return p, nil
			})
		s.mockILS.EXPECT().BlockPatron(gomock.Any(), gomock.Any(), gomock.Any()).Return(&models.Patron{Account: "erin"}, nil)

		_, err := s.service.Execute(s.ctx(), models.Command{
			Operation: models.OpSignup,
			PatronID:  "erin",
			Decode:    jsonBody(`{}`),
		})
		s.Require().NoError(err)
	})

	s.Run("keeps the account named in the body", func() {
		s.mockILS.EXPECT().Signup(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, p *models.Patron) (*models.Patron, error) {
				s.Equal("frank", p.Account)
				return p, nil
			})
		s.mockILS.EXPECT().BlockPatron(gomock.Any(), gomock.Any(), gomock.Any()).Return(&models.Patron{Account: "frank"}, nil)

		_, err := s.service.Execute(s.ctx(), models.Command{
			Operation: models.OpSignup,
			PatronID:  "ignored",
			Decode:    jsonBody(`{"account":"frank"}`),
		})
		s.Require().NoError(err)
	})

	s.Run("failed follow-up block fails the signup", func() {
		s.mockILS.EXPECT().Signup(gomock.Any(), gomock.Any()).Return(&models.Patron{Account: "gina"}, nil)
		s.mockILS.EXPECT().BlockPatron(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("ils timeout"))

		result, err := s.service.Execute(s.ctx(), models.Command{
			Operation: models.OpSignup,
			PatronID:  "gina",
			Decode:    jsonBody(`{}`),
		})
		s.Require().Error(err)
		s.Nil(result)
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))

		events := s.auditEvents("gina")
		s.Require().Len(events, 2)
		s.Equal(audit.OutcomeSuccess, events[0].Outcome)
		s.Equal(string(audit.EventSignupBlocked), events[1].Action)
		s.Equal(audit.OutcomeFailed, events[1].Outcome)
	})

	s.Run("nil record from the follow-up block keeps the signup", func() {
		s.mockILS.EXPECT().Signup(gomock.Any(), gomock.Any()).Return(&models.Patron{Account: "ida"}, nil)
		s.mockILS.EXPECT().BlockPatron(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		result, err := s.service.Execute(s.ctx(), models.Command{
			Operation: models.OpSignup,
			PatronID:  "ida",
			Decode:    jsonBody(`{}`),
		})
		s.Require().NoError(err)
		s.Equal("ida", result.(*models.Patron).Account)

		events := s.auditEvents("ida")
		s.Require().Len(events, 2)
		s.Equal(audit.OutcomeSuccess, events[1].Outcome)
	})

	s.Run("nil signup result is unavailable and skips the block", func() {
		s.mockILS.EXPECT().Signup(gomock.Any(), gomock.Any()).Return(nil, nil)

		_, err := s.service.Execute(s.ctx(), models.Command{
			Operation: models.OpSignup,
			PatronID:  "hank",
			Decode:    jsonBody(`{}`),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})
}

func (s *ServiceSuite) TestExecuteFailures() {
	s.Run("backend error is unavailable whatever its code", func() {
		s.mockILS.EXPECT().UpdatePatron(gomock.Any(), gomock.Any()).
			Return(nil, ports.NewBackendError(ports.ErrorNotFound, "ils-memory", "no such patron", nil))

		_, err := s.service.Execute(s.ctx(), models.Command{
			Operation: models.OpUpdatePatron,
			PatronID:  "ivan",
			Decode:    jsonBody(`{}`),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
		s.Equal(ports.ErrorNotFound, ports.CategoryOf(err))
		s.Equal(1.0, testutil.ToFloat64(s.metrics.BackendFailures.WithLabelValues("updatepatron", "not_found")))

		events := s.auditEvents("ivan")
		s.Require().Len(events, 1)
		s.Equal(audit.OutcomeFailed, events[0].Outcome)
	})

	s.Run("malformed body is a bad request", func() {
		_, err := s.service.Execute(s.ctx(), models.Command{
			Operation: models.OpNewPatron,
			PatronID:  "judy",
			Decode:    jsonBody(`{"account":`),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("missing body is a bad request", func() {
		_, err := s.service.Execute(s.ctx(), models.Command{Operation: models.OpNewFee, PatronID: "judy"})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("absent ILS is unavailable before the body is read", func() {
		svc := s.newService(s.mockAuth, nil)
		decoded := false

		_, err := svc.Execute(s.ctx(), models.Command{
			Operation: models.OpBlockPatron,
			PatronID:  "kim",
			Decode: func(any) error {
				decoded = true
				return nil
			},
		})
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
		s.False(decoded)
	})

	s.Run("unroutable operation is refused", func() {
		_, err := s.service.Execute(s.ctx(), models.Command{Operation: models.OpPatron, PatronID: "kim"})
		s.True(dErrors.HasCode(err, dErrors.CodeMethodNotAllowed))
	})
}

func (s *ServiceSuite) TestAuditFailureDoesNotFailOperation() {
	publisher := mocks.NewMockAuditPublisher(s.ctrl)
	svc := New(s.mockAuth, s.mockILS,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(publisher),
	)

	s.mockILS.EXPECT().DeletePatron(gomock.Any(), gomock.Any()).Return(&models.Patron{Account: "lena"}, nil)
	publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e audit.Event) error {
			s.Equal("lena", e.PatronID)
			s.Equal("req-1", e.RequestID)
			s.Equal(s.fixedTime, e.Timestamp)
			return errors.New("store full")
		})

	result, err := svc.Execute(s.ctx(), models.Command{Operation: models.OpDeletePatron, PatronID: "lena", Token: "Bearer T"})
	s.Require().NoError(err)
	s.Equal("lena", result.(*models.Patron).Account)
}
