package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/mock/gomock"

	"paaa/internal/audit"
	"paaa/internal/paaa/models"
)

func (s *ServiceSuite) TestAuthorize() {
	s.Run("valid token is authorized", func() {
		s.mockAuth.EXPECT().IsTokenValid(gomock.Any(), "blockpatron", "alice", "Bearer VALIDTOKEN").Return(true, nil)

		outcome := s.service.Authorize(s.ctx(), models.OpBlockPatron, "alice", "Bearer VALIDTOKEN")
		s.Equal(models.Authorized, outcome)
	})

	s.Run("missing token never reaches the backend", func() {
		outcome := s.service.Authorize(s.ctx(), models.OpNewFee, "alice", "")
		s.Equal(models.Unauthorized, outcome)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.AuthFailures.WithLabelValues("newfee", "missing_token")))
	})

	s.Run("rejected token is unauthorized and audited", func() {
		s.mockAuth.EXPECT().IsTokenValid(gomock.Any(), "newpatron", "bob", "Bearer WRONG").Return(false, nil)

		outcome := s.service.Authorize(s.ctx(), models.OpNewPatron, "bob", "Bearer WRONG")
		s.Equal(models.Unauthorized, outcome)

		events := s.auditEvents("bob")
		s.Require().Len(events, 1)
		s.Equal(string(audit.EventAuthDenied), events[0].Action)
		s.Equal(audit.OutcomeFailed, events[0].Outcome)
		s.NotContains(events[0].Actor, "WRONG")
		s.NotEmpty(events[0].Actor)
		s.Equal("req-1", events[0].RequestID)
	})

	s.Run("backend error is unauthorized, not a failure", func() {
		s.mockAuth.EXPECT().IsTokenValid(gomock.Any(), "updatepatron", "carol", "Bearer X").Return(false, errors.New("idp down"))

		outcome := s.service.Authorize(s.ctx(), models.OpUpdatePatron, "carol", "Bearer X")
		s.Equal(models.Unauthorized, outcome)
		s.Equal(1.0, testutil.ToFloat64(s.metrics.AuthFailures.WithLabelValues("updatepatron", "backend_error")))
	})

	s.Run("absent backend reports unavailable", func() {
		svc := s.newService(nil, s.mockILS)

		outcome := svc.Authorize(s.ctx(), models.OpSignup, "dave", "Bearer VALIDTOKEN")
		s.Equal(models.AuthorizationUnavailable, outcome)
	})

	s.Run("absent backend with no token is plain unauthorized", func() {
		svc := s.newService(nil, s.mockILS)

		outcome := svc.Authorize(s.ctx(), models.OpSignup, "dave", "")
		s.Equal(models.Unauthorized, outcome)
	})
}
