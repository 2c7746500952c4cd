package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the error primitives every gateway layer depends on.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeUnavailable, Message: "ils unreachable"}
		s.Equal("ils unreachable", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeMethodNotAllowed}
		s.Equal("method_not_allowed", err.Error())
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		s.True(errors.Is(New(CodeUnauthorized, "token expired"), &Error{Code: CodeUnauthorized}))
	})

	s.Run("does not match different codes", func() {
		s.False(errors.Is(New(CodeUnauthorized, ""), &Error{Code: CodeUnavailable}))
	})

	s.Run("finds inner domain error through fmt wrapping", func() {
		inner := New(CodeUnavailable, "backend down")
		wrapped := fmt.Errorf("blockpatron: %w", inner)
		s.True(errors.Is(wrapped, &Error{Code: CodeUnavailable}))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("preserves the original domain code", func() {
		inner := New(CodeValidation, "bad date")
		err := Wrap(inner, CodeInternal, "decode block")
		s.True(HasCode(err, CodeValidation))
		s.Equal("decode block", err.Error())
	})

	s.Run("applies the given code to plain errors", func() {
		err := Wrap(errors.New("connection refused"), CodeUnavailable, "ils call failed")
		s.True(HasCode(err, CodeUnavailable))
		s.ErrorContains(errors.Unwrap(err), "connection refused")
	})
}

func (s *DomainErrorsSuite) TestCodeOf() {
	s.Equal(CodeBadRequest, CodeOf(New(CodeBadRequest, "x")))
	s.Equal(CodeInternal, CodeOf(errors.New("plain")))
	s.Equal(CodeInternal, CodeOf(nil))
}
