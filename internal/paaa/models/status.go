package models

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
)

// Status is the closed set of logical statuses the gateway reports in its
// error envelope. Each one must have an entry in the ErrorTable.
type Status int

const (
	StatusBadRequest         Status = http.StatusBadRequest
	StatusUnauthorized       Status = http.StatusUnauthorized
	StatusMethodNotAllowed   Status = http.StatusMethodNotAllowed
	StatusServiceUnavailable Status = http.StatusServiceUnavailable
)

// Statuses lists every status in the enumeration.
var Statuses = []Status{
	StatusBadRequest,
	StatusUnauthorized,
	StatusMethodNotAllowed,
	StatusServiceUnavailable,
}

// ParseStatus converts a configuration key such as "401" into a Status.
func ParseStatus(s string) (Status, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid status %q: %w", s, err)
	}
	for _, st := range Statuses {
		if int(st) == n {
			return st, nil
		}
	}
	return 0, fmt.Errorf("status %d is not reported by the gateway", n)
}

// Code returns the numeric HTTP status.
func (s Status) Code() int {
	return int(s)
}

// ErrorText is the operator-supplied wording for one status.
type ErrorText struct {
	Error       string
	Description string
	URI         string
}

// ErrorTable maps each logical status to its envelope wording. It is built
// once at startup and only read afterwards.
type ErrorTable map[Status]ErrorText

// Envelope builds the uniform error body for status. Missing wording yields
// empty fields, which are omitted on the wire.
func (t ErrorTable) Envelope(status Status) *RequestError {
	text := t[status]
	return &RequestError{
		Error:       text.Error,
		Code:        status.Code(),
		Description: text.Description,
		ErrorURI:    text.URI,
	}
}

// RequestError is the error envelope returned for every failed request.
type RequestError struct {
	XMLName     xml.Name `json:"-" xml:"requestError"`
	Error       string   `json:"error,omitempty" xml:"error,omitempty"`
	Code        int      `json:"code,omitempty" xml:"code,omitempty"`
	Description string   `json:"description,omitempty" xml:"description,omitempty"`
	ErrorURI    string   `json:"errorUri,omitempty" xml:"errorUri,omitempty"`
}
