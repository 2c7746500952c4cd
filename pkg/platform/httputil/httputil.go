package httputil

import (
	"encoding/json"
	"encoding/xml"
	"io"
	"net/http"

	dErrors "paaa/pkg/domain-errors"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json;charset=UTF-8")
	w.WriteHeader(status)
	EncodeJSON(w, response)
}

// WriteXML mirrors WriteJSON for XML clients.
func WriteXML(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/xml;charset=UTF-8")
	w.WriteHeader(status)
	EncodeXML(w, response)
}

// EncodeJSON writes the body only; headers are the caller's job.
// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
func EncodeJSON(w io.Writer, response any) {
	_ = json.NewEncoder(w).Encode(response)
}

// EncodeXML writes the XML declaration followed by the body.
func EncodeXML(w io.Writer, response any) {
	_, _ = io.WriteString(w, xml.Header)
	_ = xml.NewEncoder(w).Encode(response)
}

// BodyDecoder returns a function that decodes r's body as JSON, or as XML when
// asXML is set. The body is read lazily on first call.
func BodyDecoder(r *http.Request, asXML bool) func(v any) error {
	return func(v any) error {
		if asXML {
			return xml.NewDecoder(r.Body).Decode(v)
		}
		return json.NewDecoder(r.Body).Decode(v)
	}
}

// DomainCodeToHTTPStatus translates domain error codes to the statuses the
// gateway reports. Anything that is not the client's fault is a 503.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusServiceUnavailable
	}
}

// ErrorStatus returns the status for err, defaulting to 503.
func ErrorStatus(err error) int {
	return DomainCodeToHTTPStatus(dErrors.CodeOf(err))
}
