package handler

import (
	"net/http"

	"paaa/internal/paaa/models"
	"paaa/pkg/platform/httputil"
)

// writeSuccess renders a backend result, or redirects when the client asked
// for it with redirect_uri (present, even if empty).
func (h *Handler) writeSuccess(w http.ResponseWriter, r *http.Request, format models.Format, patronID, token string, result any) {
	if redirect, ok := r.URL.Query()["redirect_uri"]; ok {
		target := ""
		if len(redirect) > 0 {
			target = redirect[0]
		}
		// The target is passed through as given, without re-encoding.
		w.Header().Set("Location", target+"&patron="+patronID+"&token="+token)
		w.WriteHeader(http.StatusFound)
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	write(w, format, http.StatusOK, result)
}

// writeError renders the envelope for status. The transport status is 200
// when suppress_response_codes is set; the envelope always carries status.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, format models.Format, status models.Status) {
	w.Header().Add("WWW-Authenticate", "Bearer")
	w.Header().Add("WWW-Authenticate", `Bearer realm="`+h.cfg.Realm+`"`)
	w.Header().Set("Access-Control-Allow-Origin", "*")

	transport := status.Code()
	if r.URL.Query().Get("suppress_response_codes") != "" {
		transport = http.StatusOK
	}
	write(w, format, transport, h.cfg.Errors.Envelope(status))
}

func write(w http.ResponseWriter, format models.Format, status int, body any) {
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(status)
	if format == models.FormatXML {
		httputil.EncodeXML(w, body)
		return
	}
	httputil.EncodeJSON(w, body)
}
