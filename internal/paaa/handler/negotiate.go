package handler

import (
	"net/http"
	"strings"

	"paaa/internal/paaa/models"
)

// negotiateFormat picks the response format from the format parameter or,
// failing that, from the Accept headers. The last Accept value that names a
// known media type wins; the default is JSON.
func negotiateFormat(r *http.Request) models.Format {
	if f := r.URL.Query().Get("format"); f != "" {
		return models.Format(f)
	}

	format := models.FormatJSON
	for _, accept := range r.Header.Values("Accept") {
		switch {
		case strings.Contains(accept, "text/html"):
			format = models.FormatHTML
		case strings.Contains(accept, "application/xml"):
			format = models.FormatXML
		case strings.Contains(accept, "application/json"):
			format = models.FormatJSON
		}
	}
	return format
}
