package handler

import (
	"fmt"
	"net/http"
	"strings"

	"paaa/internal/paaa/models"
)

// templatePatronID is sent by clients that forgot to fill in a URL template.
const templatePatronID = "patronid"

// route maps a method and a path relative to the mount point onto the
// patron id and operation. The error is non-nil when the combination is not
// served, which clients see as 405.
func route(method, path string) (string, models.Operation, error) {
	path = strings.TrimPrefix(path, "/")
	if path == "" {
		return "", "", fmt.Errorf("%w: empty path", errRoute)
	}
	segments := strings.Split(path, "/")
	if len(segments) > 2 {
		return "", "", fmt.Errorf("%w: too many segments in %q", errRoute, path)
	}

	patronID := segments[0]
	var op models.Operation
	if len(segments) == 2 {
		op = models.Operation(segments[1])
	}

	switch method {
	case http.MethodGet:
		if op == "" {
			op = models.OpPatron
		}
		return patronID, op, fmt.Errorf("%w: GET %s", errRoute, op)
	case http.MethodPost:
		if op == "" {
			op = models.OpPatron
		}
		if patronID == templatePatronID {
			patronID = ""
		}
		if !op.AllowsPost() {
			return patronID, op, fmt.Errorf("%w: POST %s", errRoute, op)
		}
		return patronID, op, nil
	case http.MethodDelete:
		if op == "" {
			op = models.OpDeletePatron
		}
		if patronID == templatePatronID {
			patronID = ""
		}
		if !op.AllowsDelete() {
			return patronID, op, fmt.Errorf("%w: DELETE %s", errRoute, op)
		}
		return patronID, op, nil
	default:
		return patronID, op, fmt.Errorf("%w: method %s", errRoute, method)
	}
}
