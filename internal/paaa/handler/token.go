package handler

import (
	"encoding/json"
	"net/http"
	"net/url"

	"paaa/internal/paaa/models"
)

// resolveToken returns the bearer credential for the request, or "".
//
// Sources, first non-empty wins:
//  1. the Authorization header, verbatim
//  2. the access_token parameter; GET prefixes it with "Bearer ", POST and
//     DELETE pass it raw
//  3. the session cookie, when the patron it names matches patronID
func (h *Handler) resolveToken(r *http.Request, patronID string) string {
	if token := r.Header.Get("Authorization"); token != "" {
		return token
	}

	if token := r.URL.Query().Get("access_token"); token != "" {
		if r.Method == http.MethodGet {
			return "Bearer " + token
		}
		return token
	}

	cookie, err := r.Cookie(h.cfg.CookieName)
	if err != nil {
		return ""
	}
	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		h.logger.DebugContext(r.Context(), "undecodable session cookie", "error", err)
		return ""
	}
	var login models.LoginResponse
	if err := json.Unmarshal([]byte(raw), &login); err != nil {
		h.logger.DebugContext(r.Context(), "malformed session cookie", "error", err)
		return ""
	}
	// The cookie may belong to another account of the same person.
	if login.Patron != patronID {
		return ""
	}
	return login.AccessToken
}
