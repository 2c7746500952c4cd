package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"paaa/internal/paaa/models"
	"paaa/pkg/platform/httputil"
	"paaa/pkg/requestcontext"
)

// Service defines the gateway operations the handler drives.
type Service interface {
	Authorize(ctx context.Context, op models.Operation, patronID, token string) models.AuthOutcome
	Execute(ctx context.Context, cmd models.Command) (any, error)
}

// CORSHeaders are answered verbatim to OPTIONS requests.
type CORSHeaders struct {
	AllowMethods string
	AllowHeaders string
	AllowOrigin  string
	Accept       string
}

// Config holds the presentation settings of the gateway endpoint.
type Config struct {
	// Realm is announced in the WWW-Authenticate challenge.
	Realm string
	// CookieName is the session cookie carrying a LoginResponse.
	CookieName string
	CORS       CORSHeaders
	Errors     models.ErrorTable
}

// Handler serves the PAAA endpoint: it negotiates the format, resolves the
// bearer token, asks the service to authorize and dispatch, and renders the
// result or an error envelope.
type Handler struct {
	svc    Service
	cfg    Config
	logger *slog.Logger
}

// New creates a gateway Handler.
func New(svc Service, cfg Config, logger *slog.Logger) *Handler {
	if cfg.Realm == "" {
		cfg.Realm = "PAAA"
	}
	if cfg.CookieName == "" {
		cfg.CookieName = "PaaaService"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, cfg: cfg, logger: logger}
}

// Register registers the gateway routes relative to the mount point.
func (h *Handler) Register(r chi.Router) {
	r.Get("/*", h.HandleGet)
	r.Post("/*", h.HandlePost)
	r.Delete("/*", h.HandleDelete)
	r.Options("/*", h.HandleOptions)
	r.MethodNotAllowed(h.HandleUnsupportedMethod)
}

// HandleUnsupportedMethod answers methods without a route (PUT, PATCH, ...)
// with the configured 405 envelope.
func (h *Handler) HandleUnsupportedMethod(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.WarnContext(ctx, "method not allowed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", requestcontext.RequestID(ctx),
	)
	h.writeError(w, r, models.FormatJSON, models.StatusMethodNotAllowed)
}

// HandleGet answers every GET with 405: no read operation is offered.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	patronID, op, _ := route(http.MethodGet, chi.URLParam(r, "*"))
	h.logger.WarnContext(ctx, "GET not allowed",
		"operation", op.String(),
		"patron_id", patronID,
		"request_id", requestcontext.RequestID(ctx),
	)
	h.writeError(w, r, models.FormatJSON, models.StatusMethodNotAllowed)
}

// HandlePost implements POST /{patronId}[/{operation}].
func (h *Handler) HandlePost(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, http.MethodPost)
}

// HandleDelete implements DELETE /{patronId}[/deletepatron].
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, http.MethodDelete)
}

// HandleOptions answers CORS preflight requests with an empty body.
func (h *Handler) HandleOptions(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Access-Control-Allow-Methods", h.cfg.CORS.AllowMethods)
	w.Header().Add("Access-Control-Allow-Headers", h.cfg.CORS.AllowHeaders)
	w.Header().Set("Accept", h.cfg.CORS.Accept)
	w.Header().Set("Access-Control-Allow-Origin", h.cfg.CORS.AllowOrigin)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, method string) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	format := negotiateFormat(r)
	if !format.Renderable() {
		h.logger.WarnContext(ctx, "format not implemented",
			"format", string(format),
			"request_id", requestID,
		)
		h.writeError(w, r, models.FormatJSON, models.StatusBadRequest)
		return
	}

	patronID, op, err := route(method, chi.URLParam(r, "*"))
	if err != nil {
		h.logger.WarnContext(ctx, "operation not allowed",
			"method", method,
			"error", err,
			"request_id", requestID,
		)
		h.writeError(w, r, format, models.StatusMethodNotAllowed)
		return
	}

	token := h.resolveToken(r, patronID)
	if outcome := h.svc.Authorize(ctx, op, patronID, token); outcome != models.Authorized {
		h.logger.InfoContext(ctx, "request not authorized",
			"operation", op.String(),
			"patron_id", patronID,
			"outcome", outcome.String(),
			"request_id", requestID,
		)
		h.writeError(w, r, format, models.StatusUnauthorized)
		return
	}

	result, err := h.svc.Execute(ctx, models.Command{
		Operation: op,
		PatronID:  patronID,
		Token:     token,
		Decode:    httputil.BodyDecoder(r, format == models.FormatXML),
	})
	if err != nil {
		status := models.Status(httputil.ErrorStatus(err))
		h.logger.WarnContext(ctx, "operation failed",
			"operation", op.String(),
			"patron_id", patronID,
			"status", int(status),
			"error", err,
			"request_id", requestID,
		)
		h.writeError(w, r, format, status)
		return
	}

	h.writeSuccess(w, r, format, patronID, token, result)
}

var errRoute = errors.New("route not allowed")
