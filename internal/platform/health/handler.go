// Package health provides the ping and dependency health endpoints.
package health

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"paaa/pkg/platform/httputil"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

// Source reports dependency name to status. Both gateway backends implement it.
type Source interface {
	Health(ctx context.Context) map[string]string
}

// Headers are the static response headers configured for these endpoints.
type Headers struct {
	AllowMethods string
	AllowHeaders string
	AllowOrigin  string
	Accept       string
	CacheControl string
}

// Handler provides health check endpoints.
type Handler struct {
	name    string
	headers Headers
	ils     Source
	auth    Source
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a health handler. Either source may be nil.
func New(name string, headers Headers, ils, auth Source, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		name:    name,
		headers: headers,
		ils:     ils,
		auth:    auth,
		logger:  logger,
		now:     time.Now,
	}
}

// Register mounts the ping and health routes on the given router.
func (h *Handler) Register(r chi.Router, pingPath, healthPath string) {
	r.Get(pingPath, h.HandlePing)
	r.Get(healthPath, h.HandleStatus)
	r.Options(healthPath, h.HandleOptions)
}

// HandlePing answers liveness probes.
func (h *Handler) HandlePing(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", h.headers.AllowOrigin)
	w.Header().Set("Content-Type", "text/plain;charset=UTF-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "pong\n")
}

// HandleOptions answers CORS preflight requests with an empty body.
func (h *Handler) HandleOptions(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Access-Control-Allow-Methods", h.headers.AllowMethods)
	w.Header().Add("Access-Control-Allow-Headers", h.headers.AllowHeaders)
	w.Header().Set("Accept", h.headers.Accept)
	w.Header().Set("Access-Control-Allow-Origin", h.headers.AllowOrigin)
	w.WriteHeader(http.StatusOK)
}

// StatusResponse is the body of the health endpoint.
type StatusResponse struct {
	Name         string            `json:"name"`
	Timestamp    string            `json:"timestamp"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// HandleStatus queries both backends concurrently and reports their merged
// status. Authorization entries replace ILS entries of the same name.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", h.headers.AllowOrigin)
	w.Header().Set("Cache-Control", h.headers.CacheControl)

	httputil.WriteJSON(w, http.StatusOK, StatusResponse{
		Name:         h.name,
		Timestamp:    h.now().UTC().Format(time.RFC3339),
		Dependencies: h.dependencies(r.Context()),
	})
}

func (h *Handler) dependencies(ctx context.Context) map[string]string {
	var ilsHealth, authHealth map[string]string

	g, gctx := errgroup.WithContext(ctx)
	if h.ils != nil {
		g.Go(func() error {
			ilsHealth = h.ils.Health(gctx)
			return nil
		})
	}
	if h.auth != nil {
		g.Go(func() error {
			authHealth = h.auth.Health(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		h.logger.ErrorContext(ctx, "health check failed", "error", err)
	}

	merged := make(map[string]string, len(ilsHealth)+len(authHealth))
	maps.Copy(merged, ilsHealth)
	maps.Copy(merged, authHealth)
	return merged
}
