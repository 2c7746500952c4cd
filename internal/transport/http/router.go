package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"paaa/internal/paaa/handler"
	"paaa/internal/platform/health"
	"paaa/internal/platform/metrics"
	"paaa/pkg/platform/middleware/request"
)

// RouterConfig holds the mount points of the public routes.
type RouterConfig struct {
	Endpoint     string
	PingPath     string
	HealthPath   string
	MetricsPath  string
	MaxBodyBytes int64
}

// NewRouter wires the gateway, health and metrics endpoints with middleware.
// gatherer may be nil to leave metrics unexposed.
func NewRouter(
	cfg RouterConfig,
	gateway *handler.Handler,
	healthHandler *health.Handler,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(logger))
	r.Use(request.RequestID)
	r.Use(request.RequestTime)
	r.Use(request.Logger(logger, cfg.PingPath, cfg.HealthPath, cfg.MetricsPath))
	if m != nil {
		r.Use(request.Latency(m, routePattern))
	}

	if healthHandler != nil {
		healthHandler.Register(r, cfg.PingPath, cfg.HealthPath)
	}
	if gatherer != nil && cfg.MetricsPath != "" {
		r.Handle(cfg.MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route(cfg.Endpoint, func(r chi.Router) {
		r.Use(request.BodyLimit(cfg.MaxBodyBytes))
		gateway.Register(r)
	})

	return r
}

// routePattern labels latency samples by chi pattern so patron ids stay out
// of metric labels.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
