package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"paaa/internal/audit"
	"paaa/internal/paaa/adapters/authjwt"
	"paaa/internal/paaa/adapters/ilshttp"
	"paaa/internal/paaa/adapters/ilsmemory"
	"paaa/internal/paaa/handler"
	"paaa/internal/paaa/ports"
	"paaa/internal/paaa/service"
	"paaa/internal/platform/config"
	"paaa/internal/platform/health"
	"paaa/internal/platform/logger"
	"paaa/internal/platform/metrics"
	"paaa/internal/platform/tracer"
	httptransport "paaa/internal/transport/http"
)

// main wires the gateway with fx and runs the HTTP server until a signal
// stops the application.
func main() {
	fx.New(
		fx.Provide(
			config.Load,
			newLogger,
			newRegistry,
			newMetrics,
			newAuditPublisher,
			newAuthorization,
			newILS,
			newService,
			newGatewayHandler,
			newHealthHandler,
			newRouter,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			l := &fxevent.SlogLogger{Logger: log}
			l.UseLogLevel(slog.LevelDebug)
			return l
		}),
		fx.Invoke(runServer),
	).Run()
}

func newLogger(cfg *config.Config) *slog.Logger {
	log := logger.New(cfg.Logging.Level)
	slog.SetDefault(log)
	return log
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

func newAuditPublisher(lc fx.Lifecycle, cfg *config.Config, log *slog.Logger) *audit.Publisher {
	opts := []audit.PublisherOption{audit.WithPublisherLogger(log)}
	if cfg.Audit.Buffer > 0 {
		opts = append(opts, audit.WithAsyncBuffer(cfg.Audit.Buffer))
	}
	var store audit.Store = audit.NewLogStore(log)
	if cfg.Audit.Store == config.BackendMemory {
		store = audit.NewInMemoryStore(audit.WithCapacity(cfg.Audit.Capacity))
	}
	publisher := audit.NewPublisher(store, opts...)
	lc.Append(fx.StopHook(publisher.Close))
	return publisher
}

// newAuthorization returns a nil interface for the "none" backend so the
// service reports the authorization backend as unavailable.
func newAuthorization(cfg *config.Config) ports.Authorization {
	switch cfg.Authorization.Backend {
	case config.BackendJWT:
		a := cfg.Authorization
		return authjwt.New(a.SigningKey, a.Issuer, a.Audience, a.AdminScope, 0)
	default:
		return nil
	}
}

// newILS returns a nil interface for the "none" backend; every operation
// then answers 503.
func newILS(cfg *config.Config, m *metrics.Metrics, log *slog.Logger) ports.ILS {
	switch cfg.ILS.Backend {
	case config.BackendMemory:
		return ilsmemory.New()
	case config.BackendHTTP:
		c := cfg.ILS
		return ilshttp.New(ilshttp.Config{
			BaseURL:          c.BaseURL,
			APIKey:           c.APIKey,
			Timeout:          c.Timeout,
			FailureThreshold: c.FailureThreshold,
			SuccessThreshold: c.SuccessThreshold,
			Cooldown:         c.Cooldown,
			Metrics:          m,
			Logger:           log,
		})
	default:
		return nil
	}
}

func newService(
	auth ports.Authorization,
	ils ports.ILS,
	publisher *audit.Publisher,
	m *metrics.Metrics,
	log *slog.Logger,
) *service.Service {
	return service.New(auth, ils,
		service.WithLogger(log),
		service.WithAuditPublisher(publisher),
		service.WithMetrics(m),
		service.WithTracer(tracer.NewOTel()),
	)
}

func newGatewayHandler(svc *service.Service, cfg *config.Config, log *slog.Logger) *handler.Handler {
	return handler.New(svc, handler.Config{
		Realm:      cfg.Service.Realm,
		CookieName: cfg.Service.Name,
		CORS: handler.CORSHeaders{
			AllowMethods: cfg.CORS.AllowMethods,
			AllowHeaders: cfg.CORS.AllowHeaders,
			AllowOrigin:  cfg.CORS.AllowOrigin,
			Accept:       cfg.CORS.Accept,
		},
		Errors: cfg.ErrorTable(),
	}, log)
}

func newHealthHandler(cfg *config.Config, auth ports.Authorization, ils ports.ILS, log *slog.Logger) *health.Handler {
	var ilsSource, authSource health.Source
	if ils != nil {
		ilsSource = ils
	}
	if auth != nil {
		authSource = auth
	}
	return health.New(cfg.Service.Name, health.Headers{
		AllowMethods: cfg.CORS.AllowMethods,
		AllowHeaders: cfg.CORS.AllowHeaders,
		AllowOrigin:  cfg.CORS.AllowOrigin,
		Accept:       cfg.CORS.Accept,
		CacheControl: cfg.CORS.CacheControl,
	}, ilsSource, authSource, log)
}

func newRouter(
	cfg *config.Config,
	gateway *handler.Handler,
	healthHandler *health.Handler,
	m *metrics.Metrics,
	reg *prometheus.Registry,
	log *slog.Logger,
) http.Handler {
	return httptransport.NewRouter(httptransport.RouterConfig{
		Endpoint:     cfg.Service.Endpoint,
		PingPath:     cfg.Service.PingPath,
		HealthPath:   cfg.Service.HealthPath,
		MetricsPath:  cfg.Service.MetricsPath,
		MaxBodyBytes: cfg.Service.MaxBodyBytes,
	}, gateway, healthHandler, m, reg, log)
}

func runServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, cfg *config.Config, router http.Handler, log *slog.Logger) {
	srv := &http.Server{
		Addr:         cfg.Service.Addr,
		Handler:      router,
		ReadTimeout:  cfg.Service.ReadTimeout,
		WriteTimeout: cfg.Service.WriteTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting paaa gateway",
				"addr", srv.Addr,
				"endpoint", cfg.Service.Endpoint,
				"environment", cfg.Service.Environment,
				"authorization_backend", cfg.Authorization.Backend,
				"ils_backend", cfg.ILS.Backend,
			)
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server error", "error", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server gracefully")
			ctx, cancel := context.WithTimeout(ctx, cfg.Service.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				log.Error("graceful shutdown failed", "error", err)
				return err
			}
			log.Info("server stopped")
			return nil
		},
	})
}
