package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"kycengine/internal/decision"
	decisionhandler "kycengine/internal/decision/handler"
	decisionmetrics "kycengine/internal/decision/metrics"
	"kycengine/internal/decision/signatory"
	"kycengine/internal/platform/config"
	"kycengine/internal/platform/httpserver"
	"kycengine/internal/platform/logger"
	"kycengine/internal/platform/metrics"
	"kycengine/internal/platform/middleware"
	"kycengine/internal/platform/tracing"
	"kycengine/pkg/platform/httputil"
	"kycengine/pkg/platform/middleware/requestid"
	"kycengine/pkg/platform/middleware/requesttime"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const requestTimeout = 30 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal/decision.
func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	phrases := signatory.DefaultPhraseTable()
	if cfg.RulesFile != "" {
		table, err := config.LoadRules(cfg.RulesFile)
		if err != nil {
			return err
		}
		phrases = table
		log.Info("loaded signatory rules", "path", cfg.RulesFile)
	}

	tp, err := tracing.New(context.Background(), tracing.Config{
		Endpoint:       cfg.Tracing.Endpoint,
		Insecure:       cfg.Tracing.Insecure,
		SampleRatio:    cfg.Tracing.SampleRatio,
		ServiceName:    "kycengine",
		ServiceVersion: version,
	})
	if err != nil {
		return err
	}
	if tp.Enabled() {
		log.Info("exporting traces", "endpoint", cfg.Tracing.Endpoint, "sample_ratio", cfg.Tracing.SampleRatio)
	}

	appMetrics := metrics.New(version)
	svc, err := decision.New(
		decision.NewEngine(decision.Config{DemoMode: cfg.DemoMode, Phrases: phrases}),
		decision.WithLogger(log),
		decision.WithMetrics(decisionmetrics.NewWithRegisterer(appMetrics.Registry)),
		decision.WithBatchLimit(cfg.BatchLimit),
	)
	if err != nil {
		return err
	}

	r := newRouter(svc, appMetrics, log)
	srv := httpserver.New(cfg.Addr, r)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting kyc engine", "addr", cfg.Addr, "version", version, "demo_mode", cfg.DemoMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return errors.Join(err, tp.Shutdown(context.Background()))
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return errors.Join(srv.Shutdown(shutdownCtx), tp.Shutdown(shutdownCtx))
}

// newRouter mounts the decision API and operational endpoints.
func newRouter(svc decisionhandler.Service, appMetrics *metrics.Metrics, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(middleware.Recover(log))
	r.Use(middleware.Logger(log))
	r.Method(http.MethodGet, "/metrics", appMetrics.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version})
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		decisionhandler.New(svc, log).Register(r)
	})
	return r
}
