package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"civreg/internal/app"
	httpapi "civreg/internal/http"
	"civreg/internal/platform/config"
	"civreg/internal/platform/httpserver"
	"civreg/internal/platform/logger"
	"civreg/internal/platform/metrics"
	"civreg/internal/registration/handler"
)

// main wires the registration pipeline behind the HTTP router and keeps the
// server lifecycle small. Business logic lives in internal packages.
func main() {
	configPath := flag.String("config", os.Getenv("CIVREG_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	a, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.StartAuditRelay(ctx); err != nil {
		return err
	}

	registrations, err := handler.New(a.Pipeline,
		handler.WithLogger(log),
		handler.WithAuditLister(a.Audit),
		handler.WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
	)
	if err != nil {
		return err
	}

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Logger:   log,
		Metrics:  metrics.New(),
		Gatherer: prometheus.DefaultGatherer,
		Checks:   a.HealthChecks(),
	}, registrations)

	srv := httpserver.New(cfg.Server.Addr, router, cfg.Registration.RunTimeout)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting civreg", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
