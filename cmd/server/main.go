package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/caarlos0/env"
	"github.com/calfeeds/ethglobal-ics/internal/ethglobal"
	"github.com/calfeeds/ethglobal-ics/internal/feed"
	"github.com/calfeeds/ethglobal-ics/internal/httpx"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/automaxprocs/maxprocs"

	"go.opentelemetry.io/otel"
)

type config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	GraphQLURL      string        `env:"ETHGLOBAL_GRAPHQL_URL" envDefault:"https://api.ethglobal.com/graphql"`
	Origin          string        `env:"ETHGLOBAL_ORIGIN" envDefault:"https://ethglobal.com"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"30s"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancel()

	if _, err := maxprocs.Set(); err != nil {
		slog.Warn("Failed to set GOMAXPROCS", "error", err)
	}

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("Failed to parse environment", "error", err)
		os.Exit(1)
	}

	// Initialize OpenTelemetry
	meterProvider, _, err := httpx.SetupPrometheusExporter()
	if err != nil {
		slog.Error("Failed to initialize OpenTelemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := httpx.Shutdown(shutdownCtx, meterProvider); err != nil {
			slog.Error("Failed to shutdown OpenTelemetry", "error", err)
		}
	}()

	otel.SetMeterProvider(meterProvider)
	slog.Info("OpenTelemetry initialized", "metrics_endpoint", "/metrics")

	// One outbound client for the whole process; handlers share it.
	events := ethglobal.New(ethglobal.Config{
		Endpoint: cfg.GraphQLURL,
		Origin:   cfg.Origin,
		Timeout:  cfg.UpstreamTimeout,
	})

	// Initialize telemetry
	telemetry, err := httpx.NewTelemetry()
	if err != nil {
		slog.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}

	// Configure handler
	handler := mux.NewRouter()
	handler.Use(
		telemetry.Middleware,
		httpx.Logger(),
		httpx.Recovery(),
	)

	handler.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "ETHGlobal events feed. Subscribe to /ethglobal.ics")
	})

	// Use standard Prometheus HTTP handler
	handler.Handle("/metrics", promhttp.Handler())

	handler.Handle("/ethglobal.ics", feed.NewHandler(events)).Methods(http.MethodGet)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("Starting the server", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
