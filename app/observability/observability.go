// Package observability wires logging, metrics and tracing for the client.
package observability

import (
	"io"
	"log/slog"
	"strings"

	"github.com/Black-And-White-Club/sudoku-leaderboard/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ServiceName identifies this client in traces and metrics.
const ServiceName = "sudoku-leaderboard"

// Observability bundles the components handed to modules.
type Observability struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Metrics  Metrics
	Registry *prometheus.Registry // nil when metrics are disabled
}

// New builds the observability components described by cfg, logging to out.
func New(cfg config.ObservabilityConfig, out io.Writer) Observability {
	logger := NewLogger(cfg, out)

	obs := Observability{
		Logger:  logger,
		Tracer:  otel.Tracer(ServiceName),
		Metrics: NoOpMetrics{},
	}

	if cfg.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		obs.Registry = registry
		obs.Metrics = NewPrometheusMetrics(registry)
	}

	return obs
}

// NewNoop returns components that discard everything. Used by tests and one-shot commands.
func NewNoop() Observability {
	return Observability{
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Tracer:  noop.NewTracerProvider().Tracer("noop"),
		Metrics: NoOpMetrics{},
	}
}

// NewLogger creates the slog logger for the configured format and level.
func NewLogger(cfg config.ObservabilityConfig, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler).With(
		slog.String("service", ServiceName),
		slog.String("environment", cfg.Environment),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
