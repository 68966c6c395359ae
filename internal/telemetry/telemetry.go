// Package telemetry wires the interpreter's spans to an OpenTelemetry
// exporter chosen by configuration.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/zjrosen/runbook/internal/config"
)

// Init installs a global TracerProvider per the telemetry config and returns
// a shutdown func that flushes pending spans. With the "none" exporter no
// provider is installed and shutdown is a no-op; the interpreter's tracer
// then resolves to the otel no-op implementation.
//
// stdoutWriter receives spans for the "stdout" exporter. The TUI owns the
// terminal, so callers typically hand in the log file rather than os.Stdout.
func Init(ctx context.Context, cfg config.TelemetryConfig, stdoutWriter io.Writer) (func(context.Context) error, error) {
	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.Exporter {
	case "", "none":
		return func(context.Context) error { return nil }, nil
	case "stdout":
		exporter, err = stdouttrace.New(stdouttrace.WithWriter(stdoutWriter), stdouttrace.WithPrettyPrint())
	case "otlp":
		exporter, err = otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
	default:
		return nil, fmt.Errorf("unknown telemetry exporter %q", cfg.Exporter)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s span exporter: %w", cfg.Exporter, err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(5*time.Second)),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
