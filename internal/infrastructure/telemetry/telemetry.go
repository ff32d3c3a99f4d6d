package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mrops-br/product-inventory/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const serviceVersion = "1.0.0"

// Telemetry holds all OpenTelemetry components
type Telemetry struct {
	TracerProvider *sdktrace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Registry       *prometheus.Registry
	Logger         *slog.Logger
	conn           *grpc.ClientConn
}

// NewTelemetry initializes all OpenTelemetry components. With OTLP
// disabled the providers record locally and metrics stay available on the
// Prometheus registry.
func NewTelemetry(ctx context.Context, cfg *config.Config, w io.Writer) (*Telemetry, error) {
	logger := NewLogger(w, cfg)

	if !cfg.OTLP.Enabled {
		return newLocalTelemetry(ctx, cfg, logger)
	}

	logger.Info("Initializing OpenTelemetry",
		slog.String("endpoint", cfg.OTLP.Endpoint),
		slog.String("service_name", cfg.OTLP.ServiceName),
	)

	res, err := newResource(ctx, &cfg.OTLP)
	if err != nil {
		return nil, err
	}

	conn, err := grpc.NewClient(cfg.OTLP.Endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	tp, err := initTracerProvider(ctx, conn, res)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize tracer provider: %w", err)
	}
	otel.SetTracerProvider(tp)
	logger.Info("Tracer provider initialized successfully")

	registry := prometheus.NewRegistry()
	mp, err := initMeterProvider(ctx, conn, res, registry)
	if err != nil {
		_ = tp.Shutdown(ctx)
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}
	otel.SetMeterProvider(mp)
	logger.Info("Meter provider initialized successfully (OTLP + Prometheus exporters)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Registry:       registry,
		Logger:         logger,
		conn:           conn,
	}, nil
}

// NewNoOpTelemetry creates a telemetry instance that exports nothing over
// the network. Used by tests and when OTLP is disabled.
func NewNoOpTelemetry(cfg *config.Config, w io.Writer) (*Telemetry, error) {
	return newLocalTelemetry(context.Background(), cfg, NewLogger(w, cfg))
}

func newLocalTelemetry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Telemetry, error) {
	res, err := newResource(ctx, &cfg.OTLP)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithResource(res))

	registry := prometheus.NewRegistry()
	mp, err := initMeterProvider(ctx, nil, res, registry)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize meter provider: %w", err)
	}

	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)

	logger.Info("Telemetry initialized in local mode (OTLP export disabled)")

	return &Telemetry{
		TracerProvider: tp,
		MeterProvider:  mp,
		Registry:       registry,
		Logger:         logger,
	}, nil
}

// initTracerProvider initializes the tracer provider with an OTLP exporter
func initTracerProvider(ctx context.Context, conn *grpc.ClientConn, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

// Shutdown flushes and stops all telemetry components
func (t *Telemetry) Shutdown(ctx context.Context) error {
	t.Logger.Info("Shutting down OpenTelemetry")

	var errs []error
	if err := t.TracerProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown tracer provider", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := t.MeterProvider.Shutdown(ctx); err != nil {
		t.Logger.Error("Failed to shutdown meter provider", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if t.conn != nil {
		if err := t.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}

	t.Logger.Info("OpenTelemetry shutdown successfully")
	return nil
}
