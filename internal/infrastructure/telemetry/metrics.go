package telemetry

import (
	"context"
	"fmt"

	"github.com/mrops-br/product-inventory/internal/infrastructure/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
)

// initMeterProvider initializes the meter provider. Metrics are always
// exposed through the Prometheus registry; when conn is non-nil they are
// also pushed over OTLP.
func initMeterProvider(
	ctx context.Context,
	conn *grpc.ClientConn,
	res *resource.Resource,
	registry *prometheus.Registry,
) (*metric.MeterProvider, error) {
	promExporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	opts := []metric.Option{
		metric.WithReader(promExporter),
		metric.WithResource(res),
	}

	if conn != nil {
		exporter, err := otlpmetricgrpc.New(ctx, otlpmetricgrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		opts = append(opts, metric.WithReader(metric.NewPeriodicReader(exporter)))
	}

	return metric.NewMeterProvider(opts...), nil
}

// newResource describes the service for every exported signal
func newResource(ctx context.Context, cfg *config.OTLPConfig) (*resource.Resource, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(serviceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
