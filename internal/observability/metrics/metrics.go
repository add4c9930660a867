package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes application-level instruments.
type Metrics struct {
	quotationsCreated  metric.Int64Counter
	quotationsDeleted  metric.Int64Counter
	invoicesGenerated  metric.Int64Counter
	generationConflict metric.Int64Counter
	pdfRenders         metric.Int64Counter
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	return provider, nil
}

// New configures the domain instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "cotiza"
	}
	meter := provider.Meter(name)

	quotationsCreated, err := meter.Int64Counter("cotiza.quotations.created")
	if err != nil {
		return nil, err
	}
	quotationsDeleted, err := meter.Int64Counter("cotiza.quotations.deleted")
	if err != nil {
		return nil, err
	}
	invoicesGenerated, err := meter.Int64Counter("cotiza.invoices.generated")
	if err != nil {
		return nil, err
	}
	generationConflict, err := meter.Int64Counter("cotiza.invoices.generation_conflicts")
	if err != nil {
		return nil, err
	}
	pdfRenders, err := meter.Int64Counter("cotiza.pdf.renders")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		quotationsCreated:  quotationsCreated,
		quotationsDeleted:  quotationsDeleted,
		invoicesGenerated:  invoicesGenerated,
		generationConflict: generationConflict,
		pdfRenders:         pdfRenders,
	}, nil
}

func (m *Metrics) RecordQuotationCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.quotationsCreated.Add(ctx, 1)
}

func (m *Metrics) RecordQuotationDeleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.quotationsDeleted.Add(ctx, 1)
}

func (m *Metrics) RecordInvoiceGenerated(ctx context.Context) {
	if m == nil {
		return
	}
	m.invoicesGenerated.Add(ctx, 1)
}

func (m *Metrics) RecordGenerationConflict(ctx context.Context) {
	if m == nil {
		return
	}
	m.generationConflict.Add(ctx, 1)
}

func (m *Metrics) RecordPDFRender(ctx context.Context, document string) {
	if m == nil {
		return
	}
	m.pdfRenders.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("document", document),
	)...))
}

// FilterAttributes drops attributes with sensitive keys before recording.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		key := strings.ToLower(string(attr.Key))
		if strings.Contains(key, "password") || strings.Contains(key, "secret") || strings.Contains(key, "token") {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(ctx, opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(ctx, opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}
