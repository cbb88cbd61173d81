package observability

import (
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"

	"github.com/pedalroom/pedalroom/internal/config"
	"github.com/pedalroom/pedalroom/internal/observability/logger"
	"github.com/pedalroom/pedalroom/internal/observability/metrics"
	"github.com/pedalroom/pedalroom/internal/observability/tracing"
)

// Module wires logging, metrics, and tracing from the app config.
var Module = fx.Module("observability",
	fx.Provide(
		newLoggerConfig,
		newMetricsConfig,
		newTracingConfig,
		logger.New,
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
		tracing.NewProvider,
	),
	// Nothing injects the tracer provider directly, so force construction.
	fx.Invoke(func(trace.TracerProvider) {}),
)

func newLoggerConfig(cfg config.Config) logger.Config {
	return logger.Config{
		ServiceName:         cfg.AppName,
		Environment:         cfg.Environment,
		Version:             cfg.AppVersion,
		Level:               cfg.LogLevel,
		Format:              cfg.LogFormat,
		IncludeCaller:       true,
		IncludeStackOnError: true,
	}
}

func newMetricsConfig(cfg config.Config) metrics.Config {
	return metrics.Config{
		Enabled:          cfg.MetricsEnabled,
		ExporterEndpoint: cfg.OTLPEndpoint,
		ExporterProtocol: cfg.OTLPProtocol,
		ServiceName:      cfg.AppName,
		Environment:      cfg.Environment,
	}
}

func newTracingConfig(cfg config.Config) tracing.Config {
	return tracing.Config{
		Enabled:          cfg.TracingEnabled,
		ExporterEndpoint: cfg.OTLPEndpoint,
		ExporterProtocol: cfg.OTLPProtocol,
		ServiceName:      cfg.AppName,
		Environment:      cfg.Environment,
		Version:          cfg.AppVersion,
		SampleRatio:      cfg.TracingSampleRatio,
	}
}
