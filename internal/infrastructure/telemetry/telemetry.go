// Package telemetry wires OpenTelemetry traces, metrics and logs plus Pyroscope
// profiling. Every provider degrades to a no-op when its switch is off.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/gadgetstock/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// Providers holds every telemetry provider of the process
type Providers struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
}

// Setup starts the providers enabled in cfg
func Setup(ctx context.Context, cfg config.TelemetryConfig, version string, logger *zap.Logger) (*Providers, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Providers{}
	var err error

	if p.Profiler, err = NewProfiler(ProfilerConfig{
		Enabled:         cfg.ProfilingEnabled,
		ServerAddress:   cfg.PyroscopeServer,
		ApplicationName: cfg.ServiceName,
	}, logger); err != nil {
		return nil, err
	}
	if p.Tracer, err = NewTracerProvider(ctx, cfg, version, logger); err != nil {
		return nil, err
	}
	if cfg.ProfilingEnabled {
		if err := p.Tracer.EnableSpanProfiles(); err != nil {
			return nil, err
		}
	}
	if p.Meter, err = NewMeterProvider(ctx, cfg, version, logger); err != nil {
		return nil, err
	}
	if p.Logs, err = NewLoggerProvider(ctx, cfg, version, logger); err != nil {
		return nil, err
	}
	return p, nil
}

// Shutdown flushes and stops all providers, collecting every error
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Logs != nil {
		errs = append(errs, p.Logs.Shutdown(ctx))
	}
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	if p.Profiler != nil {
		errs = append(errs, p.Profiler.Stop())
	}
	return errors.Join(errs...)
}

func newResource(serviceName, version string) (*resource.Resource, error) {
	if version == "" {
		version = "dev"
	}
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
