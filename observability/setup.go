package observability

import (
	"context"
	stderrors "errors"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/accessorkit/logger"
)

// Provider owns the installed tracer and meter providers. A disabled
// configuration yields a Provider with nothing to shut down; the global
// otel providers stay noop.
type Provider struct {
	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
}

// Setup installs tracing and metrics according to cfg.
func Setup(ctx context.Context, cfg Config, serviceName, serviceVersion, environment string, log *logger.Logger) (*Provider, error) {
	p := &Provider{}
	if !cfg.Enabled {
		return p, nil
	}

	tp, err := InitTracer(ctx, cfg.TracerConfig(serviceName, serviceVersion, environment), log)
	if err != nil {
		return nil, err
	}
	p.tracer = tp

	mp, err := InitMeter(ctx, cfg.MeterConfig(serviceName, serviceVersion, environment), log)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	p.meter = mp
	return p, nil
}

// Shutdown flushes and stops the installed providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.tracer != nil {
		errs = append(errs, p.tracer.Shutdown(ctx))
	}
	if p.meter != nil {
		errs = append(errs, p.meter.Shutdown(ctx))
	}
	return stderrors.Join(errs...)
}
