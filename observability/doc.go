// Package observability wires OpenTelemetry tracing and metrics for the
// accessors.
//
//	p, err := observability.Setup(ctx, cfg, "accessorkit", version.Version, "production", log)
//	defer p.Shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanRedisReauth)
//	defer observability.EndSpan(span, err)
//
// When disabled, the global otel providers stay noop and every span and
// instrument call is free.
package observability
