package fanout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sourcegraph/conc/panics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/kbukum/accessorkit/errors"
	"github.com/kbukum/accessorkit/logger"
	"github.com/kbukum/accessorkit/observability"
)

// Operation performs one request. It must enforce its own timeout.
type Operation[Req, Res any] func(ctx context.Context, req Req) (Res, error)

// Run invokes op once per request with at most Limit invocations in flight
// and returns one Outcome per request. A new invocation starts as soon as a
// running one returns. Empty input returns an empty slice without invoking op.
func Run[Req, Res any](ctx context.Context, requests []Req, op Operation[Req, Res], opts ...Option) []Outcome[Req, Res] {
	if len(requests) == 0 {
		return []Outcome[Req, Res]{}
	}
	o := newOptions(opts...)

	batchID := uuid.NewString()
	log := logger.OrDefault(o.Logger, "fanout")
	inst := newInstruments(o.Meter)
	start := time.Now()

	ctx, span := observability.StartSpan(ctx, observability.SpanFanout, trace.WithAttributes(
		attribute.String("batch.id", batchID),
		attribute.Int(observability.AttrBatchSize, len(requests)),
		attribute.Int("batch.limit", o.Limit),
	))
	defer span.End()

	log.Debug("fan-out started", logger.Fields(
		logger.FieldBatchID, batchID,
		logger.FieldCount, len(requests),
		"limit", o.Limit,
		"ordering", o.Ordering.String(),
	))

	col := NewCollector[Req, Res](len(requests), o.Ordering)

	var g errgroup.Group
	g.SetLimit(o.Limit)
	for i, req := range requests {
		g.Go(func() error {
			inst.started(ctx)
			out := invoke(ctx, i, req, op)
			inst.finished(ctx, out.Err)
			col.Add(out)
			return nil
		})
	}
	_ = g.Wait()

	log.Debug("fan-out finished", logger.Fields(
		logger.FieldBatchID, batchID,
		"succeeded", col.Succeeded(),
		"failed", col.Failed(),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	span.SetAttributes(
		attribute.Int("batch.succeeded", col.Succeeded()),
		attribute.Int("batch.failed", col.Failed()),
	)
	return col.Outcomes()
}

func invoke[Req, Res any](ctx context.Context, i int, req Req, op Operation[Req, Res]) Outcome[Req, Res] {
	out := Outcome[Req, Res]{Index: i, Request: req}
	var (
		val Res
		err error
	)
	if recovered := panics.Try(func() { val, err = op(ctx, req) }); recovered != nil {
		err = errors.TransportFailure("fan-out operation", recovered.AsError()).
			WithDetail("panic", true)
	}
	out.Value, out.Err = val, err
	return out
}

type instruments struct {
	inflight metric.Int64UpDownCounter
	outcomes metric.Int64Counter
}

func newInstruments(m metric.Meter) instruments {
	if m == nil {
		m = observability.Meter(observability.TracerName)
	}
	// Instrument creation only fails on invalid names; a nil instrument
	// is skipped below.
	inflight, _ := m.Int64UpDownCounter("fanout.inflight",
		metric.WithDescription("Fan-out operations currently in flight"))
	outcomes, _ := m.Int64Counter("fanout.outcomes",
		metric.WithDescription("Fan-out outcomes by status"))
	return instruments{inflight: inflight, outcomes: outcomes}
}

func (i instruments) started(ctx context.Context) {
	if i.inflight != nil {
		i.inflight.Add(ctx, 1)
	}
}

func (i instruments) finished(ctx context.Context, err error) {
	if i.inflight != nil {
		i.inflight.Add(ctx, -1)
	}
	if i.outcomes == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	i.outcomes.Add(ctx, 1, metric.WithAttributes(attribute.String(observability.AttrStatus, status)))
}
