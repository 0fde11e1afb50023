// Package observability provides OpenTelemetry tracing and metrics for
// reductions.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultConfig("ingest"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, cfg)
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("ingest"))
//	xf := transduce.WithMetrics[[]int, int](ctx, metrics, "ingest")
//
// A Reduction ties one span and the active/duration instruments to a single
// reduction:
//
//	r := observability.NewReduction("ingest", id, metrics)
//	ctx, span := r.StartSpan(ctx)
//	// ... drive the reduction ...
//	r.End(ctx, span, steps, stopped, err)
package observability
