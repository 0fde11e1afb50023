package transduce

import (
	"context"

	"github.com/google/uuid"

	"github.com/kbukum/reducekit/logger"
)

// WithLogging passes every input through unchanged and logs the reduction
// lifecycle at stage. Each applied instance gets its own reduction id, and
// lines carry the trace and span ids of the span active in ctx. One debug
// line per step is written only when the logger has LogSteps set; early
// termination is logged at info, failures at error and abandonment at warn.
// A nil log uses the transduce component logger.
func WithLogging[A, T any](ctx context.Context, log *logger.Logger, stage string) Transducer[A, T, T] {
	return Func[A, T, T](func(inner Reducer[A, T]) Reducer[A, T] {
		l := log
		if l == nil {
			l = logger.Get(logger.ComponentTransduce)
		}
		l = l.WithContext(ctx).WithReduction(uuid.NewString())
		return &logReducer[A, T]{
			next:  next[A, T]{inner},
			log:   l.WithFields(map[string]interface{}{logger.FieldStage: stage}),
			steps: l.StepsEnabled(),
		}
	})
}

type logReducer[A, T any] struct {
	next[A, T]
	log    *logger.Logger
	steps  bool
	failed bool
	observed
}

func (r *logReducer[A, T]) Step(acc A, in T) (Signal[A], error) {
	r.count++
	if r.steps {
		r.log.Debug("step", logger.Fields(logger.FieldSteps, r.count, logger.FieldInput, in))
	}
	sig, err := r.inner.Step(acc, in)
	if err != nil {
		r.failed = true
		r.log.Error("reduction failed", logger.Fields(
			logger.FieldSteps, r.count,
			logger.FieldError, err.Error(),
			"code", string(errorCode(err)),
		))
		return sig, err
	}
	if sig.Stopped() {
		r.stopped = true
		r.log.Info("reduction stopped", logger.Fields(logger.FieldSteps, r.count))
	}
	return sig, nil
}

func (r *logReducer[A, T]) Finish(acc A) (A, error) {
	out, err := r.inner.Finish(acc)
	if err != nil {
		r.log.Error("finish failed", logger.Fields(logger.FieldSteps, r.count, logger.FieldError, err.Error()))
		return out, err
	}
	r.log.Debug("reduction finished", logger.Fields(logger.FieldSteps, r.count, logger.FieldStopped, r.stopped))
	return out, nil
}

func (r *logReducer[A, T]) Abort(err error) {
	if !r.failed {
		r.log.Warn("reduction abandoned", logger.Fields(logger.FieldSteps, r.count, logger.FieldError, err.Error()))
	}
	r.next.Abort(err)
}
