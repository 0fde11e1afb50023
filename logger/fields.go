package logger

import (
	"time"
)

// Field keys shared by every reducekit component.
const (
	FieldService     = "service"
	FieldComponent   = "component"
	FieldReductionID = "reduction_id"
	FieldStage       = "stage"
	FieldSteps       = "steps"
	FieldStopped     = "stopped"
	FieldInput       = "input"
	FieldSink        = "sink"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldTraceID     = "trace_id"
	FieldSpanID      = "span_id"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("flushed", logger.Fields("sink", "redis", "keys", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// StageFields describes a transducer stage after n steps.
func StageFields(stage string, steps int64) map[string]interface{} {
	return map[string]interface{}{
		FieldStage: stage,
		FieldSteps: steps,
	}
}

// ErrorFields creates fields for a stage that failed.
func ErrorFields(stage string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldStage: stage,
		FieldError: err.Error(),
	}
}

// DurationFields creates fields for a timed stage.
func DurationFields(stage string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldStage:    stage,
		FieldDuration: d.Milliseconds(),
	}
}

// MergeWithError adds an error field to an existing map.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldError] = err.Error()
	return fields
}

// MergeWithDuration adds a duration field to an existing map.
func MergeWithDuration(fields map[string]interface{}, d time.Duration) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
