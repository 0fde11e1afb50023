package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Argument and configuration errors
const (
	// ErrCodeInvalidArgument indicates a constructor or operation received an unusable argument.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeInvalidConfig indicates configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Reduction errors
const (
	// ErrCodeSinkClosed indicates a sink rejected an item because it is closed.
	ErrCodeSinkClosed ErrorCode = "SINK_CLOSED"
	// ErrCodeReductionStopped indicates a step was attempted after the reduction stopped.
	ErrCodeReductionStopped ErrorCode = "REDUCTION_STOPPED"
	// ErrCodeReductionFinished indicates finish was attempted on a finished reduction.
	ErrCodeReductionFinished ErrorCode = "REDUCTION_FINISHED"
	// ErrCodeTransformFailed indicates a user-supplied transform or predicate failed.
	ErrCodeTransformFailed ErrorCode = "TRANSFORM_FAILED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeExternalService indicates a backing service (Redis, Kafka, S3) failed.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeExternalService: true,
	ErrCodeInternal:        false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
