package transduce

import (
	"errors"

	apperrors "github.com/kbukum/reducekit/errors"
)

// observed counts what an instrumentation stage saw of its reduction.
type observed struct {
	count   int64
	stopped bool
	ended   bool
}

// errorCode classifies err for logs and metrics.
func errorCode(err error) apperrors.ErrorCode {
	var te *TransformError
	if errors.As(err, &te) {
		return te.Code()
	}
	if code := apperrors.Code(err); code != "" {
		return code
	}
	return apperrors.ErrCodeInternal
}
