package kafkasink

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
)

// isRetryable reports whether a write error is worth another attempt.
// A closed writer and a finished context never are.
func isRetryable(err error) bool {
	if err == nil || stderrors.Is(err, io.ErrClosedPipe) ||
		stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return false
	}
	errStr := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"i/o timeout",
		"broker not available",
		"leader not available",
		"not enough replicas",
		"request timed out",
		"temporary",
	} {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}
