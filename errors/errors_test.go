package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeSinkClosed, "queue closed")
	if err.Code != ErrCodeSinkClosed {
		t.Errorf("expected code %s, got %s", ErrCodeSinkClosed, err.Code)
	}
	if err.Message != "queue closed" {
		t.Errorf("expected message 'queue closed', got %q", err.Message)
	}
	if err.Retryable {
		t.Error("SINK_CLOSED should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeExternalService, "redis down")
	if !err.Retryable {
		t.Error("EXTERNAL_SERVICE_ERROR should be retryable")
	}
}

func TestAppError_Is_MatchesByCode(t *testing.T) {
	sentinel := New(ErrCodeSinkClosed, "sink is closed")
	err := fmt.Errorf("step: %w", SinkClosed("kafka"))

	if !stderrors.Is(err, sentinel) {
		t.Error("expected wrapped SinkClosed to match sentinel by code")
	}
	if stderrors.Is(err, ReductionStopped()) {
		t.Error("different codes must not match")
	}
	if stderrors.Is(fmt.Errorf("plain"), sentinel) {
		t.Error("plain error must not match")
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	root := fmt.Errorf("connection refused")
	err := ExternalServiceError("redis", nil).WithCause(root)
	if !stderrors.Is(err, root) {
		t.Error("expected errors.Is to find root cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := SinkClosed("chan").WithDetails(map[string]any{"pending": 3})
	if err.Details["sink"] != "chan" {
		t.Errorf("expected sink=chan, got %v", err.Details["sink"])
	}
	if err.Details["pending"] != 3 {
		t.Errorf("expected pending=3, got %v", err.Details["pending"])
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := ReductionStopped().WithDetail("stage", "take")
	if err.Details["stage"] != "take" {
		t.Errorf("expected stage=take, got %v", err.Details["stage"])
	}
}

func TestAppError_Error_Format(t *testing.T) {
	err := New(ErrCodeInvalidArgument, "n must be non-negative")
	if got := err.Error(); got != "INVALID_ARGUMENT: n must be non-negative" {
		t.Errorf("unexpected format %q", got)
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"app error", Validation("bad"), ErrCodeInvalidConfig},
		{"wrapped", fmt.Errorf("ctx: %w", Internal(nil)), ErrCodeInternal},
		{"plain", fmt.Errorf("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Code(tc.err); got != tc.want {
				t.Errorf("Code() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
	}{
		{"InvalidArgument", InvalidArgument("n", "negative"), ErrCodeInvalidArgument},
		{"Validation", Validation("name: is required"), ErrCodeInvalidConfig},
		{"SinkClosed", SinkClosed("redis"), ErrCodeSinkClosed},
		{"ReductionStopped", ReductionStopped(), ErrCodeReductionStopped},
		{"ReductionFinished", ReductionFinished(), ErrCodeReductionFinished},
		{"Internal", Internal(fmt.Errorf("boom")), ErrCodeInternal},
		{"ExternalServiceError", ExternalServiceError("s3", fmt.Errorf("503")), ErrCodeExternalService},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.Message == "" {
				t.Error("expected non-empty message")
			}
		})
	}
}
