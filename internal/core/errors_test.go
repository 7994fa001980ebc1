// internal/core/errors_test.go
package core

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{Code: "TEST_ERROR", Message: "test message"}
	if err.Error() != "[TEST_ERROR] test message" {
		t.Errorf("unexpected error string: %s", err.Error())
	}
}

func TestError_ErrorWithCause(t *testing.T) {
	err := WrapError(ErrAnalysisFailed, errors.New("quota exceeded"))
	want := "[ANALYSIS_FAILED] sentiment analysis failed: quota exceeded"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Code: "WRAP", Message: "wrapped", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should return cause")
	}
}

func TestError_Is(t *testing.T) {
	if !errors.Is(ErrNotFound, ErrNotFound) {
		t.Error("same error should match")
	}
	if errors.Is(ErrAnalysisFailed, ErrAnalysisTimeout) {
		t.Error("different codes should not match")
	}
}

func TestError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("cycle: %w", WrapError(ErrAnalysisTimeout, context.DeadlineExceeded))
	if !errors.Is(err, ErrAnalysisTimeout) {
		t.Error("expected code match through fmt wrapping")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("expected cause match through fmt wrapping")
	}
}

func TestWrapError(t *testing.T) {
	cause := errors.New("original")
	wrapped := WrapError(ErrCollectorFailed, cause)
	if wrapped.Cause != cause {
		t.Error("cause not set")
	}
	if wrapped.Code != ErrCollectorFailed.Code {
		t.Error("code not preserved")
	}
}
