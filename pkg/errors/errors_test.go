// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and code lookup

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/pybuild/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "config_not_found",
			code:    errors.ErrConfigNotFound,
			message: "could not find build config",
			wantStr: "[CONFIG_NOT_FOUND] could not find build config",
		},
		{
			name:    "template_error",
			code:    errors.ErrTemplate,
			message: "unknown key",
			wantStr: "[TEMPLATE] unknown key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}
			if err.Details == nil {
				t.Error("New() details should be initialized")
			}
			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrManifestWrite, "cannot write manifest")

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}
		wantStr := "[MANIFEST_WRITE] cannot write manifest: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		if err := errors.Wrapf(nil, errors.ErrInternal, "internal %d", 1); err != nil {
			t.Error("Wrapf(nil) should return nil")
		}
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrCommandFailed, "command failed").
		WithDetail("command", "make").
		WithDetail("exit_code", 2)

	if err.Details["command"] != "make" {
		t.Errorf("WithDetail() command = %v, want make", err.Details["command"])
	}
	if err.Details["exit_code"] != 2 {
		t.Errorf("WithDetail() exit_code = %v, want 2", err.Details["exit_code"])
	}
	if got := errors.GetErrorDetails(err); got["command"] != "make" {
		t.Errorf("GetErrorDetails() = %v", got)
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrTemplate, "error 1")
	err2 := errors.New(errors.ErrTemplate, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	if !stderrors.Is(err1, err2) {
		t.Error("errors.Is() should match on code")
	}
	if err1.Is(err3) {
		t.Error("Is() should return false for different codes")
	}
}

func TestIsErrorCode(t *testing.T) {
	templateErr := errors.New(errors.ErrTemplate, "missing key")
	stepErr := errors.Wrap(templateErr, errors.ErrStepFailed, "step 2 failed")

	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{"matching_code", templateErr, errors.ErrTemplate, true},
		{"different_code", templateErr, errors.ErrInternal, false},
		{"outer_code", stepErr, errors.ErrStepFailed, true},
		{"inner_code", stepErr, errors.ErrTemplate, true},
		{"standard_error", stderrors.New("standard"), errors.ErrTemplate, false},
		{"nil_error", nil, errors.ErrTemplate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := errors.GetErrorCode(errors.New(errors.ErrConfigInvalid, "x")); got != errors.ErrConfigInvalid {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrConfigInvalid)
	}
	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrUnknown)
	}
	if got := errors.GetErrorCode(nil); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode(nil) = %v, want %v", got, errors.ErrUnknown)
	}
}
