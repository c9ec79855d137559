package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeBadPadding, "bad padding", http.StatusUnprocessableEntity)
	if err.Code != ErrCodeBadPadding {
		t.Errorf("expected code %s, got %s", ErrCodeBadPadding, err.Code)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("BAD_PADDING should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeEntropyUnavailable, "no entropy", http.StatusServiceUnavailable)
	if !err.Retryable {
		t.Error("ENTROPY_UNAVAILABLE should be retryable")
	}
}

func TestAppError_Constructors_Table(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		status    int
		retryable bool
	}{
		{"InvalidKeyMaterial", InvalidKeyMaterial(16, 32), ErrCodeInvalidKeyMaterial, http.StatusInternalServerError, false},
		{"InvalidIVLength", InvalidIVLength(8, 16), ErrCodeInvalidIVLength, http.StatusBadRequest, false},
		{"MalformedCiphertext", MalformedCiphertext("bad base64"), ErrCodeMalformedCiphertext, http.StatusBadRequest, false},
		{"BadPadding", BadPadding(), ErrCodeBadPadding, http.StatusUnprocessableEntity, false},
		{"UnsupportedEncoding", UnsupportedEncoding("plaintext"), ErrCodeUnsupportedEncoding, http.StatusUnprocessableEntity, false},
		{"EntropyUnavailable", EntropyUnavailable(nil), ErrCodeEntropyUnavailable, http.StatusServiceUnavailable, true},
		{"InvalidInput", InvalidInput("iv", "too long"), ErrCodeInvalidInput, http.StatusBadRequest, false},
		{"MissingField", MissingField("passphrase"), ErrCodeMissingField, http.StatusBadRequest, false},
		{"Validation", Validation("bad input"), ErrCodeInvalidInput, http.StatusBadRequest, false},
		{"PayloadTooLarge", PayloadTooLarge(1024), ErrCodePayloadTooLarge, http.StatusRequestEntityTooLarge, false},
		{"RateLimited", RateLimited(), ErrCodeRateLimited, http.StatusTooManyRequests, true},
		{"Overloaded", Overloaded(), ErrCodeOverloaded, http.StatusServiceUnavailable, true},
		{"Internal", Internal(nil), ErrCodeInternal, http.StatusInternalServerError, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
			if tc.err.Retryable != tc.retryable {
				t.Errorf("expected retryable=%v, got %v", tc.retryable, tc.err.Retryable)
			}
		})
	}
}

func TestAppError_Is_MatchesSentinelByCode(t *testing.T) {
	err := fmt.Errorf("decrypt: %w", BadPadding())

	if !stderrors.Is(err, ErrBadPadding) {
		t.Error("expected wrapped BadPadding to match ErrBadPadding")
	}
	if stderrors.Is(err, ErrMalformedCiphertext) {
		t.Error("BadPadding must not match ErrMalformedCiphertext")
	}
}

func TestAppError_Is_DistinctKinds(t *testing.T) {
	sentinels := []*AppError{
		ErrInvalidKeyMaterial, ErrInvalidIVLength, ErrMalformedCiphertext,
		ErrBadPadding, ErrUnsupportedEncoding, ErrEntropyUnavailable,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if got := stderrors.Is(a, b); got != (i == j) {
				t.Errorf("Is(%s, %s) = %v", a.Code, b.Code, got)
			}
		}
	}
}

func TestAppError_InvalidIVLength_Details(t *testing.T) {
	err := InvalidIVLength(8, 16)
	if err.Details["length"] != 8 || err.Details["expected"] != 16 {
		t.Errorf("unexpected details: %v", err.Details)
	}
	if !strings.Contains(err.Message, "16") {
		t.Errorf("expected message to name the required size, got %q", err.Message)
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("illegal base64 data at input byte 4")
	err := MalformedCiphertext("invalid base64").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "input byte 4") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := UnsupportedEncoding("plaintext").WithDetails(map[string]any{
		"offset": 3,
	})
	if err.Details["offset"] != 3 {
		t.Errorf("expected offset=3 in details")
	}
	if err.Details["field"] != "plaintext" {
		t.Error("expected original details to be preserved")
	}
}

func TestAppError_WithDetail_NilMap(t *testing.T) {
	err := &AppError{}
	err.WithDetail("key", "value")
	if err.Details["key"] != "value" {
		t.Errorf("expected key=value, got %v", err.Details["key"])
	}
}

func TestAppError_Error_Format(t *testing.T) {
	s := BadPadding().Error()
	if !strings.Contains(s, "BAD_PADDING") {
		t.Errorf("expected error string to contain code, got %q", s)
	}
}

func TestErrorCode_IsRetryableCode_Table(t *testing.T) {
	for _, code := range []ErrorCode{ErrCodeEntropyUnavailable, ErrCodeRateLimited, ErrCodeOverloaded} {
		if !IsRetryableCode(code) {
			t.Errorf("expected %s to be retryable", code)
		}
	}

	nonRetryable := []ErrorCode{
		ErrCodeInvalidKeyMaterial, ErrCodeInvalidIVLength, ErrCodeMalformedCiphertext,
		ErrCodeBadPadding, ErrCodeUnsupportedEncoding, ErrCodeInvalidInput, ErrCodeInternal,
		ErrCodePayloadTooLarge,
	}
	for _, code := range nonRetryable {
		if IsRetryableCode(code) {
			t.Errorf("expected %s to NOT be retryable", code)
		}
	}
}

func TestAppError_ToResponse_Success(t *testing.T) {
	resp := InvalidIVLength(4, 16).ToResponse()
	if resp.Error.Code != ErrCodeInvalidIVLength {
		t.Errorf("expected code INVALID_IV_LENGTH in response, got %s", resp.Error.Code)
	}
	if resp.Error.Details["expected"] != 16 {
		t.Error("expected expected=16 in response details")
	}
}

func TestAppError_AsAppError_Success(t *testing.T) {
	wrapped := fmt.Errorf("wrap: %w", BadPadding())

	got, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to succeed for wrapped AppError")
	}
	if got.Code != ErrCodeBadPadding {
		t.Errorf("expected BAD_PADDING, got %s", got.Code)
	}

	if _, ok := AsAppError(fmt.Errorf("not an app error")); ok {
		t.Error("expected AsAppError to return false for non-AppError")
	}
	if !IsAppError(wrapped) {
		t.Error("expected IsAppError to return true for wrapped AppError")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}

	orig := BadPadding()
	if got := Wrap(fmt.Errorf("outer: %w", orig)); got != orig {
		t.Error("Wrap should return the wrapped AppError unchanged")
	}

	plain := fmt.Errorf("something broke")
	got := Wrap(plain)
	if got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}
	if got.Cause != plain {
		t.Error("expected cause to be the original error")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("x: %w", MalformedCiphertext("short"))); got != ErrCodeMalformedCiphertext {
		t.Errorf("expected MALFORMED_CIPHERTEXT, got %q", got)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != "" {
		t.Errorf("expected empty code, got %q", got)
	}
}
