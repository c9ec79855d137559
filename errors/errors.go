package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code, so the
// package sentinels match any error of their kind.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// Sentinels for errors.Is. Do not mutate; the constructors below return
// fresh values.
var (
	ErrInvalidKeyMaterial  = &AppError{Code: ErrCodeInvalidKeyMaterial, Message: "invalid key material"}
	ErrInvalidIVLength     = &AppError{Code: ErrCodeInvalidIVLength, Message: "invalid IV length"}
	ErrMalformedCiphertext = &AppError{Code: ErrCodeMalformedCiphertext, Message: "malformed ciphertext"}
	ErrBadPadding          = &AppError{Code: ErrCodeBadPadding, Message: "bad padding"}
	ErrUnsupportedEncoding = &AppError{Code: ErrCodeUnsupportedEncoding, Message: "unsupported encoding"}
	ErrEntropyUnavailable  = &AppError{Code: ErrCodeEntropyUnavailable, Message: "entropy unavailable"}
)

// --- Crypto Error Constructors ---

// InvalidKeyMaterial reports a key whose length is not the AES-256 key size.
func InvalidKeyMaterial(got, want int) *AppError {
	return &AppError{
		Code: ErrCodeInvalidKeyMaterial, Message: fmt.Sprintf("Key must be %d bytes, got %d.", want, got),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"length": got, "expected": want},
	}
}

// InvalidIVLength reports an IV whose length is not the AES block size.
func InvalidIVLength(got, want int) *AppError {
	return &AppError{
		Code: ErrCodeInvalidIVLength, Message: fmt.Sprintf("IV must be %d bytes, got %d.", want, got),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"length": got, "expected": want},
	}
}

// MalformedCiphertext reports ciphertext that cannot be decoded or is not
// a whole number of cipher blocks.
func MalformedCiphertext(reason string) *AppError {
	return &AppError{
		Code: ErrCodeMalformedCiphertext, Message: fmt.Sprintf("Malformed ciphertext: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// BadPadding reports a PKCS#7 padding check failure after decryption.
func BadPadding() *AppError {
	return &AppError{
		Code: ErrCodeBadPadding, Message: "Decryption failed: bad padding.",
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
	}
}

// UnsupportedEncoding reports text that is not valid UTF-8.
func UnsupportedEncoding(field string) *AppError {
	return &AppError{
		Code: ErrCodeUnsupportedEncoding, Message: fmt.Sprintf("%s is not valid UTF-8.", field),
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// EntropyUnavailable reports a failure reading the secure random source.
func EntropyUnavailable(cause error) *AppError {
	return &AppError{
		Code: ErrCodeEntropyUnavailable, Message: "Secure random source unavailable.",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true, Cause: cause,
	}
}

// --- Common Error Constructors ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}

// PayloadTooLarge creates a new AppError for an oversized request body.
func PayloadTooLarge(limit int64) *AppError {
	return &AppError{
		Code: ErrCodePayloadTooLarge, Message: fmt.Sprintf("Request body exceeds %d bytes.", limit),
		HTTPStatus: http.StatusRequestEntityTooLarge, Retryable: false,
		Details: map[string]any{"limit": limit},
	}
}

// RateLimited creates a new AppError for a caller over its request budget.
func RateLimited() *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "Too many requests.",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
	}
}

// Overloaded creates a new AppError for a request that found no free
// crypto slot.
func Overloaded() *AppError {
	return &AppError{
		Code: ErrCodeOverloaded, Message: "Server is busy, try again shortly.",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
	}
}

// Wrap returns err as an *AppError. AppErrors anywhere in the chain are
// returned as-is; anything else becomes INTERNAL_ERROR.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// CodeOf returns the code of the first AppError in err's chain, or "" if
// there is none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
