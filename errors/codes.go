package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Key material errors
const (
	// ErrCodeInvalidKeyMaterial indicates a key that is not exactly 32 bytes.
	ErrCodeInvalidKeyMaterial ErrorCode = "INVALID_KEY_MATERIAL"
	// ErrCodeInvalidIVLength indicates an IV that is not exactly 16 bytes.
	ErrCodeInvalidIVLength ErrorCode = "INVALID_IV_LENGTH"
	// ErrCodeEntropyUnavailable indicates the secure random source failed.
	ErrCodeEntropyUnavailable ErrorCode = "ENTROPY_UNAVAILABLE"
)

// Ciphertext errors
const (
	// ErrCodeMalformedCiphertext indicates undecodable Base64 or a bad block length.
	ErrCodeMalformedCiphertext ErrorCode = "MALFORMED_CIPHERTEXT"
	// ErrCodeBadPadding indicates PKCS#7 padding failed validation on decrypt.
	ErrCodeBadPadding ErrorCode = "BAD_PADDING"
	// ErrCodeUnsupportedEncoding indicates text that is not valid UTF-8.
	ErrCodeUnsupportedEncoding ErrorCode = "UNSUPPORTED_ENCODING"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Transport errors
const (
	// ErrCodePayloadTooLarge indicates a request body over the configured limit.
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	// ErrCodeRateLimited indicates the caller exceeded the request rate.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeOverloaded indicates every crypto slot was busy.
	ErrCodeOverloaded ErrorCode = "OVERLOADED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Only load and entropy failures are worth retrying. Every other failure
// is a property of the input.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeEntropyUnavailable: true,
	ErrCodeRateLimited:        true,
	ErrCodeOverloaded:         true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
