// Package errors provides the typed error model for cryptlib.
//
// Every failure surfaced by the key-material, cipher and envelope layers is
// an *AppError carrying a machine-readable ErrorCode. Callers branch on the
// code, either with CodeOf or with the sentinel values:
//
//	if errors.Is(err, apperrors.ErrBadPadding) { ... }
//
// BAD_PADDING and MALFORMED_CIPHERTEXT are reported separately. CBC
// ciphertext carries no MAC, so exposing the difference to remote callers
// is a padding oracle; hosts that face untrusted input should collapse
// them before responding.
package errors
