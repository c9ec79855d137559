// Package server hosts the encryption API over HTTP using Gin. Plain
// listeners speak h2c so HTTP/2 clients work without TLS; server.tls
// switches to HTTPS, optionally requiring client certificates.
//
// # Middleware
//
// All middleware (server/middleware) wraps the Gin engine at the net/http
// level, outermost first:
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: UUID request IDs on the X-Request-Id header
//   - Tracing: OpenTelemetry server span and request metrics
//   - CORS: cross-origin resource sharing
//   - BodySizeLimit: request body cap (PAYLOAD_TOO_LARGE)
//   - RateLimit: per-client token bucket (RATE_LIMITED)
//   - RequestLogger: method, path, status and duration; never bodies
//   - ConcurrencyLimit: bulkhead over in-flight requests (OVERLOADED)
//
// # Routes
//
//   - POST /v1/encrypt: {"plaintext","passphrase","iv"?}
//   - POST /v1/decrypt: {"ciphertext","passphrase","iv"?}
//   - GET /v1/iv: a fresh random IV as 32 hex characters
//   - GET /health: cipher known-answer and entropy checks
//   - GET /version: build information with the active envelope and KDF
//
// Omitting "iv" selects random-IV mode. Failures are rendered as
//
//	{"error":{"code":"BAD_PADDING","message":"...","retryable":false}}
//
// with the HTTP status of the error code.
package server
