package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kbukum/cryptlib/logger"
	"github.com/kbukum/cryptlib/validation"
)

// HeaderRequestID carries the request ID on requests and responses.
const HeaderRequestID = "X-Request-Id"

// RequestID ensures every request carries a UUID request ID. A caller's ID
// is kept when it is a valid UUID and replaced otherwise, so arbitrary
// header text never reaches the logs.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderRequestID)
			if !validation.IsUUID(id) {
				id = uuid.New().String()
				r.Header.Set(HeaderRequestID, id)
			}
			w.Header().Set(HeaderRequestID, id)
			next.ServeHTTP(w, r.WithContext(logger.ContextWithRequestID(r.Context(), id)))
		})
	}
}
