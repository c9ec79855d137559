package middleware

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/kbukum/cryptlib/errors"
)

// writeError renders an AppError outside Gin, matching the handlers' body.
func writeError(w http.ResponseWriter, appErr *apperrors.AppError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(appErr.ToResponse())
}
