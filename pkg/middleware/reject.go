package middleware

import (
	"net/http"

	apperrors "loftalgerie/pkg/errors"
	httputil "loftalgerie/pkg/http"
)

var (
	errAuthenticationRequired = apperrors.Unauthorized("Authentication required")
	errBadSignature           = apperrors.Unauthorized("Unauthorized")
	errRateLimited            = apperrors.RateLimited()
	errUnsupportedMediaType   = apperrors.UnsupportedMediaType(jsonMediaType)
	errRequestTimeout         = apperrors.Timeout("Request timeout")
)

// reject renders a middleware refusal with the same body shape the handlers use.
func reject(w http.ResponseWriter, err *apperrors.AppError) {
	_ = httputil.WriteError(w, err)
}
