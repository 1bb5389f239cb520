package middleware

import (
	"mime"
	"net/http"

	"loftalgerie/pkg/logger"
)

const jsonMediaType = "application/json"

// ContentTypeValidation refuses write requests whose body is not JSON. Bodiless
// POSTs such as read-all and export/archive pass through.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !carriesBody(r) {
				next.ServeHTTP(w, r)
				return
			}

			mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil || mediaType != jsonMediaType {
				log.Warn("Rejected request body with unsupported content type",
					"request_id", RequestIDFrom(r.Context()),
					"content_type", r.Header.Get("Content-Type"),
					"method", r.Method,
					"path", r.URL.Path,
				)
				reject(w, errUnsupportedMediaType)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func carriesBody(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	default:
		return false
	}
}
