package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	apperrors "loftalgerie/pkg/errors"
	"loftalgerie/pkg/logger"
)

// Recovery turns a handler panic into a 500 with the generic internal error
// body. The panic value and stack only go to the log.
func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				log.Error("Handler panicked",
					"request_id", RequestIDFrom(r.Context()),
					"panic", fmt.Sprint(rec),
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				reject(w, apperrors.Internal("Internal server error", fmt.Errorf("panic: %v", rec)))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
