package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// deadlineWriter guards the response once RequestTimeout has answered for the
// handler. Late writes from the handler goroutine are discarded.
type deadlineWriter struct {
	http.ResponseWriter
	mu       sync.Mutex
	expired  bool
	answered bool
}

func (dw *deadlineWriter) WriteHeader(code int) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.expired || dw.answered {
		return
	}
	dw.answered = true
	dw.ResponseWriter.WriteHeader(code)
}

func (dw *deadlineWriter) Write(b []byte) (int, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if dw.expired {
		return 0, http.ErrHandlerTimeout
	}
	dw.answered = true
	return dw.ResponseWriter.Write(b)
}

// expire marks the writer dead and reports whether the handler had already
// started its response.
func (dw *deadlineWriter) expire() (answered bool) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	dw.expired = true
	return dw.answered
}

// RequestTimeout bounds each request's context. When the deadline passes
// before the handler responds the client gets a 504 and the handler's context
// is cancelled so Mongo and the lofts client abort.
func RequestTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			dw := &deadlineWriter{ResponseWriter: w}
			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(dw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				if !dw.expire() {
					reject(w, errRequestTimeout)
				}
			}
		})
	}
}
