// Package recovery turns handler panics into 500 responses and logs them
// with a stack trace.
package recovery

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"sync/atomic"

	applog "cozypocket/internal/log"
)

type Middleware struct {
	onPanic func(http.ResponseWriter, *http.Request)
	panics  int64
}

// New returns a recovery middleware. onPanic writes the error response;
// nil falls back to a plain text 500.
func New(onPanic func(http.ResponseWriter, *http.Request)) *Middleware {
	return &Middleware{onPanic: onPanic}
}

func (m *Middleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			atomic.AddInt64(&m.panics, 1)

			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Panic recovered",
				applog.FieldError, fmt.Sprint(rec),
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path,
				"stack", string(debug.Stack()))

			if m.onPanic != nil {
				m.onPanic(w, r)
				return
			}
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) Panics() int64 {
	return atomic.LoadInt64(&m.panics)
}
