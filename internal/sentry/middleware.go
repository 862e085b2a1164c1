package sentry

import (
	"fmt"
	"net/http"

	"github.com/getsentry/sentry-go"
)

// HTTPMiddleware captures panics in HTTP handlers and reports server
// errors to Sentry with request-scoped hubs.
func HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub := sentry.GetHubFromContext(r.Context())
		if hub == nil {
			hub = sentry.CurrentHub().Clone()
		}

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		ctx := sentry.SetHubOnContext(r.Context(), hub)

		defer func() {
			if err := recover(); err != nil {
				hub.Recover(err)
				wrapped.WriteHeader(http.StatusInternalServerError)
			}
		}()

		next.ServeHTTP(wrapped, r.WithContext(ctx))

		if wrapped.statusCode >= http.StatusInternalServerError {
			hub.CaptureMessage(fmt.Sprintf("HTTP %d on %s %s", wrapped.statusCode, r.Method, r.URL.Path))
		}
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
