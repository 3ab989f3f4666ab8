// Package middleware contains HTTP middleware functions.
//
// WHAT IS MIDDLEWARE?
// A function that wraps an http.Handler to add cross-cutting behaviour
// without touching the handler itself:
//
//	func MyMiddleware(next http.Handler) http.Handler {
//	    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
//	        // before
//	        next.ServeHTTP(w, r)
//	        // after
//	    })
//	}
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/mini-diary/internal/metrics"
)

// responseWriter wraps http.ResponseWriter to capture the status code and
// the number of body bytes written.
//
// WHY WRAP?
// http.ResponseWriter has no getter for the status a handler chose. Embedding
// the original writer and overriding WriteHeader/Write lets us see both values
// on their way through, while every other method is promoted unchanged.
type responseWriter struct {
	http.ResponseWriter       // embedded: Header() and friends pass straight through
	statusCode          int   // first status the handler sent
	written             int64 // body bytes
	wroteHeader         bool  // a later WriteHeader must not overwrite statusCode
}

// WriteHeader records only the first call. net/http ignores (and warns about)
// superfluous WriteHeader calls, so the first status is what the client got.
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

// Write counts body bytes. A Write without WriteHeader means an implicit 200.
func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer, so
// Flush and deadline control still work through the wrapper.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Logger returns middleware that logs each request with slog and records its
// latency under the matched chi route pattern.
//
// Each log line includes: method, path, route, status, duration, bytes and
// the request id set by chi's RequestID middleware.
//
// LOG LEVELS BY STATUS:
//
//	5xx → Error  (our fault, someone should look)
//	4xx → Warn   (client sent something we rejected)
//	else → Info
//
// WHY LogAttrs?
// LogAttrs takes typed slog.Attr values directly, which skips the key/value
// pairing that logger.Info("msg", "k", v) has to do. The output is the same.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			wrapped := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK, // default if WriteHeader is never called
			}

			next.ServeHTTP(wrapped, r)

			elapsed := time.Since(start)

			// ROUTE vs PATH:
			// path is the concrete URL (/api/diaries/cq8...); route is the chi
			// pattern (/api/diaries/{id}). Metrics label by route so ids do not
			// explode the label set. The pattern is only known after routing
			// has run, hence after next.ServeHTTP.
			var route string
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				route = rctx.RoutePattern()
			}
			metrics.ObserveHTTP(r.Method, route, wrapped.statusCode, elapsed)

			level := slog.LevelInfo
			switch {
			case wrapped.statusCode >= 500:
				level = slog.LevelError
			case wrapped.statusCode >= 400:
				level = slog.LevelWarn
			}

			logger.LogAttrs(r.Context(), level, "request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("route", route),
				slog.Int("status", wrapped.statusCode),
				slog.Duration("duration", elapsed),
				slog.Int64("bytes", wrapped.written),
				slog.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}
