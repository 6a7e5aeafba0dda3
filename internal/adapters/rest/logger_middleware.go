package rest

import (
	"fmt"
	"net/http"
	"time"

	"six-cities/internal/contextkeys"
	"six-cities/internal/core/port"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const traceHeader = "X-Trace-ID"

// LoggerMiddleware кладёт в контекст логгер с trace_id и пишет итог каждого запроса.
// Уровень записи зависит от статуса ответа.
func LoggerMiddleware(logger port.LoggerPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(traceHeader)
			if _, err := uuid.Parse(traceID); err != nil {
				traceID = uuid.New().String()
			}

			requestLogger := logger.WithFields(port.Fields{"trace_id": traceID})
			ctx := contextkeys.ContextWithLogger(r.Context(), requestLogger)
			ctx = contextkeys.ContextWithTraceID(ctx, traceID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set(traceHeader, traceID)
			startTime := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := port.Fields{
				"http_method":   r.Method,
				"http_path":     r.URL.Path,
				"http_route":    routePattern(r),
				"status_code":   status,
				"bytes_written": ww.BytesWritten(),
				"duration_ms":   time.Since(startTime).Milliseconds(),
			}
			switch {
			case status >= http.StatusInternalServerError:
				requestLogger.Error("Request failed", fmt.Errorf("status %d", status), fields)
			case status >= http.StatusBadRequest:
				requestLogger.Warn("Request rejected", fields)
			default:
				requestLogger.Info("Request finished", fields)
			}
		})
	}
}

// routePattern - шаблон маршрута chi, например /api/v1/offers/{id}.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
