package console

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/taskdesk/internal/platform/logger"
)

// traceLogger puts a request-scoped logger carrying the chi request ID on
// the context. It must run after middleware.RequestID.
func traceLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := base.With(slog.String("trace_id", middleware.GetReqID(r.Context())))

			log.DebugContext(r.Context(), "request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(logger.WithLogger(r.Context(), log)))
		})
	}
}
