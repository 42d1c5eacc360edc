package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestLogger emits one structured log line per completed request. The
// line carries the chi request ID so it can be correlated with any logs
// the handler wrote while serving.
func RequestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			recorder := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			started := time.Now()

			defer func() {
				logger.Info("request completed",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", recorder.Status()),
					zap.Int("response_bytes", recorder.BytesWritten()),
					zap.Duration("elapsed", time.Since(started)),
					zap.String("remote", r.RemoteAddr),
				)
			}()

			next.ServeHTTP(recorder, r)
		}
		return http.HandlerFunc(fn)
	}
}
