package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/care-coord/internal/logger"
	"github.com/rs/zerolog"
)

// withLogging writes one access log entry per request. Server errors are
// logged at error level, client errors at warn level.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		start := time.Now()

		uri := r.URL.Path
		method := r.Method

		lw := &responseWriter{
			ResponseWriter: w,
		}

		next.ServeHTTP(lw, r)

		duration := time.Since(start)

		status := lw.status
		if status == 0 {
			status = http.StatusOK
		}

		log.WithLevel(accessLogLevel(status)).
			Str("uri", uri).
			Str("method", method).
			Str("remote_ip", r.RemoteAddr).
			Int("status", status).
			Dur("duration", duration).
			Int("size", lw.size).
			Send()
	})
}

func accessLogLevel(status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
