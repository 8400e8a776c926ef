package http

import (
	"net/http"

	"github.com/MKhiriev/care-coord/internal/utils"
	"github.com/rs/zerolog"
)

const (
	traceIDHeader = "X-Trace-ID"

	// maxTraceIDLength bounds client supplied trace ids before they reach logs.
	maxTraceIDLength = 128
)

// withTraceID attaches a request-scoped child logger carrying "trace_id" to
// the request context and echoes the id in the response header. A missing or
// oversized X-Trace-ID is replaced with a fresh UUID.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" || len(traceID) > maxTraceIDLength {
			traceID = utils.NewID()
		}

		l := h.logger.GetChildLogger()
		l.UpdateContext(func(c zerolog.Context) zerolog.Context {
			return c.Str("trace_id", traceID)
		})
		r = r.WithContext(l.WithContext(ctx))

		w.Header().Set(traceIDHeader, traceID)
		next.ServeHTTP(w, r)
	})
}
