package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/rs/zerolog/log"

	"github.com/iho/ledgerlogic/internal/infrastructure/metrics"
)

// Recovery turns a handler panic into a 500 response. A panic after the
// handler has started writing is logged but the partial response is kept.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func Recovery(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)

			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(v)
				}

				route := routePattern(r)
				log.Ctx(r.Context()).Error().
					Interface("panic", v).
					Bytes("stack", debug.Stack()).
					Str("route", route).
					Msg("panic recovered")

				if m != nil {
					m.HTTPPanics.WithLabelValues(route).Inc()
				}

				if !rec.wroteHeader {
					writeError(rec, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
