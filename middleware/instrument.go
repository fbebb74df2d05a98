package middleware

import (
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/tenant-services/internal/observability"
	"go.uber.org/zap"
)

// Instrument wraps every request in a Begin/End pair on the request metrics.
// The release runs in a defer, so the duration is observed and the in-flight
// gauge decremented exactly once on every exit path, panics included.
// A panic is additionally counted under http_request_errors_total and
// answered through respond.
func Instrument(metrics *observability.RequestMetrics, logger *zap.Logger, respond FaultResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			timer := metrics.Begin(r.Method)

			defer func() {
				rec := recover()
				endpoint := routeLabel(r)

				if rec == http.ErrAbortHandler {
					timer.End(endpoint, statusOf(ww))
					panic(rec)
				}

				if rec != nil {
					kind, description := ClassifyFault(rec)
					metrics.RecordFault(r.Method, endpoint, kind)
					logFault(logger, r, endpoint, kind, description)
					if ww.Status() == 0 {
						respond(ww, r, description)
					}
				}

				timer.End(endpoint, statusOf(ww))
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
