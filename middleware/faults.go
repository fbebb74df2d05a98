package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/upb/tenant-services/internal/observability"
	"github.com/upb/tenant-services/utils"
	"go.uber.org/zap"
)

// UnmatchedRoute is the endpoint label for requests no route matched.
const UnmatchedRoute = "unmatched"

// FaultResponder writes the response for a fault that escaped a handler.
type FaultResponder func(w http.ResponseWriter, r *http.Request, description string)

// TextFaultResponder answers with the fault description as plain text.
func TextFaultResponder(w http.ResponseWriter, _ *http.Request, description string) {
	http.Error(w, description, http.StatusInternalServerError)
}

// JSONFaultResponder answers with {"error": description}.
func JSONFaultResponder(w http.ResponseWriter, _ *http.Request, description string) {
	_ = utils.WriteInternalServerError(w, description)
}

// ClassifyFault maps a recovered panic value onto the closed fault set and
// returns its textual description.
func ClassifyFault(rec interface{}) (observability.FaultKind, string) {
	err, ok := rec.(error)
	if !ok {
		return observability.FaultPanic, fmt.Sprint(rec)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return observability.FaultTimeout, err.Error()
	case errors.Is(err, context.Canceled):
		return observability.FaultCanceled, err.Error()
	default:
		return observability.FaultError, err.Error()
	}
}

// Recover turns handler panics into a 500 written by respond.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Recover(logger *zap.Logger, respond FaultResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				kind, description := ClassifyFault(rec)
				logFault(logger, r, routeLabel(r), kind, description)
				if ww.Status() == 0 {
					respond(ww, r, description)
				}
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// routeLabel returns the matched chi route pattern, keeping the endpoint
// label bounded by the route table.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return UnmatchedRoute
}

func logFault(logger *zap.Logger, r *http.Request, endpoint string, kind observability.FaultKind, description string) {
	logger.Error("unhandled fault",
		zap.String("request_id", GetRequestIDFromContext(r.Context())),
		zap.String("method", r.Method),
		zap.String("endpoint", endpoint),
		zap.String("fault_kind", string(kind)),
		zap.String("fault", description),
		zap.Stack("stack"))
}
