package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/2beens/notesbox/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

type errorRenderer interface {
	RenderError(w http.ResponseWriter, statusCode int, message string)
}

// PanicRecovery is the last error boundary: a panicking handler gets the generic error page
func PanicRecovery(metricsManager *metrics.Manager, pages errorRenderer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(respWriter http.ResponseWriter, req *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					log.Errorf("http: panic serving %s: %v\n%s", req.URL.Path, r, debug.Stack())
					if metricsManager != nil {
						metricsManager.CounterHandleRequestPanic.Inc()
					}
					if pages != nil {
						pages.RenderError(respWriter, http.StatusInternalServerError, fmt.Sprint(r))
					} else {
						http.Error(respWriter, "internal server error", http.StatusInternalServerError)
					}
				}
			}()

			next.ServeHTTP(respWriter, req)
		})
	}
}
