package middleware

import (
	"net/http"
	"time"

	"clinic-portal/internal/infrastructure/metrics"

	"github.com/gorilla/mux"
)

// Metrics records every request against its route template so ids in the
// path do not explode label cardinality.
func Metrics(m *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newStatusRecorder(w)

			next.ServeHTTP(rw, r)

			route := "unmatched"
			if current := mux.CurrentRoute(r); current != nil {
				if tpl, err := current.GetPathTemplate(); err == nil {
					route = tpl
				}
			}
			m.ObserveRequest(r.Method, route, rw.status, time.Since(start).Seconds())
		})
	}
}
