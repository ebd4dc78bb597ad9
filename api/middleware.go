package api

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"
	"github.com/lthibault/log"
)

// withLogger recovers handler panics into a 500 and logs every request at
// debug level.
func withLogger(l log.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t0 := time.Now()
			defer func() {
				if v := recover(); v != nil {
					w.WriteHeader(http.StatusInternalServerError)

					ll := l.With(log.F{
						"method": r.Method,
						"path":   r.URL.EscapedPath(),
						"trace":  string(debug.Stack()),
					})
					if err, ok := v.(error); ok {
						ll = ll.WithError(err)
					} else {
						ll = ll.WithField("panic", v)
					}

					ll.Error("http request panic")
				}
			}()

			next.ServeHTTP(w, r)

			l.With(log.F{
				"method":   r.Method,
				"path":     r.URL.EscapedPath(),
				"duration": time.Since(t0).Seconds(),
			}).Debug("request handled")
		})
	}
}
