package middleware

import (
	"bytes"
	"net/http"
	"time"

	"showgrounds/paddock/internal/logging"
)

const maxLoggedBody = 2048

type respLogger struct {
	http.ResponseWriter
	status int
	buf    *bytes.Buffer
}

func (l *respLogger) WriteHeader(code int) {
	l.status = code
	l.ResponseWriter.WriteHeader(code)
}

func (l *respLogger) Write(b []byte) (int, error) {
	if room := maxLoggedBody - l.buf.Len(); room > 0 {
		if len(b) > room {
			l.buf.Write(b[:room])
		} else {
			l.buf.Write(b)
		}
	}
	return l.ResponseWriter.Write(b)
}

// Logging dumps each request and the start of its response body at debug
// level. The router only mounts it when LOG_LEVEL is debug.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logging.WithRequest(RequestIDFrom(r.Context()), r.URL.Path)
		log.Debugw("→ request", "method", r.Method, "query", r.URL.RawQuery)

		lw := &respLogger{ResponseWriter: w, status: http.StatusOK, buf: &bytes.Buffer{}}

		start := time.Now()
		next.ServeHTTP(lw, r)

		log.Debugw("← response",
			"status_code", lw.status,
			"duration", time.Since(start).String(),
			"body", lw.buf.String(),
		)
	})
}
