package middleware

import (
	"net/http"
	"time"
)

type logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// LoggerMiddleware logs every request. Server side failures (5xx) are logged as errors
func LoggerMiddleware(l logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			defer func() {
				p := recover()
				status := rec.status
				if p != nil {
					status = http.StatusInternalServerError
				}

				log := l.Info
				if status >= http.StatusInternalServerError {
					log = l.Error
				}

				log(
					"got HTTP request",
					"method", r.Method,
					"uri", r.RequestURI,
					"status", status,
					"size", rec.size,
					"duration", time.Since(start),
				)

				if p != nil {
					panic(p)
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}
