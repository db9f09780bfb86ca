package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"opsconsole/internal/transport/http/api"
)

func Recoverer(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.WithFields(logrus.Fields{
						"panic":     rec,
						"path":      r.URL.Path,
						"requestId": GetRequestID(r.Context()),
					}).Error("panic recovered")
					api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", GetRequestID(r.Context()))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
