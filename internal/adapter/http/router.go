package http

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the handler routes. Everything under /v1 requires the
// bearer token; /healthz is public.
func NewRouter(h *Handler, token string, log logrus.FieldLogger) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware(log))

	// Public routes
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	// Protected routes
	api := r.PathPrefix("/v1").Subrouter()
	api.Use(AuthMiddleware(token))
	api.HandleFunc("/users/{userID}/networth", h.NetWorth).Methods(http.MethodGet)
	api.HandleFunc("/users/{userID}/snapshots", h.Snapshots).Methods(http.MethodGet)
	api.HandleFunc("/rates", h.Rates).Methods(http.MethodGet)

	return r
}

// AuthMiddleware rejects requests without "Authorization: Bearer <token>"
func AuthMiddleware(token string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs method, path, status and duration of every request
func LoggingMiddleware(log logrus.FieldLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			}).Debug("http request")
		})
	}
}
