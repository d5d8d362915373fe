package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/AnimeLoL/SeoArr/internal/auth"
)

// SetupRoutes configures the admin API and wires everything else to the page
// pipeline handler.
func SetupRoutes(handler *Handler, pages http.Handler, logger *slog.Logger) http.Handler {
	r := mux.NewRouter()

	// API v1 routes
	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	api.HandleFunc("/auth/login", handler.Login).Methods("POST")

	// Cache
	api.HandleFunc("/cache/stats", handler.CacheStats).Methods("GET")
	api.HandleFunc("/cache", handler.ClearCache).Methods("DELETE")

	// Settings
	api.HandleFunc("/settings", handler.GetSettings).Methods("GET")
	api.HandleFunc("/settings/reload", handler.ReloadSettings).Methods("POST")

	// IndexNow key file, then everything else to the page pipeline.
	r.PathPrefix("/").Handler(handler.indexNowOr(pages))

	r.Use(corsMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(auth.SessionMiddleware)

	return r
}

// indexNowOr serves /{key}.txt for search engine ownership verification and
// hands any other request to the page pipeline.
func (h *Handler) indexNowOr(pages http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := h.settings.Get().Seo.IndexNowKey
		if key != "" && r.URL.Path == "/"+key+".txt" {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.Write([]byte(key))
			return
		}
		pages.ServeHTTP(w, r)
	})
}

// corsMiddleware adds CORS headers on API responses
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs all HTTP requests with timing
func loggingMiddleware(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration", time.Since(start),
				"ua", r.UserAgent(),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
