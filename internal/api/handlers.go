// Package api exposes the admin surface: login, health, cache inspection and
// settings reload. All page traffic falls through to the proxy handler.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/AnimeLoL/SeoArr/internal/auth"
	"github.com/AnimeLoL/SeoArr/internal/cache"
	"github.com/AnimeLoL/SeoArr/internal/settings"
)

// Handler holds dependencies for all API handlers
type Handler struct {
	cache    cache.Cache
	settings *settings.Manager
	logger   *slog.Logger
	started  time.Time
}

func NewHandler(store cache.Cache, mgr *settings.Manager, logger *slog.Logger) *Handler {
	return &Handler{
		cache:    store,
		settings: mgr,
		logger:   logger.With("component", "api"),
		started:  time.Now(),
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// HealthCheck handles GET /api/v1/health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"uptime": time.Since(h.started).Truncate(time.Second).String(),
	})
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	hash := h.settings.Get().Site.AdminPasswordHash
	if hash == "" {
		respondError(w, http.StatusForbidden, "admin login is not configured")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		h.logger.Warn("failed admin login attempt", "remote", r.RemoteAddr)
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken("admin")
	if err != nil {
		h.logger.Error("token generation failed", "error", err)
		respondError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// CacheStats handles GET /api/v1/cache/stats
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.cache.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "cache stats unavailable")
		return
	}

	backend := "memory"
	if _, ok := h.cache.(*cache.RedisCache); ok {
		backend = "redis"
	}
	respondJSON(w, http.StatusOK, struct {
		cache.Stats
		Backend string `json:"backend"`
	}{stats, backend})
}

// ClearCache handles DELETE /api/v1/cache
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.Clear(r.Context()); err != nil {
		h.logger.Error("cache clear failed", "error", err)
		respondError(w, http.StatusInternalServerError, "cache clear failed")
		return
	}
	h.logger.Info("cache cleared")
	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// ReloadSettings handles POST /api/v1/settings/reload
func (h *Handler) ReloadSettings(w http.ResponseWriter, r *http.Request) {
	if err := h.settings.Load(r.Context()); err != nil {
		h.logger.Error("settings reload failed", "error", err)
		respondError(w, http.StatusInternalServerError, "settings reload failed")
		return
	}
	h.logger.Info("settings reloaded")
	respondJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

// GetSettings handles GET /api/v1/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s := h.settings.Get()
	// The password hash never leaves the server.
	s.Site.AdminPasswordHash = ""
	respondJSON(w, http.StatusOK, s)
}
