package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/AnimeLoL/SeoArr/internal/api"
	"github.com/AnimeLoL/SeoArr/internal/cache"
	"github.com/AnimeLoL/SeoArr/internal/config"
	"github.com/AnimeLoL/SeoArr/internal/database"
	"github.com/AnimeLoL/SeoArr/internal/proxy"
	"github.com/AnimeLoL/SeoArr/internal/seo"
	"github.com/AnimeLoL/SeoArr/internal/settings"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	log.Println("Starting SeoArr pre-render server...")

	cfg := config.Load()

	logLevel := slog.LevelInfo
	if cfg.Debug {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))

	originURL, err := url.Parse(cfg.OriginURL)
	if err != nil {
		log.Fatalf("Invalid ORIGIN_URL %q: %v", cfg.OriginURL, err)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.InitSchema(db); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}
	log.Println("Database connection established")

	// Initialize stores
	movieStore := database.NewMovieStore(db)
	taxonomyStore := database.NewTaxonomyStore(db)
	settingsStore := database.NewSettingsStore(db)

	// Initialize settings manager and load from database
	settingsManager := settings.NewManager(settingsStore)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := settingsManager.Load(ctx); err != nil {
			log.Printf("Warning: Could not load settings: %v, using defaults", err)
		}
		cancel()
	}
	log.Println("Settings manager initialized")

	// Pick the cache backend: Redis when configured, in-process otherwise.
	var responseCache cache.Cache
	var memCache *cache.MemoryCache
	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer redisCache.Close()
		responseCache = redisCache
		log.Println("Using redis response cache")
	} else {
		memCache = cache.NewMemoryCache()
		responseCache = memCache
		log.Println("Using in-memory response cache")
	}

	resolver := seo.NewResolver(movieStore, taxonomyStore, settingsManager, cfg.ResolveTimeout, logger)
	pages := proxy.NewHandler(originURL, responseCache, resolver, settingsManager, cfg.OriginTimeout, cfg.CacheTTL, logger)
	apiHandler := api.NewHandler(responseCache, settingsManager, logger)
	router := api.SetupRoutes(apiHandler, pages, logger)

	// Background workers
	workerCtx, workerCancel := context.WithCancel(context.Background())
	go settingsManager.RefreshLoop(workerCtx, cfg.SettingsRefreshInterval, func(err error) {
		logger.Warn("settings refresh failed", "error", err)
	})
	if memCache != nil {
		go memCache.CleanupLoop(workerCtx, time.Minute)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Listening on %s (origin: %s)", server.Addr, cfg.OriginURL)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Stop background workers
	workerCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
