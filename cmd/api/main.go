// ABOUTME: Main entry point for the knowledge API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gbbinfo-knowledge-api/api"
	"gbbinfo-knowledge-api/api/handlers"
	"gbbinfo-knowledge-api/core/curation"
	"gbbinfo-knowledge-api/core/interfaces"
	"gbbinfo-knowledge-api/core/lookup"
	"gbbinfo-knowledge-api/core/tiered"
	"gbbinfo-knowledge-api/core/translation"
	"gbbinfo-knowledge-api/infrastructure/cache/memory"
	"gbbinfo-knowledge-api/infrastructure/cache/redis"
	"gbbinfo-knowledge-api/infrastructure/cache/sqlite"
	stdhttp "gbbinfo-knowledge-api/infrastructure/http/standard"
	"gbbinfo-knowledge-api/infrastructure/llm/gemini"
	logruslogger "gbbinfo-knowledge-api/infrastructure/logger/logrus"
	"gbbinfo-knowledge-api/infrastructure/postgres"
	"gbbinfo-knowledge-api/infrastructure/search/tavily"
	"gbbinfo-knowledge-api/pkg/config"
	"gbbinfo-knowledge-api/pkg/featureflags"
)

func main() {
	// A missing .env file is fine, the environment may already be set
	_ = config.LoadDotEnv()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logruslogger.NewLogger(cfg.LogLevel)
	logger.Info("Starting knowledge API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
	})

	ctx := context.Background()
	var closers []io.Closer

	// Subject directory and the postgres durable tier share one pool
	var db *sql.DB
	if cfg.Directory.DatabaseURL != "" {
		db, err = postgres.Open(ctx, cfg.Directory.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to directory database: %v", err)
		}
		closers = append(closers, db)
	}

	local, replies := newLocalCaches(cfg.Cache.Memory)
	store, durableStats := newDurableStore(cfg, db, logger, &closers)

	httpClient := stdhttp.NewStandardHTTPClient(cfg.Search.Timeout, logger)

	deps := interfaces.Dependencies{
		Cache:      local,
		Store:      store,
		HTTPClient: httpClient,
		Logger:     logger,
	}
	cache := tiered.New(deps)

	search, err := tavily.NewClient(httpClient, tavily.Config{
		APIKey:         cfg.Search.APIKey,
		BaseURL:        cfg.Search.BaseURL,
		MaxResults:     cfg.Search.MaxResults,
		ExcludeDomains: cfg.Search.ExcludeDomains,
	})
	if err != nil {
		log.Fatalf("Failed to create search client: %v", err)
	}

	var translations *translation.Service
	if cfg.LLM.APIKey != "" {
		llm, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:   cfg.LLM.APIKey,
			Model:    cfg.LLM.Model,
			Interval: cfg.LLM.Interval,
			Timeout:  cfg.LLM.Timeout,
		}, replies, logger)
		if err != nil {
			log.Fatalf("Failed to create LLM client: %v", err)
		}
		translator := translation.NewTranslator(llm, logger)
		translations = translation.NewService(cache, translator, cfg.Translation.SourceLanguage, logger)
	} else {
		logger.Warn("GEMINI_API_KEY not set, answer translation disabled", nil)
	}

	var directory interfaces.SubjectDirectory
	if db != nil {
		directory = postgres.NewDirectory(db)
	} else {
		logger.Warn("DATABASE_URL not set, lookups by id are disabled", nil)
	}

	var recorder interfaces.EventRecorder
	if cfg.Analytics.SQLitePath != "" {
		events, err := sqlite.NewClient(cfg.Analytics.SQLitePath, logger)
		if err != nil {
			log.Fatalf("Failed to open analytics database: %v", err)
		}
		closers = append(closers, events)
		recorder = events
	}

	flags := featureflags.NewEnvManager("FEATURE_")

	lookupService := lookup.NewService(lookup.Options{
		Cache:     cache,
		Search:    search,
		Directory: directory,
		Curator: curation.NewCurator(curation.Config{
			BannedWords:      cfg.Curation.BannedWords,
			MinInformational: cfg.Curation.MinInformational,
			MaxInformational: cfg.Curation.MaxInformational,
		}),
		Translations: translations,
		Recorder:     recorder,
		Flags:        flags,
		Logger:       logger,
		Config: lookup.Config{
			QuerySuffix:        cfg.Search.QuerySuffix,
			SearchTimeout:      cfg.Search.Timeout,
			TranslationTimeout: cfg.Translation.Timeout,
			RecordTimeout:      cfg.Analytics.RecordTimeout,
		},
	})

	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
		Logger:             logger,
		AllowedOrigins:     cfg.Server.AllowedOrigins,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		Flags:              flags,
	})

	handlers.NewSubjectHandler(lookupService).RegisterRoutes(humaAPI)
	handlers.NewCacheStatsHandler(cache, durableStats, logger).RegisterRoutes(humaAPI)
	handlers.RegisterHealth(humaAPI, api.Version())

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Translation.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Let pending lookup events finish before closing their stores
	lookupService.Wait()

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			logger.Warn("Failed to close resource", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	logger.Info("Server stopped", nil)
}

// newLocalCaches returns the lookup cache's local tier and a separate cache
// for LLM reply memoization, which stays out of the lookup cache statistics.
func newLocalCaches(cfg config.MemoryConfig) (local, replies *memory.MemoryCache) {
	return memory.NewMemoryCache(cfg.CleanupInterval), memory.NewMemoryCache(cfg.CleanupInterval)
}

// newDurableStore builds the configured durable tier. A failing backend
// leaves the service running on the local tier alone.
func newDurableStore(cfg *config.Config, db *sql.DB, logger interfaces.Logger, closers *[]io.Closer) (interfaces.RecordStore, handlers.DurableStatsSource) {
	switch cfg.Cache.Type {
	case config.CacheTypeRedis:
		store, err := redis.NewRedisStore(cfg.Cache.Redis)
		if err != nil {
			logger.Error("Failed to connect to Redis, running without durable cache", map[string]interface{}{
				"error": err.Error(),
			})
			return nil, nil
		}
		*closers = append(*closers, store)
		logger.Info("Using Redis durable cache", map[string]interface{}{
			"address": cfg.Cache.Redis.Address,
		})
		return store, nil

	case config.CacheTypeSQLite:
		store, err := sqlite.NewClient(cfg.Cache.SQLite.Path, logger)
		if err != nil {
			logger.Error("Failed to open SQLite, running without durable cache", map[string]interface{}{
				"error": err.Error(),
			})
			return nil, nil
		}
		*closers = append(*closers, store)
		logger.Info("Using SQLite durable cache", map[string]interface{}{
			"path": cfg.Cache.SQLite.Path,
		})
		return store, store

	case config.CacheTypePostgres:
		if db == nil {
			logger.Error("Postgres cache selected without DATABASE_URL, running without durable cache", nil)
			return nil, nil
		}
		if err := postgres.Migrate(db); err != nil {
			logger.Error("Failed to migrate Postgres, running without durable cache", map[string]interface{}{
				"error": err.Error(),
			})
			return nil, nil
		}
		store := postgres.NewRecordStore(db)
		logger.Info("Using Postgres durable cache", nil)
		return store, store

	default:
		logger.Info("Using memory cache only", nil)
		return nil, nil
	}
}
