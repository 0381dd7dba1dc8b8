package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/bookrec/internal/config"
	"github.com/kailas-cloud/bookrec/internal/lexicon"
	logpkg "github.com/kailas-cloud/bookrec/internal/logger"
	"github.com/kailas-cloud/bookrec/internal/metrics"
	"github.com/kailas-cloud/bookrec/internal/repository/corpus"
	"github.com/kailas-cloud/bookrec/internal/repository/reccache"
	chiTransport "github.com/kailas-cloud/bookrec/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/bookrec/internal/transport/openai"
	"github.com/kailas-cloud/bookrec/internal/usecase/enhance"
	"github.com/kailas-cloud/bookrec/internal/usecase/extract"
	healthuc "github.com/kailas-cloud/bookrec/internal/usecase/health"
	"github.com/kailas-cloud/bookrec/internal/usecase/rank"
	"github.com/kailas-cloud/bookrec/internal/usecase/recommend"
	"github.com/kailas-cloud/bookrec/internal/version"
)

// rankingEngine is what both scoring drivers provide to the pipeline.
type rankingEngine interface {
	recommend.Ranker
	Ready() bool
	Version() string
	Size() int
}

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting bookrec API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("corpus_driver", cfg.Corpus.Driver),
		zap.String("scoring_driver", cfg.Scoring.Driver),
		zap.String("cache_driver", cfg.Cache.Driver),
	)

	// Register recommendation metrics explicitly (no init())
	metrics.RegisterRecommendationMetrics()

	lex, err := lexicon.Load(cfg.Lexicon.Path)
	if err != nil {
		logger.Fatal("Failed to load lexicon", zap.Error(err))
	}

	// Load the book catalog based on driver
	ctx := context.Background()
	snapshot, closeCorpus, err := loadCorpus(ctx, cfg.Corpus)
	if err != nil {
		logger.Fatal("Failed to load corpus", zap.Error(err))
	}
	defer closeCorpus()
	logger.Info("Corpus loaded",
		zap.String("version", snapshot.Version()),
		zap.Int("books", snapshot.Len()),
	)

	// Build the scoring engine based on driver
	engine, backendChecker, err := buildEngine(cfg.Scoring, lex, snapshot, logger)
	if err != nil {
		logger.Fatal("Failed to build scoring engine", zap.Error(err))
	}
	metrics.CorpusBooksIndexed.Set(float64(engine.Size()))

	// Build the recommendation cache based on driver
	cache, cachePinger, closeCache, err := buildCache(cfg.Cache, logger)
	if err != nil {
		logger.Fatal("Failed to build cache", zap.Error(err))
	}
	defer closeCache()

	recommender := recommend.New(
		extract.New(lex, nil),
		engine,
		enhance.New(),
		cache,
		logger,
		recommend.WithTimeout(time.Duration(cfg.Scoring.TimeoutSec)*time.Second),
	)

	healthSvc := healthuc.New(engine, backendChecker, cachePinger)

	server := chiTransport.NewServer(recommender, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// loadCorpus reads the catalog from the configured source. The returned
// closer releases the sqlite handle; for csv it is a no-op.
func loadCorpus(ctx context.Context, cfg config.CorpusConfig) (corpus.Snapshot, func(), error) {
	switch cfg.Driver {
	case "csv":
		snap, err := corpus.NewCSVProvider(cfg.Path).Load(ctx)
		if err != nil {
			return corpus.Snapshot{}, nil, fmt.Errorf("load csv corpus: %w", err)
		}
		return snap, func() {}, nil
	case "sqlite":
		provider, err := corpus.NewSQLiteProvider(cfg.Path)
		if err != nil {
			return corpus.Snapshot{}, nil, fmt.Errorf("open sqlite corpus: %w", err)
		}
		snap, err := provider.Load(ctx)
		if err != nil {
			provider.Close()
			return corpus.Snapshot{}, nil, fmt.Errorf("load sqlite corpus: %w", err)
		}
		return snap, func() { provider.Close() }, nil
	default:
		return corpus.Snapshot{}, nil, fmt.Errorf("unknown corpus driver %q", cfg.Driver)
	}
}

// buildEngine assembles the scoring engine. The embedding driver also
// exposes a backend health checker; the local tfidf driver has none.
func buildEngine(
	cfg config.ScoringConfig, lex *lexicon.Lexicon, snapshot corpus.Snapshot, logger *zap.Logger,
) (rankingEngine, healthuc.BackendChecker, error) {
	rankCfg := rank.Config{
		MaxFeatures:   cfg.MaxFeatures,
		MinSimilarity: cfg.MinSimilarity,
	}

	switch cfg.Driver {
	case "tfidf":
		engine := rank.NewEngine(lex, rankCfg)
		engine.Reload(snapshot)
		return engine, nil, nil
	case "embedding":
		embedder := openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.Provider.APIKey,
			BaseURL:    cfg.Provider.BaseURL,
			Model:      cfg.Provider.Model,
			Dimensions: cfg.Provider.Dimensions,
			Logger:     logger,
		})
		engine := rank.NewEmbeddingEngine(embedder, rankCfg)
		if err := engine.Reload(snapshot); err != nil {
			return nil, nil, fmt.Errorf("install corpus: %w", err)
		}
		return engine, embedder, nil
	default:
		return nil, nil, fmt.Errorf("unknown scoring driver %q", cfg.Driver)
	}
}

// buildCache assembles the recommendation cache based on driver.
func buildCache(
	cfg config.CacheConfig, logger *zap.Logger,
) (recommend.Cache, healthuc.CachePinger, func(), error) {
	ttl := time.Duration(cfg.TTLSec) * time.Second

	switch cfg.Driver {
	case "memory":
		cache := reccache.NewMemoryCache(ttl, cfg.MaxEntries,
			reccache.WithCacheCounter(metrics.RecommendationCacheTotal))
		return cache, nil, func() {}, nil
	case "redis":
		cache, err := reccache.NewRedisCache(reccache.RedisConfig{
			Addrs:     cfg.Addrs,
			Password:  cfg.Password,
			KeyPrefix: cfg.KeyPrefix + "rec_cache:",
			TTL:       ttl,
		}, metrics.RecommendationCacheTotal, logger)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("create redis cache: %w", err)
		}
		return cache, cache, func() { cache.Close() }, nil
	default:
		return nil, nil, nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]any{
						"success": false,
						"error":   "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
