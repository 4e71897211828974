package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/carboncart/backend/config"
	httpDelivery "github.com/carboncart/backend/internal/delivery/http"
	"github.com/carboncart/backend/internal/domain"
	"github.com/carboncart/backend/internal/geo"
	"github.com/carboncart/backend/internal/infrastructure/cache"
	"github.com/carboncart/backend/internal/infrastructure/catalog"
	"github.com/carboncart/backend/internal/infrastructure/events"
	"github.com/carboncart/backend/internal/infrastructure/gemini"
	"github.com/carboncart/backend/internal/infrastructure/recalc"
	"github.com/carboncart/backend/internal/infrastructure/store"
	"github.com/carboncart/backend/internal/usecase"
	"github.com/carboncart/backend/internal/util"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := util.InitLogger(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting CarbonCart backend",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port))

	if cfg.Tracing.Enabled {
		tp, err := util.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.Warn("Error shutting down tracer", zap.Error(err))
			}
		}()
		logger.Info("Tracing enabled", zap.String("endpoint", cfg.Tracing.JaegerEndpoint))
	}

	ctx := context.Background()

	// Initialize infrastructure dependencies
	products, closeProducts, err := buildProductRepository(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize product catalogue", zap.Error(err))
	}
	defer closeProducts()

	cacheRepo, closeCache, err := buildCache(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer closeCache()
	logger.Info("Cache initialized", zap.String("type", cfg.Cache.Type), zap.Duration("ttl", cfg.Cache.TTL))

	publisher, closeEvents := buildEventPublisher(cfg)
	defer closeEvents()

	recalculator, closeRecalc, err := buildRecalculator(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize recalculation backend", zap.Error(err))
	}
	defer closeRecalc()

	matcher, err := usecase.NewNameMatcher(cfg.Matching.Strategy, cfg.Matching.MinSimilarity)
	if err != nil {
		logger.Fatal("Invalid matching configuration", zap.Error(err))
	}
	logger.Info("Matching configured",
		zap.String("strategy", cfg.Matching.Strategy),
		zap.Float64("min_similarity", cfg.Matching.MinSimilarity))

	// Initialize usecase layer
	optimizationService := usecase.NewOptimizationService(
		products,
		cacheRepo,
		publisher,
		usecase.OptimizationServiceConfig{CacheTTL: cfg.Cache.TTL},
	)
	reconciliationService := usecase.NewReconciliationService(
		matcher,
		recalculator,
		publisher,
		usecase.ReconciliationServiceConfig{Backend: cfg.Recalc.Mode},
	)

	handler := httpDelivery.NewHandler(optimizationService, reconciliationService, products)
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

// buildProductRepository opens the configured product store and seeds it
// from the catalogue file when one is configured.
func buildProductRepository(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.ProductRepository, func(), error) {
	var seed []domain.Product
	if cfg.Catalog.Path != "" {
		loaded, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return nil, nil, err
		}
		seed = loaded
	}

	if cfg.Database.Driver == "memory" {
		logger.Info("Using in-memory catalogue", zap.Int("products", len(seed)))
		return catalog.NewMemoryRepository(seed), func() {}, nil
	}

	db, err := store.NewStore(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Warn("Error closing database", zap.Error(err))
		}
	}

	if cfg.Database.Migrate {
		if err := db.Migrate(ctx); err != nil {
			closeDB()
			return nil, nil, err
		}
	}

	for i := range seed {
		if err := db.Save(ctx, &seed[i]); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("failed to seed product %s: %w", seed[i].ID, err)
		}
	}

	logger.Info("Database connected",
		zap.String("driver", cfg.Database.Driver),
		zap.Int("seeded", len(seed)))
	return db, closeDB, nil
}

func buildCache(cfg *config.Config) (domain.CacheRepository, func(), error) {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redisCache, func() { _ = redisCache.Close() }, nil
	}

	memoryCache := cache.NewMemoryCache(0)
	return memoryCache, func() { _ = memoryCache.Close() }, nil
}

func buildEventPublisher(cfg *config.Config) (domain.EventPublisher, func()) {
	if !cfg.Kafka.Enabled {
		return events.NoopPublisher{}, func() {}
	}

	producer := events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	util.GetLogger().Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic))
	return events.NewPublisher(producer), func() { _ = producer.Close() }
}

// buildRecalculator returns the remote client, or a local recalculator using
// Gemini estimates when an API key is configured.
func buildRecalculator(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.Recalculator, func(), error) {
	if cfg.Recalc.Mode == "remote" {
		logger.Info("Using remote recalculation backend", zap.String("base_url", cfg.Recalc.BaseURL))
		return recalc.NewClient(recalc.ClientConfig{
			BaseURL:        cfg.Recalc.BaseURL,
			Timeout:        cfg.Recalc.Timeout,
			RequestsPerSec: cfg.Recalc.RequestsPerSec,
		}), func() {}, nil
	}

	pincodes, err := geo.LoadPincodeDirectory(cfg.Pincodes.Path)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("Pincode directory loaded", zap.Int("pincodes", pincodes.Len()))

	var estimator domain.CarbonEstimator = usecase.TransportEstimator{}
	closer := func() {}
	keyPresent := cfg.Gemini.APIKey != ""

	if keyPresent {
		client, err := gemini.NewClient(ctx, gemini.ClientConfig{
			APIKey:      cfg.Gemini.APIKey,
			Model:       cfg.Gemini.Model,
			Temperature: cfg.Gemini.Temperature,
		})
		if err != nil {
			return nil, nil, err
		}
		estimator = gemini.NewEstimator(client, usecase.TransportEstimator{})
		closer = func() { _ = client.Close() }
		logger.Info("Gemini estimator enabled", zap.String("model", cfg.Gemini.Model))
	} else {
		logger.Warn("Gemini API key not configured, using transport estimates")
	}

	return usecase.NewLocalRecalculator(pincodes, estimator, usecase.LocalRecalculatorConfig{
		GeminiKeyPresent: keyPresent,
	}), closer, nil
}
