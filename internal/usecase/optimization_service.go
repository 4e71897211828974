package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/carboncart/backend/internal/domain"
	"github.com/carboncart/backend/internal/util"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// OptimizationServiceConfig holds configuration for the optimization service
type OptimizationServiceConfig struct {
	CacheTTL time.Duration
}

// OptimizationService compares a cart of catalogue products across platforms
type OptimizationService struct {
	products   domain.ProductRepository
	aggregator *PlatformAggregator
	cache      domain.CacheRepository
	events     domain.EventPublisher
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewOptimizationService creates a new optimization service.
// cache and events may be nil.
func NewOptimizationService(
	products domain.ProductRepository,
	cache domain.CacheRepository,
	events domain.EventPublisher,
	config OptimizationServiceConfig,
) *OptimizationService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	return &OptimizationService{
		products:   products,
		aggregator: NewPlatformAggregator(products),
		cache:      cache,
		events:     events,
		cacheTTL:   cacheTTL,
		logger:     util.Named("optimization"),
	}
}

// OptimizeCart resolves ids, aggregates them per platform and ranks the platforms.
// Flow: check cache -> resolve -> aggregate -> rank -> cache -> publish
func (s *OptimizationService) OptimizeCart(ctx context.Context, ids []domain.ProductID) (*domain.OptimizationReport, error) {
	ctx, span := util.StartSpan(ctx, "OptimizationService.OptimizeCart")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OptimizationLatency.Observe(time.Since(start).Seconds())
	}()

	requested := normalizeIDs(ids)
	if len(requested) == 0 {
		util.OptimizationsTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: please provide an array of product IDs", domain.ErrValidation)
	}
	span.SetAttributes(attribute.Int("cart.requested", len(requested)))

	// keys carry the catalogue revision so a Save retires older reports
	cacheKey := ""
	if s.cache != nil {
		revision, err := s.products.Revision(ctx)
		if err != nil {
			s.logger.Warn("catalogue revision unavailable, skipping cache", zap.Error(err))
		} else {
			cacheKey = optimizationCacheKey(revision, requested)
		}
	}

	if cacheKey != "" {
		if report, err := s.getFromCache(ctx, cacheKey); err == nil {
			util.CacheLookupsTotal.WithLabelValues("hit").Inc()
			util.OptimizationsTotal.WithLabelValues("cached").Inc()
			return report, nil
		}
		util.CacheLookupsTotal.WithLabelValues("miss").Inc()
	}

	products, err := s.aggregator.Resolve(ctx, requested)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, domain.ErrNotFound) {
			util.OptimizationsTotal.WithLabelValues("not_found").Inc()
		} else {
			util.OptimizationsTotal.WithLabelValues("error").Inc()
		}
		return nil, err
	}

	report := &domain.OptimizationReport{
		CartSummary: summarizeProducts(products),
		PlatformComparison: domain.PlatformComparison{
			AllPlatforms: []domain.RankedPlatform{},
		},
	}

	comparison, err := RankPlatforms(AggregatePlatforms(products))
	switch {
	case err == nil:
		report.PlatformComparison = *comparison
	case errors.Is(err, domain.ErrNoPlatforms):
		s.logger.Info("resolved products have no platform offers", zap.Int("products", len(products)))
	default:
		util.OptimizationsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("cart.resolved", len(products)),
		attribute.Int("cart.platforms", len(report.PlatformComparison.AllPlatforms)),
	)

	if cacheKey != "" {
		if err := s.setInCache(ctx, cacheKey, report); err != nil {
			s.logger.Warn("failed to cache optimization report", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	s.publishOptimized(ctx, requested, report)
	util.OptimizationsTotal.WithLabelValues("success").Inc()

	return report, nil
}

// optimizationCacheKey is independent of id order.
// Format: "optimize:r{revision}:{sorted ids joined by comma}"
func optimizationCacheKey(revision int64, ids []domain.ProductID) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return fmt.Sprintf("optimize:r%d:%s", revision, strings.Join(sorted, ","))
}

func summarizeProducts(products []domain.Product) domain.CartSummary {
	summary := domain.CartSummary{
		TotalProducts: len(products),
		Products:      make([]domain.ProductSummary, 0, len(products)),
	}
	for _, p := range products {
		summary.Products = append(summary.Products, domain.ProductSummary{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
		})
	}
	return summary
}

// getFromCache retrieves a report from cache
func (s *OptimizationService) getFromCache(ctx context.Context, key string) (*domain.OptimizationReport, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if report, ok := value.(*domain.OptimizationReport); ok {
		return report, nil
	}

	// cache backends hand back decoded JSON
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}
	var report domain.OptimizationReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return &report, nil
}

// setInCache stores a report in cache
func (s *OptimizationService) setInCache(ctx context.Context, key string, report *domain.OptimizationReport) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, key, report, s.cacheTTL)
}

func (s *OptimizationService) publishOptimized(ctx context.Context, ids []domain.ProductID, report *domain.OptimizationReport) {
	if s.events == nil {
		return
	}

	comparison := report.PlatformComparison
	event := &domain.CartOptimizedEvent{
		BaseEvent: domain.BaseEvent{
			EventID:   uuid.NewString(),
			EventType: domain.EventTypeCartOptimized,
			Timestamp: time.Now().UTC(),
		},
		ProductIDs:    ids,
		PlatformCount: len(comparison.AllPlatforms),
	}
	if comparison.BestOverall != nil {
		event.BestOverall = comparison.BestOverall.Platform
		event.LowestPrice = comparison.LowestPrice.Platform
		event.LowestCarbon = comparison.LowestCarbonFootprint.Platform
	}

	if err := s.events.PublishCartOptimized(ctx, event); err != nil {
		util.EventsPublishFailedTotal.WithLabelValues(domain.EventTypeCartOptimized).Inc()
		s.logger.Warn("failed to publish event", zap.String("type", event.EventType), zap.Error(err))
	}
}
