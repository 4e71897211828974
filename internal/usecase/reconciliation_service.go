package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/carboncart/backend/internal/domain"
	"github.com/carboncart/backend/internal/util"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ReconcileOutcome is a reconciled cart with its footprint summary
type ReconcileOutcome struct {
	Items     []domain.CartItem    `json:"items"`
	Footprint domain.CartFootprint `json:"footprint"`
	Stats     ReconcileStats       `json:"stats"`
}

// RefreshOutcome is the result of recalculating and reconciling a cart
type RefreshOutcome struct {
	ReconcileOutcome
	Results          []domain.RecalcResult `json:"results"`
	UserPincode      string                `json:"userPincode"`
	GeminiKeyPresent bool                  `json:"gemini_key_present"`
}

// ReconciliationService applies backend recalculations to scraped carts
type ReconciliationService struct {
	reconciler   *Reconciler
	recalculator domain.Recalculator
	events       domain.EventPublisher
	backend      string
	logger       *zap.Logger
}

// ReconciliationServiceConfig holds configuration for the reconciliation service
type ReconciliationServiceConfig struct {
	// Backend labels recalculation metrics ("local" or "remote")
	Backend string
}

// NewReconciliationService creates a reconciliation service.
// recalculator and events may be nil.
func NewReconciliationService(
	matcher NameMatcher,
	recalculator domain.Recalculator,
	events domain.EventPublisher,
	config ReconciliationServiceConfig,
) *ReconciliationService {
	backend := config.Backend
	if backend == "" {
		backend = "local"
	}

	return &ReconciliationService{
		reconciler:   NewReconciler(matcher),
		recalculator: recalculator,
		events:       events,
		backend:      backend,
		logger:       util.Named("reconciliation"),
	}
}

// ReconcileCart merges results into items. A reconciliation that matches
// nothing returns the cart unchanged.
func (s *ReconciliationService) ReconcileCart(ctx context.Context, items []domain.CartItem, results []domain.RecalcResult) *ReconcileOutcome {
	ctx, span := util.StartSpan(ctx, "ReconciliationService.ReconcileCart")
	defer span.End()

	reconciled, stats := s.reconciler.Reconcile(items, results)
	footprint := SummarizeFootprint(reconciled)

	span.SetAttributes(
		attribute.Int("cart.items", len(items)),
		attribute.Int("cart.matched", stats.Matched),
		attribute.Int("recalc.malformed", stats.Malformed),
	)

	util.ReconciliationsTotal.Inc()
	util.ReconciledItemsTotal.WithLabelValues("matched").Add(float64(stats.Matched))
	util.ReconciledItemsTotal.WithLabelValues("unmatched").Add(float64(stats.Unmatched))
	if stats.Malformed > 0 {
		util.MalformedRecordsTotal.Add(float64(stats.Malformed))
		s.logger.Warn("skipped recalculation results without a name",
			zap.Int("malformed", stats.Malformed),
			zap.Error(domain.ErrMalformedRecord))
	}

	s.logger.Debug("cart reconciled",
		zap.Int("items", len(items)),
		zap.Int("results", len(results)),
		zap.Int("matched", stats.Matched))

	s.publishReconciled(ctx, len(items), stats, footprint.TotalCarbon)

	return &ReconcileOutcome{
		Items:     reconciled,
		Footprint: footprint,
		Stats:     stats,
	}
}

// Recalculate requests distance and footprint enrichment for items
func (s *ReconciliationService) Recalculate(ctx context.Context, userPincode string, items []domain.CartItem) (*domain.RecalcResponse, error) {
	ctx, span := util.StartSpan(ctx, "ReconciliationService.Recalculate")
	defer span.End()

	if s.recalculator == nil {
		return nil, fmt.Errorf("%w: no recalculation backend configured", domain.ErrRecalcUnavailable)
	}

	util.RecalculationsTotal.WithLabelValues(s.backend).Inc()
	span.SetAttributes(attribute.Int("cart.items", len(items)))

	resp, err := s.recalculator.Recalculate(ctx, userPincode, items)
	if err != nil {
		span.RecordError(err)
		s.logger.Error("recalculation failed", zap.String("backend", s.backend), zap.Error(err))
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []domain.RecalcResult{}
	}
	return resp, nil
}

// RefreshCart recalculates items for userPincode and applies the results to them
func (s *ReconciliationService) RefreshCart(ctx context.Context, userPincode string, items []domain.CartItem) (*RefreshOutcome, error) {
	resp, err := s.Recalculate(ctx, userPincode, items)
	if err != nil {
		return nil, err
	}

	outcome := s.ReconcileCart(ctx, items, resp.Results)
	return &RefreshOutcome{
		ReconcileOutcome: *outcome,
		Results:          resp.Results,
		UserPincode:      resp.UserPincode,
		GeminiKeyPresent: resp.GeminiKeyPresent,
	}, nil
}

func (s *ReconciliationService) publishReconciled(ctx context.Context, items int, stats ReconcileStats, totalCarbon float64) {
	if s.events == nil {
		return
	}

	event := &domain.CartReconciledEvent{
		BaseEvent: domain.BaseEvent{
			EventID:   uuid.NewString(),
			EventType: domain.EventTypeCartReconciled,
			Timestamp: time.Now().UTC(),
		},
		Items:       items,
		Matched:     stats.Matched,
		Malformed:   stats.Malformed,
		TotalCarbon: totalCarbon,
	}

	if err := s.events.PublishCartReconciled(ctx, event); err != nil {
		util.EventsPublishFailedTotal.WithLabelValues(domain.EventTypeCartReconciled).Inc()
		s.logger.Warn("failed to publish event", zap.String("type", event.EventType), zap.Error(err))
	}
}
