package events

import (
	"context"

	"github.com/carboncart/backend/internal/domain"
)

// Publisher publishes cart events through a Producer
type Publisher struct {
	producer *Producer
}

// NewPublisher creates a new event publisher
func NewPublisher(producer *Producer) *Publisher {
	return &Publisher{producer: producer}
}

// PublishCartOptimized publishes a cart.optimized event
func (p *Publisher) PublishCartOptimized(ctx context.Context, event *domain.CartOptimizedEvent) error {
	return p.producer.PublishEvent(ctx, "cart-"+event.EventID, event)
}

// PublishCartReconciled publishes a cart.reconciled event
func (p *Publisher) PublishCartReconciled(ctx context.Context, event *domain.CartReconciledEvent) error {
	return p.producer.PublishEvent(ctx, "cart-"+event.EventID, event)
}

// NoopPublisher discards events
type NoopPublisher struct{}

// PublishCartOptimized implements domain.EventPublisher
func (NoopPublisher) PublishCartOptimized(ctx context.Context, event *domain.CartOptimizedEvent) error {
	return nil
}

// PublishCartReconciled implements domain.EventPublisher
func (NoopPublisher) PublishCartReconciled(ctx context.Context, event *domain.CartReconciledEvent) error {
	return nil
}
