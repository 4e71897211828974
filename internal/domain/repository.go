package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ProductRepository provides catalogue products.
// FindByIDs resolves all ids in one lookup; unknown ids are silently dropped
// and each product is returned at most once. Revision changes on every
// successful Save.
type ProductRepository interface {
	FindByIDs(ctx context.Context, ids []ProductID) ([]Product, error)
	FindByID(ctx context.Context, id ProductID) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	Revision(ctx context.Context) (int64, error)
}

// Recalculator enriches cart items with distance and transport emissions
type Recalculator interface {
	Recalculate(ctx context.Context, userPincode string, items []CartItem) (*RecalcResponse, error)
}

// CarbonEstimator computes the footprint of an item transported over distanceKm.
// A nil distance means the distance is unknown.
type CarbonEstimator interface {
	Estimate(ctx context.Context, item CartItem, distanceKm *float64) (float64, error)
}

// PincodeLocator resolves a postal pincode to coordinates
type PincodeLocator interface {
	Locate(pincode string) (lat, lon float64, ok bool)
}

// EventPublisher publishes cart domain events
type EventPublisher interface {
	PublishCartOptimized(ctx context.Context, event *CartOptimizedEvent) error
	PublishCartReconciled(ctx context.Context, event *CartReconciledEvent) error
}
