package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/carboncart/backend/internal/domain"
)

// MemoryRepository is a thread-safe in-memory product catalogue
type MemoryRepository struct {
	products map[domain.ProductID]domain.Product
	order    []domain.ProductID
	revision int64
	mutex    sync.RWMutex
}

// NewMemoryRepository creates a repository holding products
func NewMemoryRepository(products []domain.Product) *MemoryRepository {
	repo := &MemoryRepository{
		products: make(map[domain.ProductID]domain.Product, len(products)),
	}
	for _, p := range products {
		repo.put(p)
	}
	return repo
}

// FindByIDs returns the known products among ids, once each, in id order
func (r *MemoryRepository) FindByIDs(ctx context.Context, ids []domain.ProductID) ([]domain.Product, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	seen := make(map[domain.ProductID]struct{}, len(ids))
	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := r.products[id]; ok {
			products = append(products, cloneProduct(p))
		}
	}
	return products, nil
}

// FindByID returns one product or ErrNotFound
func (r *MemoryRepository) FindByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: product %s", domain.ErrNotFound, id)
	}
	out := cloneProduct(p)
	return &out, nil
}

// List returns every product in insertion order
func (r *MemoryRepository) List(ctx context.Context) ([]domain.Product, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	products := make([]domain.Product, 0, len(r.order))
	for _, id := range r.order {
		products = append(products, cloneProduct(r.products[id]))
	}
	return products, nil
}

// Save inserts or replaces a product
func (r *MemoryRepository) Save(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.put(cloneProduct(*product))
	r.revision++
	return nil
}

// Revision returns the number of saves since creation
func (r *MemoryRepository) Revision(ctx context.Context) (int64, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.revision, nil
}

// Size returns the number of products
func (r *MemoryRepository) Size() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.products)
}

func (r *MemoryRepository) put(p domain.Product) {
	if _, exists := r.products[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.products[p.ID] = p
}

func cloneProduct(p domain.Product) domain.Product {
	out := p
	out.PlatformData = make([]domain.PlatformData, len(p.PlatformData))
	copy(out.PlatformData, p.PlatformData)
	return out
}
