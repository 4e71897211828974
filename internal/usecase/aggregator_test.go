package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/carboncart/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductRepository is a mock implementation of domain.ProductRepository
type mockProductRepository struct {
	products    map[domain.ProductID]domain.Product
	err         error
	revision    int64
	revisionErr error
	calls       int
}

func newMockProductRepository(products ...domain.Product) *mockProductRepository {
	m := &mockProductRepository{products: make(map[domain.ProductID]domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockProductRepository) FindByIDs(ctx context.Context, ids []domain.ProductID) ([]domain.Product, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id domain.ProductID) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *mockProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockProductRepository) Save(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = *product
	m.revision++
	return nil
}

func (m *mockProductRepository) Revision(ctx context.Context) (int64, error) {
	return m.revision, m.revisionErr
}

func offer(platform string, price, carbon float64) domain.PlatformData {
	return domain.PlatformData{Platform: platform, Price: price, CarbonFootprint: domain.CarbonFootprint{Total: carbon}}
}

func scenarioProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Tomatoes", PlatformData: []domain.PlatformData{offer("X", 10, 1), offer("Y", 5, 0.5)}},
		{ID: "p2", Name: "Rice", PlatformData: []domain.PlatformData{offer("X", 20, 2)}},
	}
}

func TestAggregatePlatforms(t *testing.T) {
	t.Run("classifies full and partial availability", func(t *testing.T) {
		metrics := AggregatePlatforms(scenarioProducts())
		require.Len(t, metrics, 2)

		x, y := metrics[0], metrics[1]
		assert.Equal(t, "X", x.Platform)
		assert.Equal(t, domain.AvailabilityAll, x.Availability)
		assert.InDelta(t, 30, x.TotalPrice, 1e-9)
		assert.InDelta(t, 3, x.TotalCarbonFootprint, 1e-9)
		assert.InDelta(t, 1.5, x.AverageCarbonFootprint, 1e-9)
		assert.Zero(t, x.ProductsFound)
		assert.Len(t, x.ProductDetails, 2)

		assert.Equal(t, "Y", y.Platform)
		assert.Equal(t, domain.AvailabilityPartial, y.Availability)
		assert.InDelta(t, 5, y.TotalPrice, 1e-9)
		assert.InDelta(t, 0.5, y.TotalCarbonFootprint, 1e-9)
		assert.InDelta(t, 0.5, y.AverageCarbonFootprint, 1e-9)
		assert.Equal(t, 1, y.ProductsFound)
		assert.Equal(t, 2, y.TotalProducts)
	})

	t.Run("details follow product order", func(t *testing.T) {
		metrics := AggregatePlatforms(scenarioProducts())
		details := metrics[0].ProductDetails
		assert.Equal(t, "p1", details[0].ProductID)
		assert.Equal(t, "p2", details[1].ProductID)
		assert.Equal(t, 20.0, details[1].Price)
	})

	t.Run("products without offers", func(t *testing.T) {
		metrics := AggregatePlatforms([]domain.Product{{ID: "p1", Name: "Tomatoes"}})
		assert.Empty(t, metrics)
		assert.NotNil(t, metrics)
	})

	t.Run("no products", func(t *testing.T) {
		assert.Empty(t, AggregatePlatforms(nil))
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	repo := newMockProductRepository(scenarioProducts()...)
	agg := NewPlatformAggregator(repo)

	t.Run("returns products in requested order", func(t *testing.T) {
		got, err := agg.Resolve(ctx, []domain.ProductID{"p2", " p1 ", "p2"})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "p2", got[0].ID)
		assert.Equal(t, "p1", got[1].ID)
	})

	t.Run("drops unknown ids", func(t *testing.T) {
		got, err := agg.Resolve(ctx, []domain.ProductID{"p1", "missing"})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("rejects an empty id list", func(t *testing.T) {
		_, err := agg.Resolve(ctx, []domain.ProductID{"", "  "})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("not found when nothing resolves", func(t *testing.T) {
		_, err := agg.Resolve(ctx, []domain.ProductID{"missing"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("wraps repository errors", func(t *testing.T) {
		failing := newMockProductRepository()
		failing.err = errors.New("connection refused")

		_, err := NewPlatformAggregator(failing).Resolve(ctx, []domain.ProductID{"p1"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestNormalizeIDs(t *testing.T) {
	got := normalizeIDs([]domain.ProductID{" a", "b", "", "a", "c "})
	assert.Equal(t, []domain.ProductID{"a", "b", "c"}, got)
}
