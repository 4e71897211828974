package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/carboncart/backend/internal/domain"
)

// PlatformAggregator resolves a product id list and aggregates it per platform
type PlatformAggregator struct {
	products domain.ProductRepository
}

// NewPlatformAggregator creates an aggregator backed by a product repository
func NewPlatformAggregator(products domain.ProductRepository) *PlatformAggregator {
	return &PlatformAggregator{products: products}
}

// Resolve fetches the products for ids in a single batched lookup and returns
// them in requested order. It fails with ErrValidation for an empty id list
// and ErrNotFound when no product resolves.
func (a *PlatformAggregator) Resolve(ctx context.Context, ids []domain.ProductID) ([]domain.Product, error) {
	requested := normalizeIDs(ids)
	if len(requested) == 0 {
		return nil, fmt.Errorf("%w: please provide an array of product IDs", domain.ErrValidation)
	}

	products, err := a.products.FindByIDs(ctx, requested)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: ids %s", domain.ErrNotFound, strings.Join(requested, ","))
	}

	return orderByRequest(products, requested), nil
}

// AggregatePlatforms builds one metric per platform that sells at least one
// of products. Platforms appear in order of first appearance.
func AggregatePlatforms(products []domain.Product) []domain.PlatformMetric {
	total := len(products)
	metrics := make([]domain.PlatformMetric, 0)

	for _, platform := range platformUnion(products) {
		metric := domain.PlatformMetric{
			Platform:       platform,
			ProductDetails: make([]domain.ProductDetail, 0, total),
		}

		found := 0
		for i := range products {
			offer, ok := products[i].Offer(platform)
			if !ok {
				continue
			}
			found++
			metric.TotalPrice += offer.Price
			metric.TotalCarbonFootprint += offer.CarbonFootprint.Total
			metric.ProductDetails = append(metric.ProductDetails, domain.ProductDetail{
				ProductID:       products[i].ID,
				Name:            products[i].Name,
				Price:           offer.Price,
				CarbonFootprint: offer.CarbonFootprint.Total,
				Link:            offer.Link,
			})
		}

		switch {
		case found == total:
			metric.Availability = domain.AvailabilityAll
			metric.AverageCarbonFootprint = metric.TotalCarbonFootprint / float64(total)
		case found > 0:
			metric.Availability = domain.AvailabilityPartial
			metric.AverageCarbonFootprint = metric.TotalCarbonFootprint / float64(found)
			metric.ProductsFound = found
			metric.TotalProducts = total
		default:
			continue
		}

		metrics = append(metrics, metric)
	}

	return metrics
}

// platformUnion lists every platform across products, first appearance first
func platformUnion(products []domain.Product) []string {
	seen := make(map[string]struct{})
	var platforms []string
	for _, p := range products {
		for _, pd := range p.PlatformData {
			if _, ok := seen[pd.Platform]; ok {
				continue
			}
			seen[pd.Platform] = struct{}{}
			platforms = append(platforms, pd.Platform)
		}
	}
	return platforms
}

// normalizeIDs trims ids and drops blanks and duplicates, keeping first occurrence
func normalizeIDs(ids []domain.ProductID) []domain.ProductID {
	seen := make(map[domain.ProductID]struct{}, len(ids))
	out := make([]domain.ProductID, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// orderByRequest sorts products by the position of their id in requested and
// drops repeated products a repository may have returned.
func orderByRequest(products []domain.Product, requested []domain.ProductID) []domain.Product {
	byID := make(map[domain.ProductID]domain.Product, len(products))
	for _, p := range products {
		if _, dup := byID[p.ID]; !dup {
			byID[p.ID] = p
		}
	}

	ordered := make([]domain.Product, 0, len(byID))
	for _, id := range requested {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
			delete(byID, id)
		}
	}
	return ordered
}
