package usecase

import (
	"fmt"
	"sort"

	"github.com/carboncart/backend/internal/domain"
)

// RankPlatforms min-max normalizes price and carbon totals across metrics and
// orders platforms by the mean of both scores (lower is better). Sorts are
// stable, so ties keep the input order.
func RankPlatforms(metrics []domain.PlatformMetric) (*domain.PlatformComparison, error) {
	if len(metrics) == 0 {
		return nil, fmt.Errorf("%w: platform list is empty", domain.ErrNoPlatforms)
	}

	minPrice, maxPrice := metrics[0].TotalPrice, metrics[0].TotalPrice
	minCarbon, maxCarbon := metrics[0].TotalCarbonFootprint, metrics[0].TotalCarbonFootprint
	for _, m := range metrics[1:] {
		minPrice = min(minPrice, m.TotalPrice)
		maxPrice = max(maxPrice, m.TotalPrice)
		minCarbon = min(minCarbon, m.TotalCarbonFootprint)
		maxCarbon = max(maxCarbon, m.TotalCarbonFootprint)
	}

	ranked := make([]domain.RankedPlatform, len(metrics))
	for i, m := range metrics {
		priceScore := minMaxScore(m.TotalPrice, minPrice, maxPrice)
		carbonScore := minMaxScore(m.TotalCarbonFootprint, minCarbon, maxCarbon)
		ranked[i] = domain.RankedPlatform{
			PlatformMetric: m,
			PriceScore:     priceScore,
			CarbonScore:    carbonScore,
			OverallScore:   (priceScore + carbonScore) / 2,
		}
	}

	byCarbon := sortedCopy(ranked, func(a, b domain.RankedPlatform) bool {
		return a.TotalCarbonFootprint < b.TotalCarbonFootprint
	})
	byPrice := sortedCopy(ranked, func(a, b domain.RankedPlatform) bool {
		return a.TotalPrice < b.TotalPrice
	})
	byOverall := sortedCopy(ranked, func(a, b domain.RankedPlatform) bool {
		return a.OverallScore < b.OverallScore
	})

	return &domain.PlatformComparison{
		BestOverall:           &byOverall[0],
		LowestCarbonFootprint: &byCarbon[0],
		LowestPrice:           &byPrice[0],
		AllPlatforms:          byOverall,
	}, nil
}

// minMaxScore rescales v into [0,1]; a zero range scores 0
func minMaxScore(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

func sortedCopy(in []domain.RankedPlatform, less func(a, b domain.RankedPlatform) bool) []domain.RankedPlatform {
	out := make([]domain.RankedPlatform, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}
