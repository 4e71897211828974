package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/carboncart/backend/internal/domain"
	"github.com/carboncart/backend/internal/geo"
)

// LocalRecalculatorConfig holds configuration for the local recalculator
type LocalRecalculatorConfig struct {
	// GeminiKeyPresent is echoed to clients so they can tell how footprints were estimated
	GeminiKeyPresent bool
}

// LocalRecalculator computes seller distance and transport footprint in-process
type LocalRecalculator struct {
	locator          domain.PincodeLocator
	estimator        domain.CarbonEstimator
	geminiKeyPresent bool
}

// NewLocalRecalculator creates a recalculator; a nil estimator selects TransportEstimator
func NewLocalRecalculator(locator domain.PincodeLocator, estimator domain.CarbonEstimator, config LocalRecalculatorConfig) *LocalRecalculator {
	if estimator == nil {
		estimator = TransportEstimator{}
	}
	return &LocalRecalculator{
		locator:          locator,
		estimator:        estimator,
		geminiKeyPresent: config.GeminiKeyPresent,
	}
}

// Recalculate returns one result per item, in item order. Distance is only
// set when both the user and seller pincodes are known.
func (r *LocalRecalculator) Recalculate(ctx context.Context, userPincode string, items []domain.CartItem) (*domain.RecalcResponse, error) {
	pincode := strings.TrimSpace(userPincode)
	userLat, userLon, userKnown := r.locator.Locate(pincode)

	results := make([]domain.RecalcResult, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sellerPin := item.SellerPin()
		var distance *float64
		if sellerPin != "" && userKnown {
			if lat, lon, ok := r.locator.Locate(sellerPin); ok {
				distance = domain.Float(geo.Round2(geo.Haversine(userLat, userLon, lat, lon)))
			}
		}

		carbon, err := r.estimator.Estimate(ctx, item, distance)
		if err != nil {
			return nil, fmt.Errorf("failed to estimate footprint for %q: %w", item.Name, err)
		}

		original := item.Clone()
		results = append(results, domain.RecalcResult{
			Name:            item.Name,
			Original:        &original,
			DistanceKm:      distance,
			CarbonFootprint: domain.Float(carbon),
			SourcePincode:   sellerPin,
			UserPincode:     pincode,
		})
	}

	return &domain.RecalcResponse{
		Success:          true,
		UserPincode:      pincode,
		Results:          results,
		GeminiKeyPresent: r.geminiKeyPresent,
	}, nil
}
