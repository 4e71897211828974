package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/carboncart/backend/internal/domain"
)

const (
	// TransportKgPerKm is the road transport emission added per kilometre travelled
	TransportKgPerKm = 0.1

	// DefaultCarbonFactor applies to products without a known factor
	DefaultCarbonFactor = 1.0
)

// carbonFactors maps name fragments to kg CO2e. Checked in order, first hit wins,
// so any name containing "rice" resolves to the rice factor.
var carbonFactors = []struct {
	fragment string
	kg       float64
}{
	{"tomato", 0.5},
	{"tomatoes", 0.5},
	{"rice", 4.0},
	{"basmati", 4.0},
	{"brown rice", 3.5},
	{"potato", 0.3},
	{"potatoes", 0.3},
	{"onion", 0.4},
	{"onions", 0.4},
	{"chicken", 6.9},
	{"mutton", 39.2},
	{"milk", 3.2},
	{"curd", 3.5},
	{"paneer", 13.5},
	{"bread", 1.2},
	{"egg", 0.3},
	{"lentils", 0.9},
	{"dal", 0.9},
	{"flour", 1.1},
	{"atta", 1.1},
}

// alternatives maps name fragments to a lower-carbon swap and its saving in kg CO2e
var alternatives = []struct {
	fragment    string
	alternative string
	saving      float64
}{
	{"tomato", "Bell Peppers", 0.2},
	{"rice", "Millets", 3.0},
}

// AlternativeForName returns the suggested swap for a product name, if any
func AlternativeForName(name string) (domain.Alternative, bool) {
	lower := strings.ToLower(name)
	for _, a := range alternatives {
		if strings.Contains(lower, a.fragment) {
			return domain.Alternative{Item: name, Alternative: a.alternative, CarbonSaving: a.saving}, true
		}
	}
	return domain.Alternative{}, false
}

// CarbonFactorForName returns the per-unit footprint for a product name
func CarbonFactorForName(name string) float64 {
	lower := strings.ToLower(name)
	for _, f := range carbonFactors {
		if strings.Contains(lower, f.fragment) {
			return f.kg
		}
	}
	return DefaultCarbonFactor
}

// TransportEstimator adds road transport emissions to the item's base footprint
type TransportEstimator struct{}

// Estimate returns base + distance * TransportKgPerKm. The base is the item's
// local estimate, or the name factor when the item carries none.
func (TransportEstimator) Estimate(ctx context.Context, item domain.CartItem, distanceKm *float64) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	base := item.EstimatedCarbon
	if base <= 0 || math.IsNaN(base) {
		base = CarbonFactorForName(item.Name)
	}

	var transport float64
	if distanceKm != nil {
		transport = *distanceKm * TransportKgPerKm
	}

	return base + transport, nil
}

// Footprint rating thresholds in kg CO2e
const (
	mediumFootprintKg    = 8.0
	highFootprintKg      = 15.0
	highCarbonItemKg     = 2.0
	drivingEquivalentKg  = 10.0
	kmDrivenPerKg        = 0.4
	smartphonesPerKg     = 120.0
	lowFootprintFeedback = "Great job! Your cart has a relatively low carbon footprint."
)

// SummarizeFootprint totals the effective carbon of items and derives a rating,
// an everyday equivalent, the items worth swapping and known alternatives.
func SummarizeFootprint(items []domain.CartItem) domain.CartFootprint {
	summary := domain.CartFootprint{HighCarbonItems: []string{}, Alternatives: []domain.Alternative{}}

	for _, item := range items {
		carbon := item.EffectiveCarbon()
		summary.TotalCarbon += carbon
		if carbon > highCarbonItemKg {
			summary.HighCarbonItems = append(summary.HighCarbonItems, item.Name)
		}
		if alt, ok := AlternativeForName(item.Name); ok {
			summary.Alternatives = append(summary.Alternatives, alt)
		}
	}

	switch {
	case summary.TotalCarbon > highFootprintKg:
		summary.Rating = domain.RatingHigh
	case summary.TotalCarbon > mediumFootprintKg:
		summary.Rating = domain.RatingMedium
	default:
		summary.Rating = domain.RatingLow
	}

	if summary.TotalCarbon > drivingEquivalentKg {
		summary.Equivalent = fmt.Sprintf("Equivalent to driving %.1f km by car", summary.TotalCarbon*kmDrivenPerKg)
	} else {
		summary.Equivalent = fmt.Sprintf("Equivalent to charging %d smartphones", int(math.Round(summary.TotalCarbon*smartphonesPerKg)))
	}

	if len(summary.HighCarbonItems) > 0 {
		summary.Suggestion = fmt.Sprintf("Try switching %s for lower-carbon alternatives", strings.Join(summary.HighCarbonItems, ", "))
	} else {
		summary.Suggestion = lowFootprintFeedback
	}

	return summary
}
