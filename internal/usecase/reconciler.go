package usecase

import (
	"strings"

	"github.com/carboncart/backend/internal/domain"
)

// ReconcileStats counts the outcomes of one reconciliation
type ReconcileStats struct {
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
	Malformed int `json:"malformed"`
}

// Reconciler merges recalculation results into scraped cart items.
// It holds no state between calls and never mutates its inputs.
type Reconciler struct {
	matcher NameMatcher
}

// NewReconciler creates a reconciler; a nil matcher selects exact-then-containment matching
func NewReconciler(matcher NameMatcher) *Reconciler {
	if matcher == nil {
		matcher = ExactContainsMatcher{}
	}
	return &Reconciler{matcher: matcher}
}

// Reconcile returns a new cart of the same length and order as items, with
// every item that matches a result merged with it.
func (r *Reconciler) Reconcile(items []domain.CartItem, results []domain.RecalcResult) ([]domain.CartItem, ReconcileStats) {
	if items == nil {
		return nil, ReconcileStats{Malformed: countMalformed(results)}
	}

	candidates, malformed := buildCandidates(results)
	stats := ReconcileStats{Malformed: malformed}

	out := make([]domain.CartItem, len(items))
	for i, item := range items {
		match, ok := MatchCandidate(r.matcher, item.Name, candidates)
		if !ok {
			out[i] = item.Clone()
			stats.Unmatched++
			continue
		}
		out[i] = mergeResult(item, match)
		stats.Matched++
	}

	return out, stats
}

// buildCandidates indexes results by name in order of first appearance.
// A repeated name replaces the earlier record but keeps its position.
// Results without a usable name are skipped and counted.
func buildCandidates(results []domain.RecalcResult) ([]Candidate[*domain.RecalcResult], int) {
	candidates := make([]Candidate[*domain.RecalcResult], 0, len(results))
	positions := make(map[string]int, len(results))
	malformed := 0

	for i := range results {
		result := &results[i]
		if isMalformed(result) {
			malformed++
			continue
		}
		if pos, seen := positions[result.Name]; seen {
			candidates[pos].Value = result
			continue
		}
		positions[result.Name] = len(candidates)
		candidates = append(candidates, Candidate[*domain.RecalcResult]{Key: result.Name, Value: result})
	}

	return candidates, malformed
}

func isMalformed(result *domain.RecalcResult) bool {
	return strings.TrimSpace(result.Name) == ""
}

func countMalformed(results []domain.RecalcResult) int {
	n := 0
	for i := range results {
		if isMalformed(&results[i]) {
			n++
		}
	}
	return n
}

// mergeResult copies enrichment fields from match into a clone of item.
// Absent match fields never clear a value the item already has.
func mergeResult(item domain.CartItem, match *domain.RecalcResult) domain.CartItem {
	out := item.Clone()

	if match.DistanceKm != nil {
		out.DistanceKm = domain.Float(*match.DistanceKm)
	}
	if match.CarbonFootprint != nil {
		out.CarbonFootprint = domain.Float(*match.CarbonFootprint)
		out.EstimatedCarbon = *match.CarbonFootprint
	}
	if out.SourcePincode == "" && match.SourcePincode != "" {
		out.SourcePincode = match.SourcePincode
	}
	if out.UserPincode == "" && match.UserPincode != "" {
		out.UserPincode = match.UserPincode
	}

	return out
}
