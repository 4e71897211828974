package usecase

import (
	"testing"

	"github.com/carboncart/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile(t *testing.T) {
	r := NewReconciler(nil)

	t.Run("exact match merges enrichment", func(t *testing.T) {
		items := []domain.CartItem{{Name: "Tomatoes", EstimatedCarbon: 0.5}}
		results := []domain.RecalcResult{{Name: "Tomatoes", CarbonFootprint: domain.Float(1.2), DistanceKm: domain.Float(50)}}

		got, stats := r.Reconcile(items, results)
		require.Len(t, got, 1)
		require.NotNil(t, got[0].CarbonFootprint)
		require.NotNil(t, got[0].DistanceKm)
		assert.Equal(t, 1.2, *got[0].CarbonFootprint)
		assert.Equal(t, 50.0, *got[0].DistanceKm)
		assert.Equal(t, 1.2, got[0].EstimatedCarbon)
		assert.Equal(t, ReconcileStats{Matched: 1}, stats)
	})

	t.Run("substring match applies", func(t *testing.T) {
		items := []domain.CartItem{{Name: "Organic Brown Rice 1kg"}}
		results := []domain.RecalcResult{{Name: "Brown Rice", CarbonFootprint: domain.Float(3.5)}}

		got, _ := r.Reconcile(items, results)
		require.NotNil(t, got[0].CarbonFootprint)
		assert.Equal(t, 3.5, *got[0].CarbonFootprint)
		assert.Nil(t, got[0].DistanceKm)
	})

	t.Run("preserves length and order", func(t *testing.T) {
		items := []domain.CartItem{{Name: "Milk"}, {Name: "Bread"}, {Name: "Paneer"}}
		results := []domain.RecalcResult{{Name: "Paneer", CarbonFootprint: domain.Float(13)}, {Name: "Milk", CarbonFootprint: domain.Float(3)}}

		got, stats := r.Reconcile(items, results)
		require.Len(t, got, 3)
		for i := range items {
			assert.Equal(t, items[i].Name, got[i].Name)
		}
		assert.Nil(t, got[1].CarbonFootprint)
		assert.Equal(t, 2, stats.Matched)
		assert.Equal(t, 1, stats.Unmatched)
	})

	t.Run("no matches leaves cart unchanged", func(t *testing.T) {
		items := []domain.CartItem{{Name: "Milk", EstimatedCarbon: 3.2, DistanceKm: domain.Float(4)}}

		got, stats := r.Reconcile(items, []domain.RecalcResult{{Name: "Onions", CarbonFootprint: domain.Float(1)}})
		assert.Equal(t, items, got)
		assert.Equal(t, 1, stats.Unmatched)
	})

	t.Run("empty results", func(t *testing.T) {
		items := []domain.CartItem{{Name: "Milk"}}
		got, _ := r.Reconcile(items, nil)
		assert.Equal(t, items, got)
	})

	t.Run("nil items", func(t *testing.T) {
		got, stats := r.Reconcile(nil, []domain.RecalcResult{{Name: ""}})
		assert.Nil(t, got)
		assert.Equal(t, 1, stats.Malformed)
	})

	t.Run("exact match takes precedence over substring", func(t *testing.T) {
		items := []domain.CartItem{{Name: "Rice"}}
		results := []domain.RecalcResult{
			{Name: "Brown Rice", CarbonFootprint: domain.Float(3.5)},
			{Name: "Rice", CarbonFootprint: domain.Float(4)},
		}

		got, _ := r.Reconcile(items, results)
		assert.Equal(t, 4.0, *got[0].CarbonFootprint)
	})

	t.Run("repeated result name keeps the last record", func(t *testing.T) {
		items := []domain.CartItem{{Name: "Milk"}}
		results := []domain.RecalcResult{
			{Name: "Milk", CarbonFootprint: domain.Float(1)},
			{Name: "Milk", CarbonFootprint: domain.Float(2)},
		}

		got, _ := r.Reconcile(items, results)
		assert.Equal(t, 2.0, *got[0].CarbonFootprint)
	})

	t.Run("malformed results are skipped", func(t *testing.T) {
		items := []domain.CartItem{{Name: "Milk"}}
		results := []domain.RecalcResult{
			{Name: "", CarbonFootprint: domain.Float(9)},
			{Name: "   ", CarbonFootprint: domain.Float(9)},
			{Name: "Milk", CarbonFootprint: domain.Float(3)},
		}

		got, stats := r.Reconcile(items, results)
		assert.Equal(t, 3.0, *got[0].CarbonFootprint)
		assert.Equal(t, 2, stats.Malformed)
	})

	t.Run("absent fields do not clear existing values", func(t *testing.T) {
		items := []domain.CartItem{{Name: "Milk", DistanceKm: domain.Float(7), SourcePincode: "560001"}}
		results := []domain.RecalcResult{{Name: "Milk", SourcePincode: "110001", UserPincode: "560016"}}

		got, _ := r.Reconcile(items, results)
		require.NotNil(t, got[0].DistanceKm)
		assert.Equal(t, 7.0, *got[0].DistanceKm)
		assert.Nil(t, got[0].CarbonFootprint)
		assert.Equal(t, "560001", got[0].SourcePincode)
		assert.Equal(t, "560016", got[0].UserPincode)
	})

	t.Run("fills missing source pincode", func(t *testing.T) {
		items := []domain.CartItem{{Name: "Milk"}}
		results := []domain.RecalcResult{{Name: "Milk", SourcePincode: "110001"}}

		got, _ := r.Reconcile(items, results)
		assert.Equal(t, "110001", got[0].SourcePincode)
	})

	t.Run("does not mutate inputs", func(t *testing.T) {
		items := []domain.CartItem{{Name: "Tomatoes", EstimatedCarbon: 0.5}}
		results := []domain.RecalcResult{{Name: "Tomatoes", CarbonFootprint: domain.Float(1.2), DistanceKm: domain.Float(50)}}

		got, _ := r.Reconcile(items, results)
		*got[0].DistanceKm = 99

		assert.Nil(t, items[0].CarbonFootprint)
		assert.Equal(t, 0.5, items[0].EstimatedCarbon)
		assert.Equal(t, 50.0, *results[0].DistanceKm)
	})

	t.Run("is idempotent", func(t *testing.T) {
		items := []domain.CartItem{{Name: "Organic Brown Rice 1kg"}, {Name: "Milk"}}
		results := []domain.RecalcResult{{Name: "Brown Rice", CarbonFootprint: domain.Float(3.5), DistanceKm: domain.Float(12)}}

		once, _ := r.Reconcile(items, results)
		twice, _ := r.Reconcile(once, results)
		assert.Equal(t, once, twice)
	})

	t.Run("uses the configured matcher", func(t *testing.T) {
		folded := NewReconciler(CaseFoldMatcher{})
		items := []domain.CartItem{{Name: "organic BROWN rice"}}
		results := []domain.RecalcResult{{Name: "Brown Rice", CarbonFootprint: domain.Float(3.5)}}

		got, stats := folded.Reconcile(items, results)
		assert.Equal(t, 1, stats.Matched)
		assert.Equal(t, 3.5, *got[0].CarbonFootprint)
	})
}
