package cli

import (
	"github.com/carboncart/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func newReconcileCmd() *cobra.Command {
	var cartPath string
	var resultsPath string
	var strategy string
	var minSimilarity float64

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Merge recalculation results into a cart",
		Example: `  cartctl reconcile --cart cart.json --results results.json
  cartctl reconcile --cart cart.yaml --results results.json --strategy similarity`,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := readCart(cartPath)
			if err != nil {
				return err
			}
			results, err := readResults(resultsPath)
			if err != nil {
				return err
			}

			matcher, err := usecase.NewNameMatcher(strategy, minSimilarity)
			if err != nil {
				return err
			}

			svc := usecase.NewReconciliationService(matcher, nil, nil, usecase.ReconciliationServiceConfig{})
			return writeJSON(cmd.OutOrStdout(), svc.ReconcileCart(cmd.Context(), items, results))
		},
	}

	cmd.Flags().StringVar(&cartPath, "cart", "", "Path to a YAML or JSON list of cart items (required)")
	cmd.Flags().StringVar(&resultsPath, "results", "", "Path to recalculation results (required)")
	cmd.Flags().StringVar(&strategy, "strategy", usecase.StrategyExact, "Name matching strategy: exact, casefold or similarity")
	cmd.Flags().Float64Var(&minSimilarity, "min-similarity", 0.5, "Minimum token similarity for the similarity strategy")

	_ = cmd.MarkFlagRequired("cart")
	_ = cmd.MarkFlagRequired("results")

	return cmd
}
