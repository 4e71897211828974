package cli

import (
	"github.com/carboncart/backend/internal/infrastructure/catalog"
	"github.com/carboncart/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func newOptimizeCmd() *cobra.Command {
	var catalogPath string
	var ids []string

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Rank platforms for a basket of catalogue products",
		Example: `  cartctl optimize --catalog products.yaml --ids p1,p2,p3
  cartctl optimize --catalog offers.parquet --ids p1 --ids p2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := catalog.Load(catalogPath)
			if err != nil {
				return err
			}

			svc := usecase.NewOptimizationService(catalog.NewMemoryRepository(products), nil, nil, usecase.OptimizationServiceConfig{})
			report, err := svc.OptimizeCart(cmd.Context(), ids)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Path to a YAML, JSON or Parquet product catalogue (required)")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Product ids to compare")

	_ = cmd.MarkFlagRequired("catalog")

	return cmd
}
