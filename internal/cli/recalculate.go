package cli

import (
	"fmt"
	"os"

	"github.com/carboncart/backend/internal/domain"
	"github.com/carboncart/backend/internal/geo"
	"github.com/carboncart/backend/internal/infrastructure/gemini"
	"github.com/carboncart/backend/internal/infrastructure/recalc"
	"github.com/carboncart/backend/internal/usecase"
	"github.com/spf13/cobra"
)

func newRecalculateCmd() *cobra.Command {
	var cartPath string
	var pincode string
	var backendURL string
	var pincodesPath string
	var useGemini bool

	cmd := &cobra.Command{
		Use:   "recalculate",
		Short: "Compute seller distance and transport footprint for a cart",
		Example: `  # Recalculate locally with the built-in pincode table
  cartctl recalculate --cart cart.json --pincode 560001 > results.json

  # Ask a running backend instead
  cartctl recalculate --cart cart.json --pincode 560001 --backend http://localhost:8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := readCart(cartPath)
			if err != nil {
				return err
			}

			var recalculator domain.Recalculator
			if backendURL != "" {
				recalculator = recalc.NewClient(recalc.ClientConfig{BaseURL: backendURL})
			} else {
				pincodes, err := geo.LoadPincodeDirectory(pincodesPath)
				if err != nil {
					return err
				}

				var estimator domain.CarbonEstimator
				apiKey := os.Getenv("GEMINI_API_KEY")
				if useGemini && apiKey != "" {
					client, err := gemini.NewClient(cmd.Context(), gemini.ClientConfig{APIKey: apiKey})
					if err != nil {
						return fmt.Errorf("failed to create Gemini client: %w", err)
					}
					defer client.Close()
					estimator = gemini.NewEstimator(client, usecase.TransportEstimator{})
				}

				recalculator = usecase.NewLocalRecalculator(pincodes, estimator, usecase.LocalRecalculatorConfig{
					GeminiKeyPresent: apiKey != "",
				})
			}

			resp, err := recalculator.Recalculate(cmd.Context(), pincode, items)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&cartPath, "cart", "", "Path to a YAML or JSON list of cart items (required)")
	cmd.Flags().StringVar(&pincode, "pincode", "", "Delivery pincode (required)")
	cmd.Flags().StringVar(&backendURL, "backend", "", "Base URL of a recalculation backend; recalculates locally when empty")
	cmd.Flags().StringVar(&pincodesPath, "pincodes", "", "YAML file with extra pincode coordinates")
	cmd.Flags().BoolVar(&useGemini, "gemini", false, "Estimate footprints with Gemini when GEMINI_API_KEY is set")

	_ = cmd.MarkFlagRequired("cart")
	_ = cmd.MarkFlagRequired("pincode")

	return cmd
}
