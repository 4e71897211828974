package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the cartctl command tree
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cartctl",
		Short: "Offline tools for CarbonCart cart footprints",
		Long: `cartctl runs the CarbonCart reconciliation and optimization engine on local files.

It can recalculate transport footprints for a scraped cart, merge recalculation
results back into the cart, and compare a basket of catalogue products across
retail platforms.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newRecalculateCmd())
	cmd.AddCommand(newReconcileCmd())
	cmd.AddCommand(newOptimizeCmd())

	return cmd
}
