package cli

import (
	"github.com/spf13/cobra"

	"github.com/chm626/LehighEnergySymposium/internal/app"
)

var (
	feesEDC  string
	feesType string
)

var feesCmd = &cobra.Command{
	Use:   "fees",
	Short: "Summarise supplier fee schedules by month and by supplier",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.FeesOptions{
			EDC:     feesEDC,
			FeeType: feesType,
		}
		return getApp().Fees(cmd.Context(), opts)
	},
}

func init() {
	feesCmd.Flags().StringVar(&feesEDC, "edc", "", "Utility to analyse (defaults to all utilities)")
	feesCmd.Flags().StringVar(&feesType, "type", "enrollment", "Fee type: enrollment, monthly or termination")
}
