package cli

import (
	"github.com/spf13/cobra"

	"github.com/chm626/LehighEnergySymposium/internal/app"
)

var (
	compareEDC     string
	compareConform bool
	compareCSVPath string
	comparePNGPath string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare default-service, retail-offer and wholesale rates by month",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.CompareOptions{
			EDC:     compareEDC,
			Conform: compareConform,
			CSVPath: compareCSVPath,
			PNGPath: comparePNGPath,
		}
		return getApp().Compare(cmd.Context(), opts)
	},
}

func init() {
	compareCmd.Flags().StringVar(&compareEDC, "edc", "", "Utility to compare (defaults to all utilities averaged)")
	compareCmd.Flags().BoolVar(&compareConform, "conform", false, "Restrict offers to 12-month fixed-rate plans without fees")
	compareCmd.Flags().StringVar(&compareCSVPath, "csv", "", "Also write the aligned series as CSV")
	compareCmd.Flags().StringVar(&comparePNGPath, "png", "", "Also write the aligned series as a PNG chart")
}
