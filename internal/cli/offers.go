package cli

import (
	"github.com/spf13/cobra"

	"github.com/chm626/LehighEnergySymposium/internal/app"
)

var (
	offersEDC     string
	offersConform bool
)

var offersCmd = &cobra.Command{
	Use:   "offers",
	Short: "Show retail offers relative to the utility default rate",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.OffersOptions{
			EDC:     offersEDC,
			Conform: offersConform,
		}
		return getApp().Offers(cmd.Context(), opts)
	},
}

func init() {
	offersCmd.Flags().StringVar(&offersEDC, "edc", "", "Utility to analyse (defaults to all utilities)")
	offersCmd.Flags().BoolVar(&offersConform, "conform", false, "Restrict offers to 12-month fixed-rate plans without fees")
}
