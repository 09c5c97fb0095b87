package cli

import (
	"github.com/spf13/cobra"

	"github.com/chm626/LehighEnergySymposium/internal/app"
)

var wholesaleZones []string

var wholesaleCmd = &cobra.Command{
	Use:   "wholesale",
	Short: "Show monthly average wholesale prices by zone",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.WholesaleOptions{Zones: wholesaleZones}
		return getApp().Wholesale(cmd.Context(), opts)
	},
}

func init() {
	wholesaleCmd.Flags().StringSliceVar(&wholesaleZones, "zone", nil, "Zone(s) to include (defaults to all zones)")
}
