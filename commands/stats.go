package commands

import (
	"github.com/spf13/cobra"

	"stockview/services"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print bid and make statistics for the current listing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		vehicles, err := a.catalog.Listing(cmd.Context())
		if err != nil {
			return err
		}
		report := services.NewInsightService(a.logger).Generate(vehicles)
		services.PrintInsightReport(cmd.OutOrStdout(), report)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
