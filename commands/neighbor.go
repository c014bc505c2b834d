package commands

import (
	"github.com/spf13/cobra"

	"stockview/services"
)

var neighborDirection string

var neighborCmd = &cobra.Command{
	Use:   "neighbor <stock>",
	Short: "Show the next or previous vehicle in sequence",
	Long: `Load a vehicle, then step through the sequential key space in the
given direction until a vehicle is found. Gaps and failed lookups are
skipped; the search gives up after the configured probe bound.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := services.ParseDirection(neighborDirection)
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		current, err := a.resolver.FetchByStock(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		next, err := a.navigator.Step(cmd.Context(), current, dir)
		if err != nil {
			return err
		}
		printVehicle(cmd.OutOrStdout(), next)
		return nil
	},
}

func init() {
	neighborCmd.Flags().StringVarP(&neighborDirection, "direction", "d", "next", "next or prev")
	rootCmd.AddCommand(neighborCmd)
}
