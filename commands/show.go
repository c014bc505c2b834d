package commands

import (
	"time"

	"github.com/spf13/cobra"

	"stockview/models"
	"stockview/scraper"
)

var showExpandSnapshot bool

var showCmd = &cobra.Command{
	Use:   "show <stock>",
	Short: "Show one vehicle by stock number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		v, err := a.resolver.FetchByStock(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if showExpandSnapshot && v.ImageSource == models.ImageSourceSnapshot {
			extractor := scraper.NewSnapshotExtractor(time.Duration(a.cfg.SnapshotTimeoutMs)*time.Millisecond, a.logger)
			images, err := extractor.Images(cmd.Context(), v.Images[0])
			if err != nil {
				a.logger.Warn("Could not expand snapshot for %s: %v", v.StockNumber, err)
			} else {
				expanded := *v
				expanded.Images = images
				v = &expanded
			}
		}

		printVehicle(cmd.OutOrStdout(), v)
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showExpandSnapshot, "expand-snapshot", false,
		"render the page snapshot in headless Chrome to list its photos when it is the only image source")
	rootCmd.AddCommand(showCmd)
}
