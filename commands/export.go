package commands

import (
	"github.com/spf13/cobra"

	"stockview/services"
	"stockview/storage"
)

var (
	exportSort string
	exportOut  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every eligible vehicle to a CSV file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := services.ParseSortOrder(exportSort)
		if err != nil {
			return err
		}
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		vehicles, err := a.catalog.Listing(cmd.Context())
		if err != nil {
			return err
		}
		engine := services.NewEngine(vehicles, a.engineOptions(order), a.logger)

		path := exportOut
		if path == "" {
			path = a.cfg.CSVFilePath
		}
		var exporter storage.VehicleExporter = storage.NewCSVWriter(path, a.logger)
		return exporter.WriteVehicles(engine.All())
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportSort, "sort", "newest", "sort order: newest, price-asc, price-desc")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (default from config)")
	rootCmd.AddCommand(exportCmd)
}
