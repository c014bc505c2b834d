package commands

import (
	"github.com/spf13/cobra"

	"stockview/models"
	"stockview/services"
)

var (
	listSort  string
	listPages int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List eligible vehicles",
	Long: `List the vehicles the listing service publishes.

Only vehicles with a pass flag and an available final bid are shown.
Results are revealed a page at a time; --pages reveals more.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		order, err := services.ParseSortOrder(listSort)
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
		return showPages(cmd, a, vehicles, order, listPages)
	},
}

// showPages reveals pages of an engine over vehicles and prints the result
func showPages(cmd *cobra.Command, a *app, vehicles []*models.Vehicle, order services.SortOrder, pages int) error {
	engine := services.NewEngine(vehicles, a.engineOptions(order), a.logger)
	displayed := engine.Displayed()
	for p := 1; p < pages && engine.HasMore(); p++ {
		var err error
		displayed, err = engine.RequestMore(cmd.Context())
		if err != nil {
			return err
		}
	}
	printListing(cmd.OutOrStdout(), displayed, engine.Total())
	return nil
}

func init() {
	listCmd.Flags().StringVar(&listSort, "sort", "newest", "sort order: newest, price-asc, price-desc")
	listCmd.Flags().IntVar(&listPages, "pages", 1, "number of pages to reveal")
	rootCmd.AddCommand(listCmd)
}
