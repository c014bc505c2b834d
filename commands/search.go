package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"stockview/services"
	"stockview/storage"
)

var (
	searchVIN   string
	searchName  string
	searchMake  string
	searchModel string
	searchYear  string
	searchSort  string
	searchPages int
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search vehicles by VIN or by make, model and year",
	Example: `  stockview search --vin 1HGCM82633A
  stockview search --name "Toyota Camry 2019"
  stockview search --make Toyota --model Camry --year 2019`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, ok := searchRequest()
		if !ok {
			return fmt.Errorf("give --vin, --name \"Make Model Year\", or all of --make, --model and --year")
		}
		order, err := services.ParseSortOrder(searchSort)
		if err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		vehicles, err := a.catalog.Find(cmd.Context(), req)
		if err != nil {
			return err
		}
		if len(vehicles) == 0 {
			return fmt.Errorf("no vehicles match this search")
		}
		return showPages(cmd, a, vehicles, order, searchPages)
	},
}

// searchRequest builds a request from the flags, VIN taking precedence
func searchRequest() (services.SearchRequest, bool) {
	if searchVIN != "" {
		return services.ParseSearch(services.SearchByVIN, searchVIN)
	}
	if searchName != "" {
		return services.ParseSearch(services.SearchByName, searchName)
	}
	q := storage.SearchQuery{Make: searchMake, Model: searchModel, Year: searchYear}
	if !q.Complete() {
		return services.SearchRequest{}, false
	}
	return services.SearchRequest{Mode: services.SearchByName, Query: q}, true
}

func init() {
	searchCmd.Flags().StringVar(&searchVIN, "vin", "", "VIN (only the first 11 characters are used)")
	searchCmd.Flags().StringVar(&searchName, "name", "", `"Make Model Year"`)
	searchCmd.Flags().StringVar(&searchMake, "make", "", "make")
	searchCmd.Flags().StringVar(&searchModel, "model", "", "model")
	searchCmd.Flags().StringVar(&searchYear, "year", "", "four-digit year")
	searchCmd.Flags().StringVar(&searchSort, "sort", "newest", "sort order: newest, price-asc, price-desc")
	searchCmd.Flags().IntVar(&searchPages, "pages", 1, "number of pages to reveal")
	rootCmd.AddCommand(searchCmd)
}
