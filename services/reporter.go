package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"stockview/models"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	priceColor   = color.New(color.FgGreen)
)

// PrintInsightReport formats and prints the insight report
func PrintInsightReport(w io.Writer, report *models.InsightReport) {
	border := strings.Repeat("═", 55)
	thin := strings.Repeat("─", 55)

	fmt.Fprintf(w, "\n╔%s╗\n", border)
	fmt.Fprintf(w, "║%s║\n", center("VEHICLE AUCTION INSIGHTS", 55))
	fmt.Fprintf(w, "╚%s╝\n", border)

	headingColor.Fprintf(w, "\n OVERVIEW\n")
	fmt.Fprintf(w, "%s\n", thin)
	fmt.Fprintf(w, "  Vehicles Loaded         : %d\n", report.TotalVehicles)
	fmt.Fprintf(w, "  Eligible For Listing    : %d\n", report.EligibleVehicles)
	fmt.Fprintf(w, "  With A Numeric Bid      : %d\n", report.PricedVehicles)
	fmt.Fprintf(w, "  Average Final Bid       : %s\n", priceColor.Sprintf("$%.2f", report.AverageBid))
	fmt.Fprintf(w, "  Lowest Final Bid        : %s\n", priceColor.Sprintf("$%.2f", report.MinBid))
	fmt.Fprintf(w, "  Highest Final Bid       : %s\n", priceColor.Sprintf("$%.2f", report.MaxBid))

	if report.MostExpensive != nil {
		headingColor.Fprintf(w, "\n MOST EXPENSIVE VEHICLE\n")
		fmt.Fprintf(w, "%s\n", thin)
		fmt.Fprintf(w, "  Title    : %s\n", report.MostExpensive.Title)
		fmt.Fprintf(w, "  Stock    : #%s\n", report.MostExpensive.StockNumber)
		fmt.Fprintf(w, "  Bid      : %s\n", report.MostExpensive.FinalBid)
		fmt.Fprintf(w, "  VIN      : %s\n", report.MostExpensive.VINDisplay())
	}

	if report.Newest != nil {
		headingColor.Fprintf(w, "\n NEWEST VEHICLE\n")
		fmt.Fprintf(w, "%s\n", thin)
		fmt.Fprintf(w, "  Title    : %s\n", report.Newest.Title)
		fmt.Fprintf(w, "  Stock    : #%s\n", report.Newest.StockNumber)
	}

	if len(report.VehiclesByMake) > 0 {
		headingColor.Fprintf(w, "\n VEHICLES PER MAKE\n")
		fmt.Fprintf(w, "%s\n", thin)
		type makeCount struct {
			make  string
			count int
		}
		var makes []makeCount
		for mk, cnt := range report.VehiclesByMake {
			makes = append(makes, makeCount{mk, cnt})
		}
		sort.Slice(makes, func(i, j int) bool {
			if makes[i].count != makes[j].count {
				return makes[i].count > makes[j].count
			}
			return makes[i].make < makes[j].make
		})
		for _, mc := range makes {
			bar := strings.Repeat("▓", mc.count)
			fmt.Fprintf(w, "  %-25s %3d  %s\n", truncate(mc.make, 24)+":", mc.count, bar)
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", border)
}

func center(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return s
	}
	pad := (width - len(runes)) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", width-len(runes)-pad)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
