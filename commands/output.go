package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"stockview/models"
)

var (
	titleColor = color.New(color.FgCyan, color.Bold)
	bidColor   = color.New(color.FgGreen, color.Bold)
	dimColor   = color.New(color.FgHiBlack)
)

// printListing writes one line per vehicle
func printListing(w io.Writer, vehicles []*models.Vehicle, total int) {
	for i, v := range vehicles {
		fmt.Fprintf(w, "%3d. %-40s %s  #%s  %s\n",
			i+1,
			clip(v.Title, 40),
			bidColor.Sprintf("%-12s", models.DisplayValue(v.FinalBid)),
			v.StockNumber,
			dimColor.Sprint(v.VINDisplay()),
		)
	}
	if len(vehicles) < total {
		fmt.Fprintf(w, "\nShowing %d of %d vehicles\n", len(vehicles), total)
	} else {
		fmt.Fprintf(w, "\nAll vehicles loaded (%d)\n", total)
	}
}

// printVehicle writes the detail view of one vehicle
func printVehicle(w io.Writer, v *models.Vehicle) {
	titleColor.Fprintf(w, "%s\n", v.Title)
	fmt.Fprintf(w, "#%s  |  VIN: %s\n", v.StockNumber, v.VINDisplay())
	if v.SequentialKey.Valid {
		dimColor.Fprintf(w, "sequence key %d\n", v.SequentialKey.Value)
	}
	if v.TimestampMillis != nil {
		dimColor.Fprintf(w, "listed %s\n", time.UnixMilli(*v.TimestampMillis).UTC().Format(time.RFC1123))
	}

	fmt.Fprintf(w, "\nFinal Bid: %s\n", bidColor.Sprint(models.DisplayValue(v.FinalBid)))

	fmt.Fprintf(w, "\nImages (%d", len(v.Images))
	if v.ImageSource != models.ImageSourceNone {
		fmt.Fprintf(w, ", from %s", v.ImageSource)
	}
	fmt.Fprintln(w, ")")
	for _, img := range v.Images {
		fmt.Fprintf(w, "  %s\n", img)
	}
	if len(v.SpinImages) > 0 {
		fmt.Fprintf(w, "360° view: %d frames\n", len(v.SpinImages))
	}
	if v.VideoURL != "" {
		fmt.Fprintf(w, "Video: %s\n", v.VideoURL)
	}

	fields := v.DisplayFields()
	if fields.Len() == 0 {
		return
	}
	fmt.Fprintln(w, "\nVehicle Details")
	fmt.Fprintln(w, strings.Repeat("─", 55))
	for _, k := range fields.Keys() {
		fmt.Fprintf(w, "  %-28s %s\n", clip(models.FieldLabel(k), 28)+":", models.DisplayValue(fields.Value(k)))
	}
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
