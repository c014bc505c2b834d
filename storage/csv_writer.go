package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"stockview/models"
	"stockview/utils"
)

// CSVWriter exports reconciled vehicles to a CSV file
type CSVWriter struct {
	filePath string
	logger   *utils.Logger
}

// NewCSVWriter creates a new CSVWriter
func NewCSVWriter(filePath string, logger *utils.Logger) *CSVWriter {
	return &CSVWriter{filePath: filePath, logger: logger}
}

var csvHeader = []string{
	"stock_number", "sr_key", "title", "vin", "final_bid",
	"timestamp", "image", "image_count", "spin_frames", "fields",
}

// WriteVehicles writes vehicles to the CSV file, replacing any previous export
func (w *CSVWriter) WriteVehicles(vehicles []*models.Vehicle) error {
	// Ensure output directory exists
	dir := filepath.Dir(w.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(w.filePath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, v := range vehicles {
		if err := writer.Write(vehicleRow(v)); err != nil {
			w.logger.Error("Failed to write CSV row for '%s': %v", v.StockNumber, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	w.logger.Info("Vehicles written to: %s (%d rows)", w.filePath, len(vehicles))
	return nil
}

func vehicleRow(v *models.Vehicle) []string {
	srKey := ""
	if v.SequentialKey.Valid {
		srKey = strconv.FormatInt(v.SequentialKey.Value, 10)
	}
	ts := ""
	if v.TimestampMillis != nil {
		ts = time.UnixMilli(*v.TimestampMillis).UTC().Format(time.RFC3339)
	}
	image := ""
	if len(v.Images) > 0 {
		image = v.Images[0]
	}
	fields := v.DisplayFields()
	pairs := make([]string, 0, fields.Len())
	for _, k := range fields.Keys() {
		pairs = append(pairs, k+"="+fields.Value(k))
	}
	return []string{
		v.StockNumber,
		srKey,
		v.Title,
		v.VINDisplay(),
		v.FinalBid,
		ts,
		image,
		strconv.Itoa(len(v.Images)),
		strconv.Itoa(len(v.SpinImages)),
		strings.Join(pairs, "; "),
	}
}
